package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/teammesh/logging"
	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

// AgentState is an agent's current mode of operation.
type AgentState string

const (
	// StateIdle means available for new work.
	StateIdle AgentState = "idle"
	// StatePlanning means engaged in planning activity.
	StatePlanning AgentState = "planning"
	// StateWorking means executing an assigned task.
	StateWorking AgentState = "working"
	// StateReviewing means reviewing someone else's work.
	StateReviewing AgentState = "reviewing"
	// StateBlocked means waiting on unresolved blockers. Entered only via
	// AddBlocker and left only once the blocker set empties.
	StateBlocked AgentState = "blocked"
	// StateCoordinating means communicating with other agents.
	StateCoordinating AgentState = "coordinating"
	// StateError is a fault state for roles that model one.
	StateError AgentState = "error"
)

// String returns the wire form of the state.
func (s AgentState) String() string { return string(s) }

// Guard is an optional transition precondition evaluated against the
// caller-supplied transition context.
type Guard func(ctx any) bool

// Action is an optional transition side-effect. Action failures are logged
// and never block the transition.
type Action func(ctx any) error

// Transition is one row of a role's transition table: (from, to, trigger)
// with an optional guard and side-effect. Keeping the rules as data makes
// each role's behavior auditable in one place.
type Transition struct {
	From    AgentState
	To      AgentState
	Trigger string
	Guard   Guard
	Action  Action
}

// Interval is one closed chapter of the append-only state history.
type Interval struct {
	State     AgentState
	EnteredAt time.Time
	ExitedAt  time.Time
}

// MachineConfig declares a role's complete behavior: its valid states, the
// transition table, the per-state capability sets and the message-type
// gating map. The per-role constructors in this package (DeveloperConfig,
// TechLeadConfig, ...) build the standard team; applications may declare
// their own.
type MachineConfig struct {
	InitialState AgentState
	ValidStates  []AgentState
	Transitions  []Transition
	// Capabilities lists the actions available while in a given state.
	Capabilities map[AgentState][]string
	// MessageStates maps a message type to the states in which the role
	// may process it. Absent types are never handled.
	MessageStates map[message.Type][]AgentState
}

// validState reports whether s is in the declared state set.
func (c *MachineConfig) validState(s AgentState) bool {
	for _, valid := range c.ValidStates {
		if valid == s {
			return true
		}
	}
	return false
}

// StateInfo is a point-in-time snapshot of a machine.
type StateInfo struct {
	Role             role.AgentRole
	AgentID          string
	CurrentState     AgentState
	PreviousState    AgentState
	StateEnteredAt   time.Time
	TimeInState      time.Duration
	AvailableActions []string
	Blockers         []string
	ContextData      map[string]any
}

// Machine governs one agent instance's capability set. All mutation goes
// through validated transitions; the state history is append-only. Safe for
// concurrent use.
type Machine struct {
	mu sync.Mutex

	agentRole role.AgentRole
	agentID   string
	cfg       MachineConfig

	current     AgentState
	previous    AgentState
	hasPrevious bool
	enteredAt   time.Time
	history     []Interval

	blockers    []string
	contextData map[string]any

	logger logging.Logger
}

// NewMachine creates a machine for one (role, instance) pair from its
// declarative config.
func NewMachine(r role.AgentRole, agentID string, cfg MachineConfig, logger logging.Logger) *Machine {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Machine{
		agentRole:   r,
		agentID:     agentID,
		cfg:         cfg,
		current:     cfg.InitialState,
		enteredAt:   time.Now().UTC(),
		contextData: map[string]any{},
		logger:      logger,
	}
}

// Role returns the machine's role.
func (m *Machine) Role() role.AgentRole { return m.agentRole }

// AgentID returns the machine's instance id.
func (m *Machine) AgentID() string { return m.agentID }

// CurrentState returns the current state.
func (m *Machine) CurrentState() AgentState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// TransitionTo attempts a transition to target under trigger. It returns
// false, leaving the state unchanged, when the target is outside the valid
// state set, when no table row matches (current, target, trigger), or when
// the row's guard rejects the context. On success the just-exited interval
// is appended to history, the side-effect runs best-effort and the
// capability set follows the new state.
func (m *Machine) TransitionTo(target AgentState, trigger string, tctx any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitionLocked(target, trigger, tctx)
}

func (m *Machine) transitionLocked(target AgentState, trigger string, tctx any) bool {
	if !m.cfg.validState(target) {
		m.logTransition(m.current, target, trigger, false, "invalid state transition attempted")
		return false
	}

	var match *Transition
	for i := range m.cfg.Transitions {
		t := &m.cfg.Transitions[i]
		if t.From == m.current && t.To == target && t.Trigger == trigger {
			match = t
			break
		}
	}
	if match == nil {
		m.logTransition(m.current, target, trigger, false, "no valid transition found")
		return false
	}

	if match.Guard != nil && !match.Guard(tctx) {
		m.logTransition(m.current, target, trigger, false, "transition guard rejected")
		return false
	}

	now := time.Now().UTC()
	if m.current != target {
		m.history = append(m.history, Interval{State: m.current, EnteredAt: m.enteredAt, ExitedAt: now})
	}

	old := m.current
	m.previous = m.current
	m.hasPrevious = true
	m.current = target
	m.enteredAt = now

	if match.Action != nil {
		m.runAction(match.Action, tctx)
	}

	// Leaving BLOCKED through the table clears any stale blockers.
	if old == StateBlocked && target != StateBlocked {
		m.blockers = nil
	}

	m.logTransition(old, target, trigger, true, "state transition")
	return true
}

// logTransition reports a transition attempt, preferring the logger's
// LogTransition capability when it has one.
func (m *Machine) logTransition(from, to AgentState, trigger string, accepted bool, msg string) {
	if tl, ok := m.logger.(logging.TransitionLogger); ok {
		tl.LogTransition(from.String(), to.String(), trigger, accepted)
		return
	}
	if accepted {
		m.logger.Info(msg, "agent_id", m.agentID, "from", from.String(), "to", to.String(), "trigger", trigger)
		return
	}
	m.logger.Warn(msg, "agent_id", m.agentID, "from", from.String(), "to", to.String(), "trigger", trigger)
}

func (m *Machine) runAction(action Action, tctx any) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("transition action panicked", "agent_id", m.agentID, "panic", fmt.Sprintf("%v", r))
		}
	}()
	if err := action(tctx); err != nil {
		m.logger.Error("transition action failed", "agent_id", m.agentID, "error", err.Error())
	}
}

// AddBlocker records a blocker and forces the machine into BLOCKED if it is
// not already there. This is the only sanctioned entry into BLOCKED.
func (m *Machine) AddBlocker(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.blockers {
		if existing == reason {
			return
		}
	}
	m.blockers = append(m.blockers, reason)

	if m.current != StateBlocked {
		m.transitionLocked(StateBlocked, "blocked", map[string]any{"blocker": reason})
	}
}

// RemoveBlocker clears one blocker. Once the set is empty the machine
// returns to the remembered pre-block state (or idle when there is none).
func (m *Machine) RemoveBlocker(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.blockers {
		if existing == reason {
			m.blockers = append(m.blockers[:i], m.blockers[i+1:]...)
			break
		}
	}

	if len(m.blockers) == 0 && m.current == StateBlocked {
		target := StateIdle
		if m.hasPrevious && m.previous != StateBlocked {
			target = m.previous
		}
		m.transitionLocked(target, "unblocked", nil)
	}
}

// Blockers returns a copy of the active blocker set.
func (m *Machine) Blockers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.blockers...)
}

// IsBlocked reports whether the machine is in BLOCKED.
func (m *Machine) IsBlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current == StateBlocked
}

// IsAvailableForWork reports whether the agent can take on new work.
func (m *Machine) IsAvailableForWork() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current == StateIdle || m.current == StateCoordinating
}

// CanHandleMessage reports whether the role may process a message of type t
// while in its current state.
func (m *Machine) CanHandleMessage(t message.Type) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.cfg.MessageStates[t] {
		if s == m.current {
			return true
		}
	}
	return false
}

// AvailableActions returns the capability set for the current state.
func (m *Machine) AvailableActions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cfg.Capabilities[m.current]...)
}

// History returns a copy of the closed state intervals, oldest first.
func (m *Machine) History() []Interval {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Interval(nil), m.history...)
}

// SetContext stores a context key/value pair on the machine.
func (m *Machine) SetContext(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contextData[key] = value
}

// GetContext reads a context value.
func (m *Machine) GetContext(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.contextData[key]
	return v, ok
}

// StateInfo returns a point-in-time snapshot of the machine.
func (m *Machine) StateInfo() StateInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctxCopy := make(map[string]any, len(m.contextData))
	for k, v := range m.contextData {
		ctxCopy[k] = v
	}
	info := StateInfo{
		Role:             m.agentRole,
		AgentID:          m.agentID,
		CurrentState:     m.current,
		StateEnteredAt:   m.enteredAt,
		TimeInState:      time.Since(m.enteredAt),
		AvailableActions: append([]string(nil), m.cfg.Capabilities[m.current]...),
		Blockers:         append([]string(nil), m.blockers...),
		ContextData:      ctxCopy,
	}
	if m.hasPrevious {
		info.PreviousState = m.previous
	}
	return info
}
