package state

import (
	"fmt"
	"sync"

	"github.com/hupe1980/teammesh/logging"
	"github.com/hupe1980/teammesh/role"
)

// ErrUnknownAgent is returned when a machine lookup misses.
var ErrUnknownAgent = fmt.Errorf("unknown agent")

// Registry holds the state machine of every agent instance on the team.
// Machines are created once per instance and shared thereafter. Safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	machines map[string]*Machine
	logger   logging.Logger
}

// NewRegistry constructs an empty machine registry.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Registry{machines: make(map[string]*Machine), logger: logger}
}

// Create builds a machine for (role, agentID) using the role's standard
// config and registers it. An existing machine for agentID is returned
// unchanged; instances are never recreated.
func (r *Registry) Create(agentRole role.AgentRole, agentID string) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.machines[agentID]; ok {
		return existing
	}
	m := NewMachine(agentRole, agentID, ConfigForRole(agentRole), r.logger)
	r.machines[agentID] = m
	r.logger.Info("created state machine", "agent_id", agentID, "role", agentRole.String())
	return m
}

// CreateWithConfig registers a machine with a custom config, for roles
// beyond the standard team.
func (r *Registry) CreateWithConfig(agentRole role.AgentRole, agentID string, cfg MachineConfig) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.machines[agentID]; ok {
		return existing
	}
	m := NewMachine(agentRole, agentID, cfg, r.logger)
	r.machines[agentID] = m
	return m
}

// Get looks up a machine by agent id.
func (r *Registry) Get(agentID string) (*Machine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.machines[agentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, agentID)
	}
	return m, nil
}

// All returns every registered machine.
func (r *Registry) All() []*Machine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Machine, 0, len(r.machines))
	for _, m := range r.machines {
		out = append(out, m)
	}
	return out
}

// TeamSnapshot returns StateInfo for every agent keyed by agent id.
func (r *Registry) TeamSnapshot() map[string]StateInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]StateInfo, len(r.machines))
	for id, m := range r.machines {
		out[id] = m.StateInfo()
	}
	return out
}
