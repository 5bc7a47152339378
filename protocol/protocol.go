package protocol

import (
	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

// State is the lifecycle position of a conversation.
type State string

const (
	// StateInitiated is the freshly created, no-messages-yet state.
	StateInitiated State = "initiated"
	// StateInProgress is entered on the first accepted message.
	StateInProgress State = "in_progress"
	// StateAwaitingResponse is entered when an accepted follow-up message
	// requires a response.
	StateAwaitingResponse State = "awaiting_response"
	// StateCompleted is terminal; completed protocols are purged by cleanup.
	StateCompleted State = "completed"
	// StateFailed is terminal.
	StateFailed State = "failed"
	// StateCancelled is terminal.
	StateCancelled State = "cancelled"
)

// Terminal reports whether the state admits no further messages.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// String returns the wire form of the state.
func (s State) String() string { return string(s) }

// SequenceValidator inspects the accepted history plus an incoming message
// and decides whether the message fits the conversation's ordering and
// authorization rules. Errors block the message; warnings are advisory.
type SequenceValidator func(history []message.Message, msg message.Message) message.ValidationResult

// NextActionsFunc describes, for humans, what the conversation expects next.
type NextActionsFunc func(history []message.Message) []string

// Protocol is a stateful ordered conversation over a family of related
// message types. Each protocol kind declares its expected type set, a
// sequence validator and a next-actions describer; this engine interprets
// the declaration.
//
// A Protocol is not internally synchronized. The Validator serializes all
// access to the protocols it owns; anyone holding a Protocol outside the
// Validator must not mutate it concurrently.
type Protocol struct {
	id           string
	kind         string
	initiator    role.AgentRole
	state        State
	messages     []message.Message
	participants []role.AgentRole

	expected    map[message.Type]struct{}
	validateSeq SequenceValidator
	nextActions NextActionsFunc
}

// New assembles a protocol from its declarative parts. The concrete
// constructors in this package (NewTaskAssignmentProtocol, ...) are the
// intended entry points; New is exported so applications can define their
// own conversation kinds.
func New(id, kind string, initiator role.AgentRole, expected []message.Type, seq SequenceValidator, next NextActionsFunc) *Protocol {
	set := make(map[message.Type]struct{}, len(expected))
	for _, t := range expected {
		set[t] = struct{}{}
	}
	return &Protocol{
		id:           id,
		kind:         kind,
		initiator:    initiator,
		state:        StateInitiated,
		participants: []role.AgentRole{initiator},
		expected:     set,
		validateSeq:  seq,
		nextActions:  next,
	}
}

// ID returns the protocol identifier.
func (p *Protocol) ID() string { return p.id }

// Kind returns the protocol kind name (task_assignment, sprint_planning, ...).
func (p *Protocol) Kind() string { return p.kind }

// Initiator returns the role that opened the conversation.
func (p *Protocol) Initiator() role.AgentRole { return p.initiator }

// State returns the current lifecycle state.
func (p *Protocol) State() State { return p.state }

// Messages returns a copy of the accepted message history, oldest first.
func (p *Protocol) Messages() []message.Message {
	out := make([]message.Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Participants returns the roles seen on this conversation in first-seen order.
func (p *Protocol) Participants() []role.AgentRole {
	out := make([]role.AgentRole, len(p.participants))
	copy(out, p.participants)
	return out
}

// ExpectedTypes returns the message types this conversation accepts.
func (p *Protocol) ExpectedTypes() []message.Type {
	out := make([]message.Type, 0, len(p.expected))
	for t := range p.expected {
		out = append(out, t)
	}
	return out
}

// Expects reports whether t is in the expected type set.
func (p *Protocol) Expects(t message.Type) bool {
	_, ok := p.expected[t]
	return ok
}

// NextActions describes what the conversation expects to happen next.
func (p *Protocol) NextActions() []string {
	return p.nextActions(p.messages)
}

// ValidateSequence runs the declared sequence validator against the current
// history without mutating the protocol.
func (p *Protocol) ValidateSequence(msg message.Message) message.ValidationResult {
	return p.validateSeq(p.messages, msg)
}

// CanAccept reports whether the protocol could take this message: it must
// not be terminal and the message type must be in the expected set.
func (p *Protocol) CanAccept(msg message.Message) bool {
	return !p.state.Terminal() && p.Expects(msg.Type())
}

// AddMessage validates the message against the sequence rules and, only on
// success, appends it to the history, records the sender as a participant
// and advances the lifecycle: the first accepted message always moves
// INITIATED to IN_PROGRESS, and a subsequent accepted message that requires
// a response moves the conversation to AWAITING_RESPONSE. A rejected message
// leaves the protocol untouched.
func (p *Protocol) AddMessage(msg message.Message) message.ValidationResult {
	result := p.validateSeq(p.messages, msg)
	if !result.OK() {
		return result
	}

	p.messages = append(p.messages, msg)
	p.addParticipant(msg.Sender())
	if r, ok := msg.Recipient(); ok {
		p.addParticipant(r)
	}

	if p.state == StateInitiated {
		p.state = StateInProgress
	} else if msg.RequiresResponse() {
		p.state = StateAwaitingResponse
	}

	return result
}

func (p *Protocol) addParticipant(r role.AgentRole) {
	for _, existing := range p.participants {
		if existing == r {
			return
		}
	}
	p.participants = append(p.participants, r)
}

// Complete marks the conversation finished. Terminal states are owned by the
// application; the engine never infers completion on its own.
func (p *Protocol) Complete() { p.state = StateCompleted }

// Fail marks the conversation failed.
func (p *Protocol) Fail() { p.state = StateFailed }

// Cancel marks the conversation cancelled.
func (p *Protocol) Cancel() { p.state = StateCancelled }

// IsComplete reports whether the conversation completed successfully.
func (p *Protocol) IsComplete() bool { return p.state == StateCompleted }
