package message

import (
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/teammesh/role"
)

// Type is the fixed discriminant tag of a message variant. Every concrete
// message declares its tag explicitly at construction; it never changes for
// the lifetime of the message.
type Type string

const (
	// TypeTaskAssignment assigns a task to an agent.
	TypeTaskAssignment Type = "task_assignment"
	// TypeSprintPlanning carries a sprint plan or commitment.
	TypeSprintPlanning Type = "sprint_planning"
	// TypeCodeReview requests or reports a code review.
	TypeCodeReview Type = "code_review"
	// TypeStandupUpdate is a daily progress report.
	TypeStandupUpdate Type = "standup_update"
	// TypeRequirementClarification asks for or answers a requirements question.
	TypeRequirementClarification Type = "requirement_clarification"
	// TypeArchitectureDecision records a technical decision.
	TypeArchitectureDecision Type = "architecture_decision"
	// TypeQualityReport summarizes test and quality results.
	TypeQualityReport Type = "quality_report"
	// TypeCoordinationRequest is a generic coordination ask.
	TypeCoordinationRequest Type = "coordination_request"
)

// String returns the wire form of the type.
func (t Type) String() string { return string(t) }

// Valid reports whether t is one of the known message types.
func (t Type) Valid() bool {
	switch t {
	case TypeTaskAssignment, TypeSprintPlanning, TypeCodeReview, TypeStandupUpdate,
		TypeRequirementClarification, TypeArchitectureDecision, TypeQualityReport,
		TypeCoordinationRequest:
		return true
	default:
		return false
	}
}

// Priority orders message delivery. Critical and high priority messages are
// drained before medium/low ones within each delivery cycle.
type Priority string

const (
	// PriorityCritical is drained before everything else.
	PriorityCritical Priority = "critical"
	// PriorityHigh is drained with critical, after it.
	PriorityHigh Priority = "high"
	// PriorityMedium is the default.
	PriorityMedium Priority = "medium"
	// PriorityLow is drained last.
	PriorityLow Priority = "low"
)

// Urgent reports whether the priority belongs to the urgent drain class.
func (p Priority) Urgent() bool { return p == PriorityCritical || p == PriorityHigh }

// String returns the wire form of the priority.
func (p Priority) String() string { return string(p) }

// Message is a typed, self-validating unit of inter-agent communication.
// Implementations embed Envelope for the shared metadata and add their own
// typed payload fields plus a Validate method.
type Message interface {
	// ID is the unique message identifier.
	ID() string
	// Type is the fixed discriminant, set once at construction.
	Type() Type
	// Sender is the role of the originating agent.
	Sender() role.AgentRole
	// Recipient returns the explicit recipient, if one was set.
	Recipient() (role.AgentRole, bool)
	// Priority is the delivery priority class.
	Priority() Priority
	// Subject is a short human readable summary.
	Subject() string
	// Context is free-form auxiliary data carried with the message.
	Context() map[string]any
	// CorrelationID links related messages into one conversation.
	CorrelationID() string
	// RequiresResponse reports whether the sender expects a reply.
	RequiresResponse() bool
	// ResponseDeadline returns the reply-by time, if one was set. The
	// deadline is data only; nothing in this module enforces it.
	ResponseDeadline() (time.Time, bool)
	// Timestamp is the creation time (UTC).
	Timestamp() time.Time
	// Validate checks the message's own fields. It is pure, deterministic
	// and idempotent: same fields, same result, no side effects.
	Validate() ValidationResult
}

// Envelope carries the metadata shared by every message variant. Concrete
// variants embed it by value; the type tag and id are fixed by the variant
// constructor and have no setters.
type Envelope struct {
	id               string
	msgType          Type
	sender           role.AgentRole
	recipient        role.AgentRole
	hasRecipient     bool
	priority         Priority
	subject          string
	context          map[string]any
	correlationID    string
	requiresResponse bool
	responseDeadline time.Time
	hasDeadline      bool
	timestamp        time.Time
}

// newEnvelope builds the shared metadata for a variant. Each constructor in
// this package calls it with its fixed type tag.
func newEnvelope(t Type, sender role.AgentRole) Envelope {
	return Envelope{
		id:        uuid.NewString(),
		msgType:   t,
		sender:    sender,
		priority:  PriorityMedium,
		context:   map[string]any{},
		timestamp: time.Now().UTC(),
	}
}

// ID returns the unique message identifier.
func (e *Envelope) ID() string { return e.id }

// Type returns the fixed discriminant tag.
func (e *Envelope) Type() Type { return e.msgType }

// Sender returns the originating role.
func (e *Envelope) Sender() role.AgentRole { return e.sender }

// Recipient returns the explicit recipient and whether one was set.
func (e *Envelope) Recipient() (role.AgentRole, bool) { return e.recipient, e.hasRecipient }

// SetRecipient addresses the message to a single role, short-circuiting
// default routing.
func (e *Envelope) SetRecipient(r role.AgentRole) {
	e.recipient = r
	e.hasRecipient = true
}

// Priority returns the delivery priority class.
func (e *Envelope) Priority() Priority { return e.priority }

// SetPriority overrides the default medium priority.
func (e *Envelope) SetPriority(p Priority) { e.priority = p }

// Subject returns the short summary line.
func (e *Envelope) Subject() string { return e.subject }

// SetSubject sets the short summary line.
func (e *Envelope) SetSubject(s string) { e.subject = s }

// Context returns the free-form auxiliary data map.
func (e *Envelope) Context() map[string]any { return e.context }

// SetContext stores one auxiliary key/value pair.
func (e *Envelope) SetContext(key string, value any) { e.context[key] = value }

// CorrelationID returns the conversation link id ("" if unset).
func (e *Envelope) CorrelationID() string { return e.correlationID }

// SetCorrelationID links this message into an existing conversation.
func (e *Envelope) SetCorrelationID(id string) { e.correlationID = id }

// RequiresResponse reports whether the sender expects a reply.
func (e *Envelope) RequiresResponse() bool { return e.requiresResponse }

// SetRequiresResponse marks the message as expecting a reply.
func (e *Envelope) SetRequiresResponse(v bool) { e.requiresResponse = v }

// ResponseDeadline returns the reply-by time and whether one was set.
func (e *Envelope) ResponseDeadline() (time.Time, bool) { return e.responseDeadline, e.hasDeadline }

// SetResponseDeadline sets the reply-by time and implies RequiresResponse.
func (e *Envelope) SetResponseDeadline(t time.Time) {
	e.responseDeadline = t
	e.hasDeadline = true
	e.requiresResponse = true
}

// Timestamp returns the creation time (UTC).
func (e *Envelope) Timestamp() time.Time { return e.timestamp }
