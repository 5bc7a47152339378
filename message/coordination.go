package message

import (
	"time"

	"github.com/hupe1980/teammesh/role"
)

// RequirementClarification asks for (or answers) a requirements question,
// optionally tied to a specific story.
type RequirementClarification struct {
	Envelope

	Question string
	StoryID  string
	// Answer is empty on the asking leg and filled on the reply.
	Answer           string
	BlockersResolved []string
}

// NewRequirementClarification creates a clarification message from sender.
func NewRequirementClarification(sender role.AgentRole) *RequirementClarification {
	return &RequirementClarification{Envelope: newEnvelope(TypeRequirementClarification, sender)}
}

// Validate checks the clarification's own fields.
func (m *RequirementClarification) Validate() ValidationResult {
	result := Valid()
	if m.Question == "" {
		result.AddError("question is required")
	}
	if m.StoryID == "" {
		result.AddWarning("clarification not tied to a story")
	}
	return result
}

// ArchitectureDecision records a technical decision together with the
// alternatives considered and the components it touches.
type ArchitectureDecision struct {
	Envelope

	DecisionID string
	Title      string
	Rationale  string

	Alternatives       []string
	Consequences       []string
	AffectedComponents []string
}

// NewArchitectureDecision creates an architecture decision message from sender.
func NewArchitectureDecision(sender role.AgentRole) *ArchitectureDecision {
	return &ArchitectureDecision{Envelope: newEnvelope(TypeArchitectureDecision, sender)}
}

// Validate checks the decision's own fields.
func (m *ArchitectureDecision) Validate() ValidationResult {
	result := Valid()
	if m.DecisionID == "" {
		result.AddError("decision_id is required")
	}
	if m.Title == "" {
		result.AddError("title is required")
	}
	if m.Rationale == "" {
		result.AddWarning("decision recorded without rationale")
	}
	return result
}

// QualityReport summarizes a test run and the defects it surfaced.
type QualityReport struct {
	Envelope

	ReportID    string
	TestsPassed int
	TestsFailed int
	// CoveragePercent is in [0, 100].
	CoveragePercent float64
	DefectsFound    []string
}

// NewQualityReport creates a quality report message from sender.
func NewQualityReport(sender role.AgentRole) *QualityReport {
	return &QualityReport{Envelope: newEnvelope(TypeQualityReport, sender)}
}

// Validate checks the report's own fields.
func (m *QualityReport) Validate() ValidationResult {
	result := Valid()
	if m.ReportID == "" {
		result.AddError("report_id is required")
	}
	if m.TestsPassed < 0 {
		result.AddError("tests_passed cannot be negative")
	}
	if m.TestsFailed < 0 {
		result.AddError("tests_failed cannot be negative")
	}
	if m.CoveragePercent < 0 || m.CoveragePercent > 100 {
		result.AddError("coverage_percent must be between 0 and 100")
	}
	if m.TestsFailed > 0 {
		result.AddWarning("report contains failing tests")
	}
	return result
}

// CoordinationRequest is a generic coordination ask that does not fit a more
// specific variant: scheduling, pairing, unblocking, acknowledgements.
type CoordinationRequest struct {
	Envelope

	Topic   string
	Details string
	// NeededBy is informational; like response deadlines it is never
	// enforced by the bus.
	NeededBy time.Time
}

// NewCoordinationRequest creates a coordination request from sender.
func NewCoordinationRequest(sender role.AgentRole) *CoordinationRequest {
	return &CoordinationRequest{Envelope: newEnvelope(TypeCoordinationRequest, sender)}
}

// Validate checks the request's own fields.
func (m *CoordinationRequest) Validate() ValidationResult {
	result := Valid()
	if m.Topic == "" {
		result.AddError("topic is required")
	}
	return result
}
