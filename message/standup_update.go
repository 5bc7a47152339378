package message

import "github.com/hupe1980/teammesh/role"

// StandupUpdate is one agent's daily progress report: what happened, what is
// planned, current blockers and a self-assessed confidence level.
type StandupUpdate struct {
	Envelope

	AgentName     string
	CurrentTaskID string

	CompletedYesterday []string
	PlannedToday       []string
	Blockers           []string

	HoursWorkedYesterday float64
	EstimatedHoursToday  float64
	// Confidence is the agent's self-assessment in [0, 1].
	Confidence float64
}

// NewStandupUpdate creates a standup update from sender, defaulting to full
// confidence.
func NewStandupUpdate(sender role.AgentRole) *StandupUpdate {
	m := &StandupUpdate{Envelope: newEnvelope(TypeStandupUpdate, sender)}
	m.Confidence = 1.0
	return m
}

// Validate checks the update's own fields.
func (m *StandupUpdate) Validate() ValidationResult {
	result := Valid()

	if m.AgentName == "" {
		result.AddError("agent_name is required")
	}
	if m.HoursWorkedYesterday < 0 {
		result.AddError("hours_worked_yesterday cannot be negative")
	}
	if m.EstimatedHoursToday < 0 {
		result.AddError("estimated_hours_today cannot be negative")
	}
	if m.Confidence < 0.0 || m.Confidence > 1.0 {
		result.AddError("confidence_level must be between 0.0 and 1.0")
	}
	if len(m.Blockers) > 0 && len(m.PlannedToday) == 0 {
		result.AddWarning("agent has blockers but no planned work")
	}
	if m.Confidence < 0.5 {
		result.AddWarning("low confidence level may indicate risks")
	}

	return result
}
