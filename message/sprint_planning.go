package message

import "github.com/hupe1980/teammesh/role"

// SprintPlanning carries a sprint plan: goal, selected stories, capacity
// numbers and the risk assessment that went into the commitment.
type SprintPlanning struct {
	Envelope

	SprintID     string
	SprintGoal   string
	DurationDays int

	StoryIDs         []string
	TotalStoryPoints int
	TeamCapacity     int
	// CapacityUtilization is planned points over capacity; above 1.0 the
	// sprint is over-committed, below 0.6 it is likely under-committed.
	CapacityUtilization float64

	Risks           []string
	Assumptions     []string
	SuccessCriteria []string
}

// NewSprintPlanning creates a sprint planning message from sender with the
// customary two-week duration preset.
func NewSprintPlanning(sender role.AgentRole) *SprintPlanning {
	m := &SprintPlanning{Envelope: newEnvelope(TypeSprintPlanning, sender)}
	m.DurationDays = 14
	return m
}

// Validate checks the plan's own fields.
func (m *SprintPlanning) Validate() ValidationResult {
	result := Valid()

	if m.SprintID == "" {
		result.AddError("sprint_id is required")
	}
	if m.SprintGoal == "" {
		result.AddError("sprint_goal is required")
	}
	if m.DurationDays <= 0 {
		result.AddError("sprint_duration_days must be positive")
	}
	if m.DurationDays > 30 {
		result.AddWarning("sprint duration exceeds recommended maximum")
	}
	if len(m.StoryIDs) == 0 {
		result.AddWarning("no stories planned for sprint")
	}
	if m.CapacityUtilization > 1.0 {
		result.AddWarning("sprint appears over-committed")
	} else if m.CapacityUtilization < 0.6 {
		result.AddWarning("sprint may be under-committed")
	}
	if len(m.SuccessCriteria) == 0 {
		result.AddWarning("no success criteria defined")
	}

	return result
}
