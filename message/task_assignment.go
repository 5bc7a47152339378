package message

import "github.com/hupe1980/teammesh/role"

// suitableAssignees maps a task type to the roles that are a natural fit.
// A mismatch is advisory only; routing still delivers the assignment.
var suitableAssignees = map[role.TaskType][]role.AgentRole{
	role.TaskFrontend:     {role.FrontendDev, role.FullstackDev},
	role.TaskBackend:      {role.BackendDev, role.FullstackDev},
	role.TaskFullstack:    {role.FullstackDev},
	role.TaskTesting:      {role.QAEngineer},
	role.TaskArchitecture: {role.TechLead},
	role.TaskDevOps:       {role.BackendDev, role.FullstackDev},
}

// TaskAssignment assigns a unit of work to an agent, carrying the planning
// metadata (effort, criteria, dependency links) the receiving agent needs to
// accept or push back.
type TaskAssignment struct {
	Envelope

	TaskID          string
	TaskTitle       string
	TaskDescription string
	TaskType        role.TaskType
	Assignee        role.AgentRole

	// EstimatedEffort is in story points or hours; must be positive.
	EstimatedEffort int
	// Dependencies are task ids this task relates to.
	Dependencies       []string
	AcceptanceCriteria []string

	// BlockedBy lists task ids that must complete first; Blocks lists task
	// ids waiting on this one.
	BlockedBy []string
	Blocks    []string
}

// NewTaskAssignment creates a task assignment from sender. The type tag is
// fixed here and cannot be changed afterwards.
func NewTaskAssignment(sender role.AgentRole) *TaskAssignment {
	return &TaskAssignment{Envelope: newEnvelope(TypeTaskAssignment, sender)}
}

// Validate checks the assignment's own fields. Structural problems (missing
// ids, non-positive effort) are errors; fit concerns are warnings.
func (m *TaskAssignment) Validate() ValidationResult {
	result := Valid()

	if m.TaskID == "" {
		result.AddError("task_id is required")
	}
	if m.TaskTitle == "" {
		result.AddError("task_title is required")
	}
	if m.TaskDescription == "" {
		result.AddError("task_description is required")
	}
	if m.EstimatedEffort <= 0 {
		result.AddError("estimated_effort must be positive")
	}
	if m.EstimatedEffort > 13 {
		result.AddWarning("estimated_effort exceeds typical sprint capacity")
	}
	if len(m.AcceptanceCriteria) == 0 {
		result.AddWarning("no acceptance criteria defined")
	}

	suitable := false
	for _, r := range suitableAssignees[m.TaskType] {
		if r == m.Assignee {
			suitable = true
			break
		}
	}
	if !suitable {
		result.AddWarning("assignee %s may not be optimal for %s task", m.Assignee, m.TaskType)
	}

	return result
}
