package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/teammesh/role"
)

// Interface compliance (compile-time assertions)
var (
	_ Message = (*TaskAssignment)(nil)
	_ Message = (*SprintPlanning)(nil)
	_ Message = (*CodeReview)(nil)
	_ Message = (*StandupUpdate)(nil)
	_ Message = (*RequirementClarification)(nil)
	_ Message = (*ArchitectureDecision)(nil)
	_ Message = (*QualityReport)(nil)
	_ Message = (*CoordinationRequest)(nil)
)

func TestEnvelope_Defaults(t *testing.T) {
	msg := NewStandupUpdate(role.BackendDev)

	assert.NotEmpty(t, msg.ID())
	assert.Equal(t, TypeStandupUpdate, msg.Type())
	assert.Equal(t, role.BackendDev, msg.Sender())
	assert.Equal(t, PriorityMedium, msg.Priority())
	assert.False(t, msg.RequiresResponse())

	_, hasRecipient := msg.Recipient()
	assert.False(t, hasRecipient)

	_, hasDeadline := msg.ResponseDeadline()
	assert.False(t, hasDeadline)

	assert.False(t, msg.Timestamp().IsZero())
	assert.Equal(t, time.UTC, msg.Timestamp().Location())
}

func TestEnvelope_UniqueIDs(t *testing.T) {
	a := NewStandupUpdate(role.BackendDev)
	b := NewStandupUpdate(role.BackendDev)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestEnvelope_TypeFixedAtConstruction(t *testing.T) {
	// The type tag has no setter; every accessor path reports the
	// constructor's tag regardless of later field mutation.
	msg := NewTaskAssignment(role.TechLead)
	msg.TaskID = "T-1"
	msg.SetSubject("changed subject")
	msg.SetPriority(PriorityCritical)

	assert.Equal(t, TypeTaskAssignment, msg.Type())
}

func TestEnvelope_DeadlineImpliesResponse(t *testing.T) {
	msg := NewCoordinationRequest(role.ScrumMaster)
	require.False(t, msg.RequiresResponse())

	deadline := time.Now().Add(time.Hour)
	msg.SetResponseDeadline(deadline)

	got, ok := msg.ResponseDeadline()
	require.True(t, ok)
	assert.Equal(t, deadline, got)
	assert.True(t, msg.RequiresResponse())
}

func TestType_Valid(t *testing.T) {
	known := []Type{
		TypeTaskAssignment, TypeSprintPlanning, TypeCodeReview, TypeStandupUpdate,
		TypeRequirementClarification, TypeArchitectureDecision, TypeQualityReport,
		TypeCoordinationRequest,
	}
	for _, typ := range known {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, Type("").Valid())
	assert.False(t, Type("qualty_reprt").Valid())
}

func TestPriority_Urgent(t *testing.T) {
	assert.True(t, PriorityCritical.Urgent())
	assert.True(t, PriorityHigh.Urgent())
	assert.False(t, PriorityMedium.Urgent())
	assert.False(t, PriorityLow.Urgent())
}

func validTaskAssignment() *TaskAssignment {
	msg := NewTaskAssignment(role.TechLead)
	msg.TaskID = "T-42"
	msg.TaskTitle = "Build login form"
	msg.TaskDescription = "Implement the login form with validation"
	msg.TaskType = role.TaskFrontend
	msg.Assignee = role.FrontendDev
	msg.EstimatedEffort = 5
	msg.AcceptanceCriteria = []string{"form validates email"}
	return msg
}

func TestTaskAssignment_Validate(t *testing.T) {
	msg := validTaskAssignment()
	result := msg.Validate()
	assert.True(t, result.OK())
	assert.Empty(t, result.Warnings)
}

func TestTaskAssignment_MissingFields(t *testing.T) {
	msg := NewTaskAssignment(role.TechLead)
	result := msg.Validate()

	require.False(t, result.OK())
	assert.Contains(t, result.Errors, "task_id is required")
	assert.Contains(t, result.Errors, "task_title is required")
	assert.Contains(t, result.Errors, "task_description is required")
	assert.Contains(t, result.Errors, "estimated_effort must be positive")
}

func TestTaskAssignment_EffortAndFitWarnings(t *testing.T) {
	msg := validTaskAssignment()
	msg.EstimatedEffort = 21
	msg.Assignee = role.BackendDev // frontend task

	result := msg.Validate()
	assert.True(t, result.OK())
	assert.Contains(t, result.Warnings, "estimated_effort exceeds typical sprint capacity")
	assert.Contains(t, result.Warnings, "assignee backend_dev may not be optimal for frontend task")
}

func TestSprintPlanning_Validate(t *testing.T) {
	msg := NewSprintPlanning(role.ScrumMaster)
	msg.SprintID = "sprint-7"
	msg.SprintGoal = "Ship the checkout flow"
	msg.StoryIDs = []string{"S-1", "S-2"}
	msg.CapacityUtilization = 0.85
	msg.SuccessCriteria = []string{"checkout e2e green"}

	result := msg.Validate()
	assert.True(t, result.OK())
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 14, msg.DurationDays)
}

func TestSprintPlanning_CapacityWarnings(t *testing.T) {
	msg := NewSprintPlanning(role.ScrumMaster)
	msg.SprintID = "sprint-8"
	msg.SprintGoal = "goal"
	msg.StoryIDs = []string{"S-1"}
	msg.SuccessCriteria = []string{"done"}

	msg.CapacityUtilization = 1.2
	over := msg.Validate()
	assert.Contains(t, over.Warnings, "sprint appears over-committed")

	msg.CapacityUtilization = 0.3
	under := msg.Validate()
	assert.Contains(t, under.Warnings, "sprint may be under-committed")
}

func TestCodeReview_RejectedWithoutIssues(t *testing.T) {
	msg := NewCodeReview(role.TechLead)
	msg.ReviewID = "R-1"
	msg.FilesChanged = []string{"handler.go"}
	rejected := false
	msg.Approved = &rejected

	result := msg.Validate()
	assert.True(t, result.OK())
	assert.Contains(t, result.Warnings, "review rejected but no issues specified")
}

func TestCodeReview_LargeChangeset(t *testing.T) {
	msg := NewCodeReview(role.QAEngineer)
	msg.ReviewID = "R-2"
	msg.FilesChanged = []string{"a.go", "b.go"}
	msg.LinesAdded = 400
	msg.LinesRemoved = 200

	result := msg.Validate()
	assert.True(t, result.OK())
	assert.Contains(t, result.Warnings, "large changeset may require additional review time")
}

func TestStandupUpdate_NegativeHours(t *testing.T) {
	msg := NewStandupUpdate(role.BackendDev)
	msg.AgentName = "backend-1"
	msg.HoursWorkedYesterday = -1

	result := msg.Validate()
	require.False(t, result.OK())
	assert.Contains(t, result.Errors, "hours_worked_yesterday cannot be negative")
}

func TestStandupUpdate_ConfidenceRange(t *testing.T) {
	msg := NewStandupUpdate(role.FrontendDev)
	msg.AgentName = "frontend-1"
	msg.Confidence = 1.5

	result := msg.Validate()
	require.False(t, result.OK())
	assert.Contains(t, result.Errors, "confidence_level must be between 0.0 and 1.0")
}

func TestStandupUpdate_BlockersWithoutPlan(t *testing.T) {
	msg := NewStandupUpdate(role.FullstackDev)
	msg.AgentName = "fullstack-1"
	msg.Blockers = []string{"waiting on API contract"}

	result := msg.Validate()
	assert.True(t, result.OK())
	assert.Contains(t, result.Warnings, "agent has blockers but no planned work")
}

func TestStandupUpdate_LowConfidenceWarning(t *testing.T) {
	msg := NewStandupUpdate(role.BackendDev)
	msg.AgentName = "backend-1"
	msg.PlannedToday = []string{"finish T-9"}
	msg.Confidence = 0.3

	result := msg.Validate()
	assert.True(t, result.OK())
	assert.Contains(t, result.Warnings, "low confidence level may indicate risks")
}

func TestRequirementClarification_Validate(t *testing.T) {
	msg := NewRequirementClarification(role.BackendDev)
	result := msg.Validate()
	require.False(t, result.OK())
	assert.Contains(t, result.Errors, "question is required")

	msg.Question = "Should deletion be soft or hard?"
	result = msg.Validate()
	assert.True(t, result.OK())
	assert.Contains(t, result.Warnings, "clarification not tied to a story")
}

func TestQualityReport_Validate(t *testing.T) {
	msg := NewQualityReport(role.QAEngineer)
	msg.ReportID = "Q-1"
	msg.TestsPassed = 40
	msg.TestsFailed = 2
	msg.CoveragePercent = 81.5

	result := msg.Validate()
	assert.True(t, result.OK())
	assert.Contains(t, result.Warnings, "report contains failing tests")

	msg.CoveragePercent = 120
	result = msg.Validate()
	require.False(t, result.OK())
	assert.Contains(t, result.Errors, "coverage_percent must be between 0 and 100")
}

func TestValidate_Idempotent(t *testing.T) {
	msg := NewStandupUpdate(role.BackendDev)
	msg.HoursWorkedYesterday = -1

	first := msg.Validate()
	second := msg.Validate()
	assert.Equal(t, first, second)
}

func TestValidationResult_OKOnValue(t *testing.T) {
	// OK must be callable on results returned by value so callers can
	// chain it directly off Validate and similar methods.
	assert.True(t, Valid().OK())
	assert.False(t, NewTaskAssignment(role.TechLead).Validate().OK())
	assert.True(t, validTaskAssignment().Validate().OK())
}

func TestValidationResult_Merge(t *testing.T) {
	a := Valid()
	a.AddError("first error")
	a.AddWarning("first warning")

	b := Valid()
	b.AddError("second error")

	a.Merge(b)
	assert.Equal(t, []string{"first error", "second error"}, a.Errors)
	assert.Equal(t, []string{"first warning"}, a.Warnings)
	assert.False(t, a.OK())
}
