package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

func validAssignment(sender role.AgentRole) *message.TaskAssignment {
	msg := message.NewTaskAssignment(sender)
	msg.TaskID = "T-1"
	msg.TaskTitle = "Implement session store"
	msg.TaskDescription = "Back the session store with the shared cache"
	msg.TaskType = role.TaskBackend
	msg.Assignee = role.BackendDev
	msg.EstimatedEffort = 3
	msg.AcceptanceCriteria = []string{"sessions survive restart"}
	return msg
}

func TestTaskAssignmentProtocol_Lifecycle(t *testing.T) {
	proto := NewTaskAssignmentProtocol("p1", role.TechLead)
	assert.Equal(t, StateInitiated, proto.State())
	assert.Equal(t, []role.AgentRole{role.TechLead}, proto.Participants())

	result := proto.AddMessage(validAssignment(role.TechLead))
	require.True(t, result.OK())
	assert.Equal(t, StateInProgress, proto.State())
	assert.Len(t, proto.Messages(), 1)
}

func TestTaskAssignmentProtocol_SenderAuthorization(t *testing.T) {
	proto := NewTaskAssignmentProtocol("p1", role.BackendDev)

	result := proto.AddMessage(validAssignment(role.BackendDev))
	require.False(t, result.OK())
	assert.Contains(t, result.Errors, "only tech lead or scrum master can assign tasks")

	// rejection leaves the protocol untouched
	assert.Equal(t, StateInitiated, proto.State())
	assert.Empty(t, proto.Messages())
}

func TestTaskAssignmentProtocol_MustOpenWithAssignment(t *testing.T) {
	proto := NewTaskAssignmentProtocol("p1", role.TechLead)

	ack := message.NewCoordinationRequest(role.BackendDev)
	ack.Topic = "task acknowledgement"

	result := proto.AddMessage(ack)
	require.False(t, result.OK())
	assert.Contains(t, result.Errors, "protocol must start with task_assignment message")
}

func TestProtocol_NoInitiatedReentry(t *testing.T) {
	proto := NewTaskAssignmentProtocol("p1", role.TechLead)

	require.True(t, proto.AddMessage(validAssignment(role.TechLead)).OK())
	assert.Equal(t, StateInProgress, proto.State())

	ack := message.NewCoordinationRequest(role.BackendDev)
	ack.Topic = "on it"
	require.True(t, proto.AddMessage(ack).OK())
	assert.Equal(t, StateInProgress, proto.State())
}

func TestProtocol_AwaitingResponse(t *testing.T) {
	proto := NewTaskAssignmentProtocol("p1", role.TechLead)

	// The opening message always lands the conversation in IN_PROGRESS,
	// even when it requires a response.
	opener := validAssignment(role.TechLead)
	opener.SetRequiresResponse(true)
	require.True(t, proto.AddMessage(opener).OK())
	assert.Equal(t, StateInProgress, proto.State())

	// Only a follow-up that requires a response parks it in AWAITING_RESPONSE.
	followup := message.NewCoordinationRequest(role.BackendDev)
	followup.Topic = "need design sign-off"
	followup.SetRequiresResponse(true)
	require.True(t, proto.AddMessage(followup).OK())
	assert.Equal(t, StateAwaitingResponse, proto.State())
}

func TestProtocol_DeadlineNotEnforced(t *testing.T) {
	// A long-expired response deadline is carried as data and never turned
	// into a sequencing error: messages keep flowing on the conversation.
	proto := NewTaskAssignmentProtocol("p1", role.TechLead)

	msg := validAssignment(role.TechLead)
	msg.SetResponseDeadline(time.Now().Add(-24 * time.Hour))
	require.True(t, proto.AddMessage(msg).OK())

	late := message.NewCoordinationRequest(role.BackendDev)
	late.Topic = "late acknowledgement"
	result := proto.AddMessage(late)
	assert.True(t, result.OK())
	assert.Empty(t, result.Warnings)
}

func TestProtocol_TerminalStates(t *testing.T) {
	proto := NewTaskAssignmentProtocol("p1", role.TechLead)
	require.True(t, proto.AddMessage(validAssignment(role.TechLead)).OK())

	proto.Complete()
	assert.True(t, proto.IsComplete())
	assert.True(t, proto.State().Terminal())
	assert.False(t, proto.CanAccept(validAssignment(role.TechLead)))

	cancelled := NewTaskAssignmentProtocol("p2", role.TechLead)
	cancelled.Cancel()
	assert.Equal(t, StateCancelled, cancelled.State())
	assert.False(t, cancelled.IsComplete())
}

func TestProtocol_ParticipantsTracked(t *testing.T) {
	proto := NewTaskAssignmentProtocol("p1", role.TechLead)

	msg := validAssignment(role.TechLead)
	msg.SetRecipient(role.BackendDev)
	require.True(t, proto.AddMessage(msg).OK())

	assert.Equal(t, []role.AgentRole{role.TechLead, role.BackendDev}, proto.Participants())
}

func TestSprintPlanningProtocol_FinalizeAuthorization(t *testing.T) {
	proto := NewSprintPlanningProtocol("p1", role.ProductOwner)

	plan := message.NewSprintPlanning(role.ProductOwner)
	plan.SprintID = "sprint-1"
	plan.SprintGoal = "goal"

	result := proto.AddMessage(plan)
	require.False(t, result.OK())
	assert.Contains(t, result.Errors, "only scrum master can finalize sprint planning")
}

func TestSprintPlanningProtocol_InitiatorWarning(t *testing.T) {
	proto := NewSprintPlanningProtocol("p1", role.TechLead)

	decision := message.NewArchitectureDecision(role.TechLead)
	decision.DecisionID = "AD-1"
	decision.Title = "Use event sourcing"

	result := proto.AddMessage(decision)
	require.True(t, result.OK())
	assert.Contains(t, result.Warnings, "sprint planning typically starts with product owner")
}

func TestSprintPlanningProtocol_NextActions(t *testing.T) {
	proto := NewSprintPlanningProtocol("p1", role.ProductOwner)
	assert.Equal(t, []string{"product owner should clarify requirements"}, proto.NextActions())

	clarify := message.NewRequirementClarification(role.ProductOwner)
	clarify.Question = "Which payment providers ship first?"
	clarify.StoryID = "S-1"
	require.True(t, proto.AddMessage(clarify).OK())
	assert.Equal(t, []string{"tech lead should make architecture decisions"}, proto.NextActions())

	decision := message.NewArchitectureDecision(role.TechLead)
	decision.DecisionID = "AD-1"
	decision.Title = "Provider abstraction layer"
	decision.Rationale = "isolates provider churn"
	require.True(t, proto.AddMessage(decision).OK())
	assert.Equal(t, []string{"scrum master should finalize sprint plan"}, proto.NextActions())

	plan := message.NewSprintPlanning(role.ScrumMaster)
	plan.SprintID = "sprint-1"
	plan.SprintGoal = "Payments MVP"
	require.True(t, proto.AddMessage(plan).OK())
	assert.Equal(t, []string{"begin sprint execution"}, proto.NextActions())
}

func TestCodeReviewProtocol_ReviewerWarning(t *testing.T) {
	proto := NewCodeReviewProtocol("p1", role.BackendDev)

	review := message.NewCodeReview(role.BackendDev)
	review.ReviewID = "R-1"
	review.FilesChanged = []string{"auth.go"}

	result := proto.AddMessage(review)
	require.True(t, result.OK())
	assert.Contains(t, result.Warnings, "code reviews typically done by tech lead or qa engineer")
}

func TestCodeReviewProtocol_NextActions(t *testing.T) {
	proto := NewCodeReviewProtocol("p1", role.TechLead)
	assert.Equal(t, []string{"submit code for review"}, proto.NextActions())

	review := message.NewCodeReview(role.TechLead)
	review.ReviewID = "R-1"
	review.FilesChanged = []string{"auth.go"}
	rejected := false
	review.Approved = &rejected
	review.IssuesFound = []string{"missing error wrap in auth.go"}
	require.True(t, proto.AddMessage(review).OK())
	assert.Equal(t, []string{"address review feedback"}, proto.NextActions())

	approved := message.NewCodeReview(role.TechLead)
	approved.ReviewID = "R-1"
	approved.FilesChanged = []string{"auth.go"}
	ok := true
	approved.Approved = &ok
	require.True(t, proto.AddMessage(approved).OK())
	assert.Equal(t, []string{"merge approved code"}, proto.NextActions())
}
