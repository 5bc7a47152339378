package protocol

import (
	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

// Factory constructs a fresh protocol instance for a conversation opened by
// initiator.
type Factory func(id string, initiator role.AgentRole) *Protocol

// Registry maps an opening message type to the protocol kind it starts. It
// is plain data: construct it explicitly (DefaultRegistry or a literal) and
// inject it into the Validator.
type Registry map[message.Type]Factory

// DefaultRegistry covers the three built-in conversation kinds.
func DefaultRegistry() Registry {
	return Registry{
		message.TypeTaskAssignment: NewTaskAssignmentProtocol,
		message.TypeSprintPlanning: NewSprintPlanningProtocol,
		message.TypeCodeReview:     NewCodeReviewProtocol,
	}
}

// NewTaskAssignmentProtocol builds the task assignment conversation: it must
// open with a task_assignment message, and only the tech lead or scrum
// master may assign tasks. Both rules are hard errors.
func NewTaskAssignmentProtocol(id string, initiator role.AgentRole) *Protocol {
	expected := []message.Type{message.TypeTaskAssignment, message.TypeCoordinationRequest}

	seq := func(history []message.Message, msg message.Message) message.ValidationResult {
		result := message.Valid()

		if len(history) == 0 && msg.Type() != message.TypeTaskAssignment {
			result.AddError("protocol must start with task_assignment message")
		}
		if msg.Type() == message.TypeTaskAssignment {
			if msg.Sender() != role.TechLead && msg.Sender() != role.ScrumMaster {
				result.AddError("only tech lead or scrum master can assign tasks")
			}
		}

		return result
	}

	next := func(history []message.Message) []string {
		if len(history) == 0 {
			return []string{"tech lead or scrum master should send task assignment"}
		}
		if history[len(history)-1].Type() == message.TypeTaskAssignment {
			return []string{"assigned agent should acknowledge task assignment"}
		}
		return []string{"protocol should be completed"}
	}

	return New(id, "task_assignment", initiator, expected, seq, next)
}

// NewSprintPlanningProtocol builds the sprint planning conversation. The
// product owner customarily opens with clarifications (warning if not), and
// only the scrum master may send the finalizing sprint_planning message
// (hard error otherwise).
func NewSprintPlanningProtocol(id string, initiator role.AgentRole) *Protocol {
	expected := []message.Type{
		message.TypeSprintPlanning,
		message.TypeRequirementClarification,
		message.TypeTaskAssignment,
		message.TypeArchitectureDecision,
	}

	seq := func(history []message.Message, msg message.Message) message.ValidationResult {
		result := message.Valid()

		if len(history) == 0 && msg.Sender() != role.ProductOwner {
			result.AddWarning("sprint planning typically starts with product owner")
		}
		if msg.Type() == message.TypeSprintPlanning && msg.Sender() != role.ScrumMaster {
			result.AddError("only scrum master can finalize sprint planning")
		}

		return result
	}

	next := func(history []message.Message) []string {
		seen := make(map[message.Type]bool, len(history))
		for _, m := range history {
			seen[m.Type()] = true
		}
		switch {
		case !seen[message.TypeRequirementClarification]:
			return []string{"product owner should clarify requirements"}
		case !seen[message.TypeArchitectureDecision]:
			return []string{"tech lead should make architecture decisions"}
		case !seen[message.TypeSprintPlanning]:
			return []string{"scrum master should finalize sprint plan"}
		default:
			return []string{"begin sprint execution"}
		}
	}

	return New(id, "sprint_planning", initiator, expected, seq, next)
}

// NewCodeReviewProtocol builds the code review conversation. Reviews from
// outside the tech lead / qa engineer pair draw a warning, never an error.
func NewCodeReviewProtocol(id string, initiator role.AgentRole) *Protocol {
	expected := []message.Type{message.TypeCodeReview, message.TypeCoordinationRequest}

	seq := func(history []message.Message, msg message.Message) message.ValidationResult {
		result := message.Valid()
		if msg.Type() == message.TypeCodeReview {
			if msg.Sender() != role.TechLead && msg.Sender() != role.QAEngineer {
				result.AddWarning("code reviews typically done by tech lead or qa engineer")
			}
		}
		return result
	}

	next := func(history []message.Message) []string {
		if len(history) == 0 {
			return []string{"submit code for review"}
		}
		last := history[len(history)-1]
		if cr, ok := last.(*message.CodeReview); ok {
			if cr.Approved != nil && !*cr.Approved {
				return []string{"address review feedback"}
			}
			return []string{"merge approved code"}
		}
		return []string{"complete review process"}
	}

	return New(id, "code_review", initiator, expected, seq, next)
}
