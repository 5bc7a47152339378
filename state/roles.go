package state

import (
	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

// withBlockedTransitions appends the blocking rows for every non-blocked
// state: any state can be forced into BLOCKED by a blocker, and emptying the
// blocker set returns the machine to whichever state it left.
func withBlockedTransitions(transitions []Transition, states []AgentState) []Transition {
	for _, s := range states {
		if s == StateBlocked {
			continue
		}
		transitions = append(transitions,
			Transition{From: s, To: StateBlocked, Trigger: "blocked"},
			Transition{From: StateBlocked, To: s, Trigger: "unblocked"},
		)
	}
	return transitions
}

// ProductOwnerConfig declares the product owner's behavior: planning and
// coordination heavy, no implementation states.
func ProductOwnerConfig() MachineConfig {
	states := []AgentState{StateIdle, StatePlanning, StateReviewing, StateCoordinating, StateBlocked}

	transitions := []Transition{
		{From: StateIdle, To: StatePlanning, Trigger: "sprint_planning_started"},
		{From: StateIdle, To: StateCoordinating, Trigger: "requirement_clarification_requested"},
		{From: StatePlanning, To: StateCoordinating, Trigger: "stakeholder_input_needed"},
		{From: StatePlanning, To: StateIdle, Trigger: "planning_completed"},
		{From: StateCoordinating, To: StatePlanning, Trigger: "requirements_clarified"},
		{From: StateCoordinating, To: StateReviewing, Trigger: "sprint_review_started"},
		{From: StateReviewing, To: StateIdle, Trigger: "review_completed"},
	}

	return MachineConfig{
		InitialState: StateIdle,
		ValidStates:  states,
		Transitions:  withBlockedTransitions(transitions, states),
		Capabilities: map[AgentState][]string{
			StateIdle:         {"clarify_requirements", "prioritize_backlog", "accept_new_requests"},
			StatePlanning:     {"create_user_stories", "define_acceptance_criteria", "prioritize_stories", "estimate_business_value"},
			StateCoordinating: {"answer_requirements_questions", "provide_clarifications", "negotiate_scope"},
			StateReviewing:    {"review_deliverables", "accept_or_reject_work", "provide_feedback"},
			StateBlocked:      {},
		},
		MessageStates: map[message.Type][]AgentState{
			message.TypeRequirementClarification: {StateIdle, StateCoordinating, StatePlanning},
			message.TypeSprintPlanning:           {StateIdle, StatePlanning},
			message.TypeStandupUpdate:            {StateIdle, StateCoordinating},
		},
	}
}

// ScrumMasterConfig declares the scrum master's behavior: ceremony
// facilitation and team coordination.
func ScrumMasterConfig() MachineConfig {
	states := []AgentState{StateIdle, StatePlanning, StateCoordinating, StateReviewing, StateBlocked}

	transitions := []Transition{
		{From: StateIdle, To: StatePlanning, Trigger: "sprint_planning_initiated"},
		{From: StateIdle, To: StateCoordinating, Trigger: "daily_standup_time"},
		{From: StatePlanning, To: StateIdle, Trigger: "sprint_planned"},
		{From: StateCoordinating, To: StateIdle, Trigger: "coordination_completed"},
		{From: StateCoordinating, To: StateReviewing, Trigger: "retrospective_time"},
		{From: StateReviewing, To: StateIdle, Trigger: "retrospective_completed"},
	}

	return MachineConfig{
		InitialState: StateIdle,
		ValidStates:  states,
		Transitions:  withBlockedTransitions(transitions, states),
		Capabilities: map[AgentState][]string{
			StateIdle:         {"facilitate_ceremonies", "remove_blockers", "track_metrics"},
			StatePlanning:     {"facilitate_sprint_planning", "coordinate_capacity_planning", "finalize_sprint_commitment"},
			StateCoordinating: {"run_daily_standups", "identify_blockers", "coordinate_team_communication", "track_progress"},
			StateReviewing:    {"facilitate_retrospective", "collect_feedback", "identify_improvements"},
			StateBlocked:      {},
		},
		MessageStates: map[message.Type][]AgentState{
			message.TypeSprintPlanning:      {StateIdle, StatePlanning},
			message.TypeStandupUpdate:       {StateIdle, StateCoordinating},
			message.TypeCoordinationRequest: {StateIdle, StateCoordinating, StatePlanning},
		},
	}
}

// TechLeadConfig declares the tech lead's behavior: the only role with both
// implementation and review authority.
func TechLeadConfig() MachineConfig {
	states := []AgentState{StateIdle, StatePlanning, StateWorking, StateReviewing, StateCoordinating, StateBlocked}

	transitions := []Transition{
		{From: StateIdle, To: StatePlanning, Trigger: "architecture_planning_needed"},
		{From: StateIdle, To: StateReviewing, Trigger: "code_review_requested"},
		{From: StateIdle, To: StateWorking, Trigger: "architecture_task_assigned"},
		{From: StatePlanning, To: StateWorking, Trigger: "architecture_decided"},
		{From: StatePlanning, To: StateIdle, Trigger: "planning_completed"},
		{From: StateWorking, To: StateReviewing, Trigger: "architecture_completed"},
		{From: StateWorking, To: StateIdle, Trigger: "task_completed"},
		{From: StateReviewing, To: StateIdle, Trigger: "review_completed"},
		{From: StateReviewing, To: StateCoordinating, Trigger: "review_feedback_needed"},
		{From: StateCoordinating, To: StateIdle, Trigger: "coordination_completed"},
	}

	return MachineConfig{
		InitialState: StateIdle,
		ValidStates:  states,
		Transitions:  withBlockedTransitions(transitions, states),
		Capabilities: map[AgentState][]string{
			StateIdle:         {"accept_review_requests", "provide_architecture_guidance", "answer_technical_questions"},
			StatePlanning:     {"make_architecture_decisions", "break_down_technical_stories", "design_system_components", "plan_technical_approach"},
			StateWorking:      {"create_architectural_components", "generate_code_templates", "implement_core_infrastructure"},
			StateReviewing:    {"review_code_quality", "check_architectural_compliance", "provide_improvement_suggestions"},
			StateCoordinating: {"guide_implementation_approach", "resolve_technical_conflicts", "coordinate_with_developers"},
			StateBlocked:      {},
		},
		MessageStates: map[message.Type][]AgentState{
			message.TypeArchitectureDecision: {StateIdle, StatePlanning, StateCoordinating},
			message.TypeCodeReview:           {StateIdle, StateReviewing},
			message.TypeTaskAssignment:       {StateIdle},
		},
	}
}

// DeveloperConfig declares the behavior shared by frontend, backend and
// fullstack developers. New assignments are accepted only while idle.
func DeveloperConfig() MachineConfig {
	states := []AgentState{StateIdle, StateWorking, StateCoordinating, StateBlocked}

	transitions := []Transition{
		{From: StateIdle, To: StateWorking, Trigger: "task_assigned"},
		{From: StateIdle, To: StateCoordinating, Trigger: "clarification_needed"},
		{From: StateWorking, To: StateCoordinating, Trigger: "help_needed"},
		{From: StateWorking, To: StateIdle, Trigger: "task_completed"},
		{From: StateCoordinating, To: StateWorking, Trigger: "clarification_received"},
		{From: StateCoordinating, To: StateIdle, Trigger: "coordination_completed"},
	}

	return MachineConfig{
		InitialState: StateIdle,
		ValidStates:  states,
		Transitions:  withBlockedTransitions(transitions, states),
		Capabilities: map[AgentState][]string{
			StateIdle:         {"accept_task_assignments", "provide_estimates", "participate_in_standups"},
			StateWorking:      {"implement_features", "write_code", "run_tests", "commit_changes", "update_documentation"},
			StateCoordinating: {"ask_for_clarification", "report_blockers", "collaborate_with_team"},
			StateBlocked:      {},
		},
		MessageStates: map[message.Type][]AgentState{
			message.TypeTaskAssignment: {StateIdle},
			message.TypeStandupUpdate:  {StateIdle, StateWorking, StateCoordinating},
			message.TypeCodeReview:     {StateIdle, StateWorking},
		},
	}
}

// QAEngineerConfig declares the QA engineer's behavior: test planning,
// execution and review.
func QAEngineerConfig() MachineConfig {
	states := []AgentState{StateIdle, StatePlanning, StateWorking, StateReviewing, StateBlocked}

	transitions := []Transition{
		{From: StateIdle, To: StatePlanning, Trigger: "test_planning_needed"},
		{From: StateIdle, To: StateWorking, Trigger: "testing_task_assigned"},
		{From: StateIdle, To: StateReviewing, Trigger: "code_review_requested"},
		{From: StatePlanning, To: StateWorking, Trigger: "test_plan_completed"},
		{From: StatePlanning, To: StateIdle, Trigger: "planning_deferred"},
		{From: StateWorking, To: StateIdle, Trigger: "testing_completed"},
		{From: StateWorking, To: StateReviewing, Trigger: "defects_found"},
		{From: StateReviewing, To: StateIdle, Trigger: "review_completed"},
		{From: StateReviewing, To: StateWorking, Trigger: "retest_needed"},
	}

	return MachineConfig{
		InitialState: StateIdle,
		ValidStates:  states,
		Transitions:  withBlockedTransitions(transitions, states),
		Capabilities: map[AgentState][]string{
			StateIdle:      {"accept_testing_assignments", "provide_quality_insights", "participate_in_ceremonies"},
			StatePlanning:  {"create_test_plans", "design_test_cases", "identify_testing_scope"},
			StateWorking:   {"execute_test_cases", "automated_testing", "manual_testing", "report_defects", "verify_fixes"},
			StateReviewing: {"review_code_quality", "verify_test_coverage", "assess_quality_metrics"},
			StateBlocked:   {},
		},
		MessageStates: map[message.Type][]AgentState{
			message.TypeTaskAssignment: {StateIdle},
			message.TypeQualityReport:  {StateIdle, StateReviewing},
			message.TypeCodeReview:     {StateIdle, StateReviewing},
		},
	}
}

// ConfigForRole returns the standard config for a role.
func ConfigForRole(r role.AgentRole) MachineConfig {
	switch r {
	case role.ProductOwner:
		return ProductOwnerConfig()
	case role.ScrumMaster:
		return ScrumMasterConfig()
	case role.TechLead:
		return TechLeadConfig()
	case role.QAEngineer:
		return QAEngineerConfig()
	default:
		return DeveloperConfig()
	}
}
