// Package role declares the fixed participant roles of a software team and
// the task classification shared by messages and routing rules. Both enums
// are string typed so they serialize naturally and read well in logs.
package role

// AgentRole identifies a team member by responsibility, not by instance.
// Multiple agent instances may share a role (e.g. two frontend developers).
type AgentRole string

const (
	// ProductOwner owns requirements, backlog priority and acceptance.
	ProductOwner AgentRole = "product_owner"
	// ScrumMaster facilitates ceremonies and finalizes sprint commitments.
	ScrumMaster AgentRole = "scrum_master"
	// TechLead owns architecture decisions and code review authority.
	TechLead AgentRole = "tech_lead"
	// FrontendDev implements UI-facing work.
	FrontendDev AgentRole = "frontend_dev"
	// BackendDev implements service and data-layer work.
	BackendDev AgentRole = "backend_dev"
	// FullstackDev implements across the stack.
	FullstackDev AgentRole = "fullstack_dev"
	// QAEngineer owns testing and quality reporting.
	QAEngineer AgentRole = "qa_engineer"
)

// Roles returns the full fixed team enumeration in a stable order.
func Roles() []AgentRole {
	return []AgentRole{
		ProductOwner,
		ScrumMaster,
		TechLead,
		FrontendDev,
		BackendDev,
		FullstackDev,
		QAEngineer,
	}
}

// Valid reports whether r is one of the known roles.
func (r AgentRole) Valid() bool {
	switch r {
	case ProductOwner, ScrumMaster, TechLead, FrontendDev, BackendDev, FullstackDev, QAEngineer:
		return true
	}
	return false
}

// String returns the wire form of the role.
func (r AgentRole) String() string { return string(r) }

// TaskType classifies the kind of work a task represents. Used by task
// assignment validation to sanity check assignee fit.
type TaskType string

const (
	// TaskFrontend is UI work.
	TaskFrontend TaskType = "frontend"
	// TaskBackend is service/data work.
	TaskBackend TaskType = "backend"
	// TaskFullstack spans both.
	TaskFullstack TaskType = "fullstack"
	// TaskTesting is QA work.
	TaskTesting TaskType = "testing"
	// TaskArchitecture is design work.
	TaskArchitecture TaskType = "architecture"
	// TaskDevOps is build/deploy work.
	TaskDevOps TaskType = "devops"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskFrontend, TaskBackend, TaskFullstack, TaskTesting, TaskArchitecture, TaskDevOps:
		return true
	}
	return false
}

// String returns the wire form of the task type.
func (t TaskType) String() string { return string(t) }
