// Package config holds the coordination substrate's tunable parameters as an
// explicit, injectable value. The default routing table and delivery knobs
// are process-wide configuration, not hidden globals: construct a Config
// (Default or LoadFile), adjust it, and hand it to teammesh.New.
package config

import (
	"time"

	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

// Route is a custom routing rule: messages of MessageType sent by Source are
// additionally delivered to Destination.
type Route struct {
	Source      role.AgentRole
	Destination role.AgentRole
	MessageType message.Type
}

// Config tunes queueing, delivery cadence and routing. Zero values are not
// meaningful; start from Default().
type Config struct {
	// QueueCapacity bounds each per-role FIFO queue. On overflow the
	// oldest entry is dropped, by policy, not as an error.
	QueueCapacity int

	// HistoryLimit bounds the rolling record of recently sent messages.
	HistoryLimit int

	// RecentDefault is the limit RecentMessages uses when the caller
	// passes a non-positive value.
	RecentDefault int

	// DeliveryInterval is the cooperative yield between delivery cycles.
	DeliveryInterval time.Duration

	// ErrorBackoff is the pause after an unexpected delivery-loop fault
	// before the loop resumes.
	ErrorBackoff time.Duration

	// CleanupEveryCycles is how many delivery cycles pass between
	// completed-protocol purges.
	CleanupEveryCycles int

	// DefaultRoutes is the per-message-type destination table consulted
	// when a message names no explicit recipient.
	DefaultRoutes map[message.Type][]role.AgentRole

	// CustomRoutes are additional (type, sender)->destination rules
	// registered at startup. More can be added at runtime via the router.
	CustomRoutes []Route
}

// Default returns the documented baseline: 1000-deep queues, 10000-entry
// history, 100ms delivery cadence, 1s fault backoff, protocol cleanup every
// 10 cycles, and the standard team routing table.
func Default() Config {
	return Config{
		QueueCapacity:      1000,
		HistoryLimit:       10000,
		RecentDefault:      50,
		DeliveryInterval:   100 * time.Millisecond,
		ErrorBackoff:       time.Second,
		CleanupEveryCycles: 10,
		DefaultRoutes:      DefaultRoutes(),
	}
}

// DefaultRoutes returns the standard per-type destination table: task
// assignments fan out to the implementation roles and QA, planning messages
// to the leads, reviews to the reviewing roles, standups to the scrum
// master, clarifications to the product owner and architecture decisions to
// the tech lead. Quality reports and coordination requests have no default
// destinations; they rely on explicit recipients or custom routes.
func DefaultRoutes() map[message.Type][]role.AgentRole {
	return map[message.Type][]role.AgentRole{
		message.TypeTaskAssignment: {
			role.FrontendDev,
			role.BackendDev,
			role.FullstackDev,
			role.QAEngineer,
		},
		message.TypeSprintPlanning: {
			role.ProductOwner,
			role.ScrumMaster,
			role.TechLead,
		},
		message.TypeCodeReview:               {role.TechLead, role.QAEngineer},
		message.TypeStandupUpdate:            {role.ScrumMaster},
		message.TypeRequirementClarification: {role.ProductOwner},
		message.TypeArchitectureDecision:     {role.TechLead},
	}
}
