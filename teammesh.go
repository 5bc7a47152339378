// Package teammesh provides a high-level façade over the coordination
// substrate: the typed message bus, the protocol engine and the per-agent
// state machines. Most applications interact with this package by:
//  1. Creating a Mesh via New() (optionally overriding config, registry or logger)
//  2. Creating one state machine per agent instance and registering handlers
//  3. Starting the bus and exchanging messages via Send
//
// The façade delegates delivery to bus.Bus and conversation tracking to
// protocol.Validator while keeping setup ergonomics concise. All defaults
// are safe for local development and testing; deployments typically supply a
// tuned config.Config and a structured logger.
package teammesh

import (
	"context"

	"github.com/hupe1980/teammesh/bus"
	"github.com/hupe1980/teammesh/config"
	"github.com/hupe1980/teammesh/logging"
	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/protocol"
	"github.com/hupe1980/teammesh/role"
	"github.com/hupe1980/teammesh/state"
)

// Options configures the Mesh instance.
type Options struct {
	// Config tunes queueing, delivery cadence and routing.
	// Defaults to config.Default().
	Config config.Config

	// Registry maps opening message types to protocol kinds.
	// Defaults to protocol.DefaultRegistry().
	Registry protocol.Registry

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Mesh is the high-level façade aggregating the bus, the protocol validator
// and the team's state machines.
type Mesh struct {
	opts      Options
	bus       *bus.Bus
	validator *protocol.Validator
	states    *state.Registry
}

// New creates a new Mesh instance with optional overrides.
func New(optFns ...func(o *Options)) *Mesh {
	opts := Options{
		Config:   config.Default(),
		Registry: protocol.DefaultRegistry(),
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	validator := protocol.NewValidator(func(o *protocol.ValidatorOptions) {
		o.Registry = opts.Registry
		o.Logger = opts.Logger
	})

	b := bus.New(func(o *bus.Options) {
		o.Config = opts.Config
		o.Validator = validator
		o.Logger = opts.Logger
	})

	return &Mesh{
		opts:      opts,
		bus:       b,
		validator: validator,
		states:    state.NewRegistry(opts.Logger),
	}
}

// Start launches the background delivery worker.
func (m *Mesh) Start(ctx context.Context) error { return m.bus.Start(ctx) }

// Stop cooperatively shuts down delivery, letting in-flight handler calls
// finish.
func (m *Mesh) Stop() error { return m.bus.Stop() }

// Send validates, routes and enqueues a message. The outcome comes back as
// data; errors mean the message was not enqueued.
func (m *Mesh) Send(msg message.Message) message.ValidationResult { return m.bus.Send(msg) }

// RegisterHandler binds a delivery callback to a role and message-type set.
func (m *Mesh) RegisterHandler(handlerID string, r role.AgentRole, types []message.Type, callback bus.HandlerFunc, async bool) {
	m.bus.RegisterHandler(handlerID, r, types, callback, async)
}

// UnregisterHandler removes a previously registered handler.
func (m *Mesh) UnregisterHandler(handlerID string, r role.AgentRole) bool {
	return m.bus.UnregisterHandler(handlerID, r)
}

// AddRoute registers a custom (type, sender) -> destination routing rule and
// returns its id.
func (m *Mesh) AddRoute(route config.Route) string { return m.bus.Router().AddRoute(route) }

// RemoveRoute deletes a custom route by id.
func (m *Mesh) RemoveRoute(id string) bool { return m.bus.Router().RemoveRoute(id) }

// QueueStatus reports per-role queue depth and handler counts.
func (m *Mesh) QueueStatus() map[role.AgentRole]bus.QueueStatus { return m.bus.QueueStatus() }

// Metrics returns a snapshot of bus counters.
func (m *Mesh) Metrics() bus.Metrics { return m.bus.Metrics() }

// RecentMessages returns up to limit rows of the rolling send history.
func (m *Mesh) RecentMessages(limit int) []bus.HistoryEntry { return m.bus.RecentMessages(limit) }

// ActiveProtocols returns the live conversations.
func (m *Mesh) ActiveProtocols() map[string]*protocol.Protocol { return m.validator.ActiveProtocols() }

// ProtocolStatus reports state, participants and next expected actions per
// conversation.
func (m *Mesh) ProtocolStatus() map[string]protocol.ProtocolStatus { return m.validator.Status() }

// CleanupProtocols purges completed conversations and returns the count.
func (m *Mesh) CleanupProtocols() int { return m.validator.CleanupCompleted() }

// CreateAgent registers a state machine for one agent instance, using the
// role's standard behavior table.
func (m *Mesh) CreateAgent(r role.AgentRole, agentID string) *state.Machine {
	return m.states.Create(r, agentID)
}

// Machine looks up an agent's state machine by instance id.
func (m *Mesh) Machine(agentID string) (*state.Machine, error) { return m.states.Get(agentID) }

// TeamSnapshot returns StateInfo for every registered agent.
func (m *Mesh) TeamSnapshot() map[string]state.StateInfo { return m.states.TeamSnapshot() }
