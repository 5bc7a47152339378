package bus

import (
	"context"

	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

// HandlerFunc is the delivery callback contract: one message in, an error
// out. Returned errors (and panics) are caught and logged by the bus, never
// propagated; a handler cannot fail a delivery cycle.
type HandlerFunc func(ctx context.Context, msg message.Message) error

// Handler binds a callback to a role and a set of message types. A handler
// receives a message when its role owns the destination queue, the message
// type is in its set, and any explicit recipient on the message matches the
// handler's role.
type Handler struct {
	ID       string
	Role     role.AgentRole
	Types    map[message.Type]struct{}
	Callback HandlerFunc
	// Async handlers are invoked on their own goroutine so a slow consumer
	// cannot delay the rest of the cycle. Stop waits for in-flight async
	// calls to finish.
	Async bool
}

// Matches reports whether the handler should receive msg.
func (h *Handler) Matches(msg message.Message) bool {
	if _, ok := h.Types[msg.Type()]; !ok {
		return false
	}
	if recipient, ok := msg.Recipient(); ok && recipient != h.Role {
		return false
	}
	return true
}
