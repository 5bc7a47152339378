package bus

import (
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/teammesh/config"
	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

// Router resolves a message to its ordered destination role list. Resolution
// is pure with respect to the message: an explicit recipient short-circuits
// to a singleton; otherwise the per-type default table applies, followed by
// any custom (type, sender) routes in registration order. The sender is
// always removed and duplicates collapse to first occurrence.
type Router struct {
	mu            sync.RWMutex
	defaultRoutes map[message.Type][]role.AgentRole
	custom        map[string]config.Route
	order         []string // route ids, registration order
}

// NewRouter builds a router from a default table and optional startup
// routes. The table is copied; later mutation of the caller's map has no
// effect.
func NewRouter(defaults map[message.Type][]role.AgentRole, startup []config.Route) *Router {
	table := make(map[message.Type][]role.AgentRole, len(defaults))
	for t, roles := range defaults {
		table[t] = append([]role.AgentRole(nil), roles...)
	}
	r := &Router{
		defaultRoutes: table,
		custom:        make(map[string]config.Route),
	}
	for _, route := range startup {
		r.AddRoute(route)
	}
	return r
}

// AddRoute registers a custom route and returns its id for later lookup or
// removal.
func (r *Router) AddRoute(route config.Route) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.custom[id] = route
	r.order = append(r.order, id)
	return id
}

// RemoveRoute deletes a custom route by id, reporting whether it existed.
func (r *Router) RemoveRoute(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.custom[id]; !ok {
		return false
	}
	delete(r.custom, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Route looks up a custom route by id.
func (r *Router) Route(id string) (config.Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.custom[id]
	return route, ok
}

// Destinations returns the duplicate-free ordered destination list for msg,
// with the sender excluded. An explicit recipient equal to the sender yields
// an empty list.
func (r *Router) Destinations(msg message.Message) []role.AgentRole {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []role.AgentRole
	if recipient, ok := msg.Recipient(); ok {
		candidates = append(candidates, recipient)
	} else {
		candidates = append(candidates, r.defaultRoutes[msg.Type()]...)
		for _, id := range r.order {
			route := r.custom[id]
			if route.MessageType == msg.Type() && route.Source == msg.Sender() {
				candidates = append(candidates, route.Destination)
			}
		}
	}

	seen := make(map[role.AgentRole]struct{}, len(candidates))
	destinations := make([]role.AgentRole, 0, len(candidates))
	for _, dest := range candidates {
		if dest == msg.Sender() {
			continue
		}
		if _, dup := seen[dest]; dup {
			continue
		}
		seen[dest] = struct{}{}
		destinations = append(destinations, dest)
	}
	return destinations
}
