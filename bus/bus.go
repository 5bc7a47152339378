package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/teammesh/config"
	"github.com/hupe1980/teammesh/logging"
	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/protocol"
	"github.com/hupe1980/teammesh/role"
)

var (
	// ErrAlreadyRunning is returned by Start when the delivery loop is live.
	ErrAlreadyRunning = fmt.Errorf("bus already running")
	// ErrNotRunning is returned by Stop when there is no loop to stop.
	ErrNotRunning = fmt.Errorf("bus not running")
)

// Options configures a Bus.
type Options struct {
	// Config supplies queue bounds, delivery cadence and routing tables.
	// Defaults to config.Default().
	Config config.Config
	// Validator is the protocol engine consulted on every send. Defaults
	// to a fresh validator over the default protocol registry.
	Validator *protocol.Validator
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Bus accepts outbound messages, validates them through the protocol engine,
// routes them to per-role bounded queues and delivers them asynchronously
// from a single background worker.
//
// Send, handler (un)registration and the observability getters may be called
// concurrently from any goroutine while the loop runs; the bus mutex guards
// queues, handler registries, history and counters, and the validator and
// router carry their own locks. A multi-worker delivery variant would only
// need to widen these existing critical sections.
type Bus struct {
	cfg       config.Config
	router    *Router
	validator *protocol.Validator
	logger    logging.Logger

	mu             sync.Mutex
	queues         map[role.AgentRole]*msgQueue
	handlersByRole map[role.AgentRole][]*Handler
	handlersByType map[message.Type][]*Handler
	history        []HistoryEntry
	failed         []message.Message
	counters       counters

	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
	inflight sync.WaitGroup // async handler invocations
}

// New creates a Bus with optional overrides.
func New(optFns ...func(o *Options)) *Bus {
	opts := Options{
		Config: config.Default(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Validator == nil {
		opts.Validator = protocol.NewValidator(func(o *protocol.ValidatorOptions) {
			o.Logger = opts.Logger
		})
	}
	return &Bus{
		cfg:            opts.Config,
		router:         NewRouter(opts.Config.DefaultRoutes, opts.Config.CustomRoutes),
		validator:      opts.Validator,
		logger:         opts.Logger,
		queues:         make(map[role.AgentRole]*msgQueue),
		handlersByRole: make(map[role.AgentRole][]*Handler),
		handlersByType: make(map[message.Type][]*Handler),
		counters:       newCounters(),
	}
}

// Router exposes the routing table for custom route management.
func (b *Bus) Router() *Router { return b.router }

// Validator exposes the protocol engine for status queries and lifecycle
// control (completing, failing or cancelling conversations).
func (b *Bus) Validator() *protocol.Validator { return b.validator }

// Start launches the background delivery worker. The worker runs until the
// provided context is cancelled or Stop is called.
func (b *Bus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return ErrAlreadyRunning
	}
	loopCtx, cancel := context.WithCancel(ctx)
	b.running = true
	b.cancel = cancel
	b.done = make(chan struct{})
	go b.run(loopCtx)
	b.logger.Info("message bus started")
	return nil
}

// Stop cooperatively cancels the delivery loop, waits for it to exit and
// then waits for in-flight async handler calls to finish. No work is killed
// mid-flight.
func (b *Bus) Stop() error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return ErrNotRunning
	}
	cancel := b.cancel
	done := b.done
	b.running = false
	b.cancel = nil
	b.mu.Unlock()

	cancel()
	<-done
	b.inflight.Wait()
	b.logger.Info("message bus stopped")
	return nil
}

// RegisterHandler binds a delivery callback to a role and message-type set.
// The handler is indexed both per-role (the delivery path) and per-type (the
// subscription path) in this one call.
func (b *Bus) RegisterHandler(handlerID string, r role.AgentRole, types []message.Type, callback HandlerFunc, async bool) {
	typeSet := make(map[message.Type]struct{}, len(types))
	for _, t := range types {
		typeSet[t] = struct{}{}
	}
	h := &Handler{ID: handlerID, Role: r, Types: typeSet, Callback: callback, Async: async}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlersByRole[r] = append(b.handlersByRole[r], h)
	for t := range typeSet {
		b.handlersByType[t] = append(b.handlersByType[t], h)
	}
	b.logger.Info("registered handler", "handler_id", handlerID, "role", r.String())
}

// UnregisterHandler removes a handler from both indexes, reporting whether
// it was found.
func (b *Bus) UnregisterHandler(handlerID string, r role.AgentRole) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlersByRole[r]
	var removed *Handler
	for i, h := range handlers {
		if h.ID == handlerID {
			removed = h
			b.handlersByRole[r] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
	if removed == nil {
		return false
	}
	for t := range removed.Types {
		byType := b.handlersByType[t]
		for i, h := range byType {
			if h.ID == handlerID {
				b.handlersByType[t] = append(byType[:i], byType[i+1:]...)
				break
			}
		}
	}
	b.logger.Info("unregistered handler", "handler_id", handlerID)
	return true
}

// Subscribers returns the handlers registered for a message type.
func (b *Bus) Subscribers(t message.Type) []*Handler {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Handler(nil), b.handlersByType[t]...)
}

// Send validates the message (intrinsic fields plus protocol sequencing),
// routes it and enqueues it for every resolved destination. The outcome is
// always returned as data: a result with errors means the message was
// recorded as failed and not enqueued; warnings ride along with successful
// sends. Zero resolved destinations counts as a routing failure metric and a
// warning, independent of validation.
func (b *Bus) Send(msg message.Message) message.ValidationResult {
	validation := b.validator.ValidateMessage(msg)
	if !validation.OK() {
		b.mu.Lock()
		b.counters.validationFailures++
		b.failed = append(b.failed, msg)
		b.mu.Unlock()
		b.logger.Warn("message validation failed", "message_id", msg.ID(), "errors", validation.Errors)
		return validation
	}

	destinations := b.router.Destinations(msg)

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(destinations) == 0 {
		validation.AddWarning("no destinations found for message")
		b.counters.routingFailures++
	}

	for _, dest := range destinations {
		q, ok := b.queues[dest]
		if !ok {
			q = newMsgQueue(b.cfg.QueueCapacity)
			b.queues[dest] = q
		}
		if q.push(msg) {
			b.counters.dropped++
			b.logger.Warn("queue full, dropped oldest message", "role", dest.String())
		}
	}

	b.counters.total++
	b.counters.byType[msg.Type()]++
	b.counters.bySender[msg.Sender()]++

	b.history = append(b.history, HistoryEntry{
		MessageID:    msg.ID(),
		Type:         msg.Type(),
		Sender:       msg.Sender(),
		Destinations: destinations,
		Timestamp:    time.Now().UTC(),
		Valid:        true,
	})
	if limit := b.cfg.HistoryLimit; limit > 0 && len(b.history) > limit {
		b.history = b.history[len(b.history)-limit:]
	}

	b.logger.Debug("message queued", "message_id", msg.ID(), "destinations", len(destinations))
	return validation
}

// run is the single background delivery worker. Unexpected faults inside a
// cycle are caught, logged and followed by a backoff; the loop itself never
// dies until its context is cancelled.
func (b *Bus) run(ctx context.Context) {
	defer close(b.done)

	cycles := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if fault := b.safeCycle(ctx); fault {
			select {
			case <-ctx.Done():
				return
			case <-time.After(b.cfg.ErrorBackoff):
			}
			continue
		}

		cycles++
		if every := b.cfg.CleanupEveryCycles; every > 0 && cycles%every == 0 {
			b.validator.CleanupCompleted()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(b.cfg.DeliveryInterval):
		}
	}
}

// safeCycle runs one delivery cycle, converting panics into a logged fault.
func (b *Bus) safeCycle(ctx context.Context) (fault bool) {
	defer func() {
		if r := recover(); r != nil {
			fault = true
			b.logger.Error("delivery cycle fault", "panic", fmt.Sprintf("%v", r))
		}
	}()
	b.cycle(ctx)
	return false
}

// cycle drains the queues for one pass: every critical message first, then
// every high one (each preserving per-queue arrival order), then one
// normal-priority message per queue. Handlers are invoked outside the bus
// lock so a slow handler never blocks Send.
func (b *Bus) cycle(ctx context.Context) {
	type delivery struct {
		dest role.AgentRole
		msg  message.Message
	}

	b.mu.Lock()
	var batch []delivery
	for _, p := range []message.Priority{message.PriorityCritical, message.PriorityHigh} {
		for dest, q := range b.queues {
			for _, msg := range q.takePriority(p) {
				batch = append(batch, delivery{dest: dest, msg: msg})
			}
		}
	}
	for dest, q := range b.queues {
		if msg, ok := q.pop(); ok {
			batch = append(batch, delivery{dest: dest, msg: msg})
		}
	}
	b.mu.Unlock()

	for _, d := range batch {
		select {
		case <-ctx.Done():
			return
		default:
		}
		b.deliver(ctx, d.dest, d.msg)
	}
}

// deliver invokes every matching handler for the destination role. Each
// handler failure (returned error or panic) is isolated: it is logged with
// the handler and message ids and never affects the other handlers or the
// loop.
func (b *Bus) deliver(ctx context.Context, dest role.AgentRole, msg message.Message) {
	b.mu.Lock()
	handlers := append([]*Handler(nil), b.handlersByRole[dest]...)
	b.mu.Unlock()

	for _, h := range handlers {
		if !h.Matches(msg) {
			continue
		}
		if h.Async {
			b.inflight.Add(1)
			go func(h *Handler) {
				defer b.inflight.Done()
				b.invoke(ctx, h, msg)
			}(h)
		} else {
			b.invoke(ctx, h, msg)
		}
	}
}

func (b *Bus) invoke(ctx context.Context, h *Handler, msg message.Message) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			b.finishDelivery(h, msg, time.Since(start), fmt.Errorf("panic: %v", r))
		}
	}()
	err := h.Callback(ctx, msg)
	b.finishDelivery(h, msg, time.Since(start), err)
}

// finishDelivery counts the failure, if any, and logs the outcome. When the
// configured logger can record structured delivery outcomes it gets the
// handler id, message id and measured duration.
func (b *Bus) finishDelivery(h *Handler, msg message.Message, dur time.Duration, err error) {
	if err != nil {
		b.mu.Lock()
		b.counters.handlerFailures++
		b.mu.Unlock()
	}
	if dl, ok := b.logger.(logging.DeliveryLogger); ok {
		dl.LogDelivery(h.ID, msg.ID(), dur, err == nil, err)
		return
	}
	if err != nil {
		b.logger.Error("handler failed to process message", "handler_id", h.ID, "message_id", msg.ID(), "error", err.Error())
		return
	}
	b.logger.Debug("message delivered", "message_id", msg.ID(), "handler_id", h.ID)
}

// QueueStatus reports per-role queue depth, handler count and the age of the
// queue head.
func (b *Bus) QueueStatus() map[role.AgentRole]QueueStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[role.AgentRole]QueueStatus, len(b.queues))
	for dest, q := range b.queues {
		status := QueueStatus{
			QueueSize: q.len(),
			Handlers:  len(b.handlersByRole[dest]),
		}
		if head, ok := q.peek(); ok {
			status.OldestMessage = head.Timestamp()
		}
		out[dest] = status
	}
	return out
}

// Metrics returns a snapshot of all bus counters.
func (b *Bus) Metrics() Metrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	byType := make(map[message.Type]int, len(b.counters.byType))
	for t, n := range b.counters.byType {
		byType[t] = n
	}
	bySender := make(map[role.AgentRole]int, len(b.counters.bySender))
	for r, n := range b.counters.bySender {
		bySender[r] = n
	}
	queueSizes := make(map[role.AgentRole]int, len(b.queues))
	handlerCount := 0
	for r, q := range b.queues {
		queueSizes[r] = q.len()
	}
	for _, handlers := range b.handlersByRole {
		handlerCount += len(handlers)
	}

	return Metrics{
		TotalMessages:      b.counters.total,
		MessagesByType:     byType,
		MessagesBySender:   bySender,
		ValidationFailures: b.counters.validationFailures,
		RoutingFailures:    b.counters.routingFailures,
		DroppedMessages:    b.counters.dropped,
		HandlerFailures:    b.counters.handlerFailures,
		QueueSizes:         queueSizes,
		HandlerCount:       handlerCount,
		ActiveProtocols:    b.validator.ActiveCount(),
		FailedMessages:     len(b.failed),
	}
}

// RecentMessages returns up to limit rows from the rolling send history,
// oldest first. A non-positive limit uses the configured default.
func (b *Bus) RecentMessages(limit int) []HistoryEntry {
	if limit <= 0 {
		limit = b.cfg.RecentDefault
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	start := len(b.history) - limit
	if start < 0 {
		start = 0
	}
	return append([]HistoryEntry(nil), b.history[start:]...)
}

// FailedMessages returns the messages rejected by validation, in order.
func (b *Bus) FailedMessages() []message.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]message.Message(nil), b.failed...)
}
