package bus

import (
	"time"

	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

// Metrics is a point-in-time snapshot of bus counters. Maps are copies; the
// caller may keep them.
type Metrics struct {
	TotalMessages      int
	MessagesByType     map[message.Type]int
	MessagesBySender   map[role.AgentRole]int
	ValidationFailures int
	RoutingFailures    int
	DroppedMessages    int
	HandlerFailures    int
	QueueSizes         map[role.AgentRole]int
	HandlerCount       int
	ActiveProtocols    int
	FailedMessages     int
}

// QueueStatus describes one destination queue.
type QueueStatus struct {
	QueueSize int
	Handlers  int
	// OldestMessage is the timestamp of the queue head, zero when empty.
	OldestMessage time.Time
}

// HistoryEntry is one row of the rolling send history.
type HistoryEntry struct {
	MessageID    string
	Type         message.Type
	Sender       role.AgentRole
	Destinations []role.AgentRole
	Timestamp    time.Time
	Valid        bool
}

// counters is the internal mutable tally, guarded by the bus mutex.
type counters struct {
	total              int
	byType             map[message.Type]int
	bySender           map[role.AgentRole]int
	validationFailures int
	routingFailures    int
	dropped            int
	handlerFailures    int
}

func newCounters() counters {
	return counters{
		byType:   make(map[message.Type]int),
		bySender: make(map[role.AgentRole]int),
	}
}
