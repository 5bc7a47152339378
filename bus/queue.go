package bus

import "github.com/hupe1980/teammesh/message"

// msgQueue is a bounded FIFO for one destination role. Overflow drops the
// oldest entry: backpressure by policy, not by error. Not internally
// synchronized; the bus mutex guards all access.
type msgQueue struct {
	items    []message.Message
	capacity int
}

func newMsgQueue(capacity int) *msgQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &msgQueue{capacity: capacity}
}

// push appends msg, dropping the oldest entry first when the queue is at
// capacity. Reports whether a drop happened.
func (q *msgQueue) push(msg message.Message) (dropped bool) {
	if len(q.items) >= q.capacity {
		q.items = q.items[1:]
		dropped = true
	}
	q.items = append(q.items, msg)
	return dropped
}

// pop removes and returns the queue head.
func (q *msgQueue) pop() (message.Message, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	msg := q.items[0]
	q.items = q.items[1:]
	return msg, true
}

// peek returns the queue head without removing it.
func (q *msgQueue) peek() (message.Message, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// takePriority removes and returns every queued message of priority p,
// preserving arrival order.
func (q *msgQueue) takePriority(p message.Priority) []message.Message {
	var taken []message.Message
	remaining := q.items[:0]
	for _, msg := range q.items {
		if msg.Priority() == p {
			taken = append(taken, msg)
		} else {
			remaining = append(remaining, msg)
		}
	}
	q.items = remaining
	return taken
}

func (q *msgQueue) len() int { return len(q.items) }
