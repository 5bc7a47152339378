// Package bus is the delivery backbone: it validates outbound messages
// through the protocol engine, resolves destinations through the router,
// buffers per-role bounded FIFO queues and drains them from one background
// worker.
//
// Delivery per cycle: critical messages from every queue first, then high
// ones (arrival order preserved within each class), then one normal-priority
// message per queue. Priority classes are strictly ordered within a cycle;
// no ordering is guaranteed across destination queues. Handler failures are
// isolated per handler, and unexpected loop faults trigger a logged backoff
// rather than loop death.
//
// Validation outcomes are data, never panics or returned Go errors: Send
// hands back a ValidationResult whose errors mean "recorded as failed, not
// enqueued" and whose warnings are advisory.
package bus
