// Package protocol tracks multi-message conversations between agents and
// enforces their sequencing and authorization contracts.
//
// A Protocol is declared, not subclassed: each kind supplies its expected
// message-type set, a SequenceValidator over (history, incoming) and a
// human-readable next-actions describer, and the engine interprets the
// declaration. The Validator resolves each outbound message to its owning
// conversation (correlation id first, then any open conversation that can
// accept the type, then a fresh instance from the Registry), merges message
// self-validation with sequencing verdicts, and purges completed
// conversations on request.
//
// Lifecycle: INITIATED moves to IN_PROGRESS on the first accepted message
// and to AWAITING_RESPONSE when a later accepted message requires a response.
// Terminal states (completed, failed, cancelled) are set by the owning
// application, never inferred. Response deadlines and protocol timeouts are
// carried as data only; expiring unanswered conversations is an explicit
// extension point for the application.
package protocol
