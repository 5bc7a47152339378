// Package message defines the typed messages agents exchange and the
// validation vocabulary shared across the module.
//
// Every variant embeds Envelope (id, sender, priority, correlation metadata)
// and fixes its Type tag in its constructor. Validate is a pure function of
// the message's own fields: blocking errors are reserved for structurally
// impossible states (missing ids, negative durations, out-of-range ratios)
// while business-quality concerns surface as warnings that never fail a send.
package message
