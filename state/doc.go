// Package state models each agent's current capability as a guarded finite
// state machine.
//
// A role's entire behavior is declared as data in a MachineConfig: the valid
// state set, a (from, to, trigger) transition table with optional guards and
// side-effects, per-state capability sets and a message-type gating map. A
// small engine (Machine) interprets the table; rejected transitions return
// false and change nothing.
//
// Blocking is orthogonal to the table: AddBlocker is the only way into
// BLOCKED, and the machine leaves it only when RemoveBlocker empties the
// blocker set, returning to the remembered pre-block state.
package state
