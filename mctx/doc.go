// Package mctx provides machine execution contexts: the primitive that
// suspends one logical thread of execution and resumes another without
// involving the operating system scheduler.
//
// # Overview
//
// A context is a captured snapshot of one execution's state, held in an
// opaque fixed-size Slot. Three operations move control between contexts:
//
//   - Init: capture the caller into a slot, then start an entry function
//     running as a new context on a caller-supplied stack region. Init
//     returns only when something resumes the captured slot.
//   - Swap: capture the caller into a `from` slot and resume the context
//     recorded in an `into` slot. The steady-state yield/resume primitive;
//     caller and target trade places.
//   - Jump: resume an `into` slot and discard the caller's state. Never
//     returns. The mechanism by which a finished context abandons itself.
//
// State machine per context:
//
//	uninitialized --[Init]--> running --[Swap/Init capture]--> suspended
//	suspended --[Swap/Jump resume]--> running
//	running --[Jump as final act, or never resumed]--> abandoned
//
// There is no transition out of abandoned.
//
// # Slots
//
// A Slot is either empty or holds exactly one resumable snapshot. Each
// resume consumes the snapshot: control rewinds to the capture point, and
// the slot must be captured again before it can be resumed again. Resuming
// an empty slot is a caller bug; this implementation tags slots with a
// validity word and panics instead of corrupting memory.
//
// # Contract
//
// No operation returns an error. Every precondition (stack large enough,
// slot validity, disjoint regions) is the caller's invariant; this package
// checks the cheap ones and panics on violation. Entry functions must never
// return: a context that is done must Jump into some still-valid slot.
//
// Contexts are not thread-safe. If multiple OS threads are in play, each
// must own a disjoint set of contexts; switching one context from two
// threads concurrently is undefined behavior.
//
// # Backends
//
// Two mechanisms implement the same API, selected at build time:
//
//   - The default backend multiplexes contexts onto runtime-managed fibers
//     with strict handoff, so the Go runtime retains full knowledge of
//     every stack. A context that is abandoned by never being resumed
//     holds its fiber until process exit.
//   - The mctx.rawstack build tag selects the raw backend (amd64, arm64):
//     register-level capture/restore and a true stack pivot onto the
//     caller-supplied region, implemented in assembly. See backend_raw.go
//     for its additional constraints.
package mctx
