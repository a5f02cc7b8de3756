package mctx

import (
	"unsafe"

	fiberruntime "github.com/wippyai/fiber-runtime"
)

// Handle is an opaque value passed through unmodified from Init to the
// entry function. The package attaches no semantics to it.
type Handle = unsafe.Pointer

// Entry is a context entry function. It runs on the new context's stack
// and must never return: a context that is done must abandon itself with
// Jump into some still-valid slot. Falling off the end panics.
type Entry func(Handle)

// Slot states. A slot is empty until a capture and consumed by a resume.
const (
	slotEmpty uint32 = iota
	slotValid
)

// slotWords sizes the register save area. The required size is ABI
// dependent; this is generous for every supported architecture.
const slotWords = 30

// Slot is an opaque, fixed-size buffer holding at most one saved execution
// state. The zero value is an empty slot. Slots must not be copied while
// valid; the saved state refers to the slot's own address.
type Slot struct {
	state uint32
	_     uint32
	ctl   unsafe.Pointer   // control block, default backend
	regs  [slotWords]uintptr // register save area, raw backend
}

// Valid reports whether the slot holds a resumable snapshot. Diagnostic
// only: the answer is stale the moment another context runs.
func (s *Slot) Valid() bool {
	return s.state == slotValid
}

// Init captures the caller's execution state into dst, then pivots onto
// the supplied stack region and calls fn(h) as a new context.
//
// Init does not return until some context resumes dst; at that point
// control continues right after the Init call with the caller's local
// state intact, as if the call had returned normally.
//
// The region must stay live and unmoved for as long as the new context
// might still run, and must be large enough for the entry function's call
// depth; overflow is not detected.
func Init(dst *Slot, region fiberruntime.Region, h Handle, fn Entry) {
	if dst == nil {
		panic("mctx: nil destination slot")
	}
	if dst.state != slotEmpty {
		panic("mctx: destination slot already holds a context")
	}
	if fn == nil {
		panic("mctx: nil entry function")
	}
	if region == nil || region.Size() < fiberruntime.MinStackSize {
		panic("mctx: stack region below minimum size")
	}
	initBackend(dst, region, h, fn)
}

// Swap captures the caller's execution state into from, then resumes the
// context recorded in into, consuming its snapshot.
//
// Swap does not return until some context swaps (or jumps) back into from.
// The relationship is symmetric: caller and target trade places.
func Swap(from, into *Slot) {
	if from == nil || into == nil {
		panic("mctx: nil slot")
	}
	if from == into {
		panic("mctx: swap between a slot and itself")
	}
	if into.state != slotValid {
		panic("mctx: resuming an empty slot")
	}
	if from.state != slotEmpty {
		panic("mctx: from slot already holds a context")
	}
	swapBackend(from, into)
}

// Jump resumes the context recorded in into, consuming its snapshot. The
// caller's state is not saved anywhere: Jump never returns, and the
// calling context is permanently abandoned.
func Jump(into *Slot) {
	if into == nil {
		panic("mctx: nil slot")
	}
	if into.state != slotValid {
		panic("mctx: resuming an empty slot")
	}
	jumpBackend(into)
	panic("mctx: jump returned")
}
