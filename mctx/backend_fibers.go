//go:build !mctx.rawstack

package mctx

import (
	"runtime"
	"sync"
	"unsafe"

	fiberruntime "github.com/wippyai/fiber-runtime"
)

// Default backend: each context is a runtime-managed fiber parked on its
// own gate channel. A capture creates the gate; a resume consumes the
// snapshot and closes it. Handoff is strict: the releasing side executes
// only its own park instructions after waking the target, so observable
// execution stays one-at-a-time per chain of control.
//
// The caller-supplied stack region is not executed on here (the runtime
// owns fiber stacks), but it stays load-bearing: live regions are tracked
// and overlapping a region that another live context was initialized on
// panics, preserving the disjointness contract. A region stays tracked
// until its context's fiber has fully exited, which can trail the final
// jump out of the context by a few instructions.

// waiter is the control block for one captured context.
type waiter struct {
	gate chan struct{}
}

// regions tracks the stack regions of live contexts, base address to end.
var regions struct {
	mu sync.Mutex
	m  map[uintptr]uintptr
}

func registerRegion(base, end uintptr) {
	regions.mu.Lock()
	defer regions.mu.Unlock()
	if regions.m == nil {
		regions.m = make(map[uintptr]uintptr)
	}
	for b, e := range regions.m {
		if base < e && b < end {
			panic("mctx: stack region overlaps a live context's region")
		}
	}
	regions.m[base] = end
}

func unregisterRegion(base uintptr) {
	regions.mu.Lock()
	delete(regions.m, base)
	regions.mu.Unlock()
}

// capture records the calling context in s. The returned waiter is what
// the caller parks on.
func capture(s *Slot) *waiter {
	w := &waiter{gate: make(chan struct{})}
	s.ctl = unsafe.Pointer(w)
	s.state = slotValid
	return w
}

// release consumes the snapshot in s and wakes the context parked on it.
func release(s *Slot) {
	w := (*waiter)(s.ctl)
	s.ctl = nil
	s.state = slotEmpty
	close(w.gate)
}

func initBackend(dst *Slot, region fiberruntime.Region, h Handle, fn Entry) {
	base := uintptr(region.Base())
	registerRegion(base, base+uintptr(region.Size()))

	w := capture(dst)
	go func() {
		defer unregisterRegion(base)
		fn(h)
		panic("mctx: entry function returned")
	}()
	<-w.gate
}

func swapBackend(from, into *Slot) {
	w := capture(from)
	release(into)
	<-w.gate
}

func jumpBackend(into *Slot) {
	release(into)
	// The calling context is abandoned. Goexit runs deferred calls, so a
	// context fiber unregisters its region on the way out. Jumping from a
	// fiber that Init did not create terminates that goroutine too.
	runtime.Goexit()
}
