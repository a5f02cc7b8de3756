//go:build mctx.rawstack && (amd64 || arm64)

package mctx

import (
	"unsafe"

	fiberruntime "github.com/wippyai/fiber-runtime"
)

// Raw backend: register-level capture/restore and a true stack pivot onto
// the caller-supplied region, implemented in switch_*.s. A slot's register
// area holds the stack pointer, the resume PC, the callee-saved register
// set, and the goroutine stack bounds; the bounds travel with the context
// so function prologue stack checks stay coherent while pivoted.
//
// Constraints, in exchange for zero scheduler involvement:
//
//   - The Go runtime cannot walk a pivoted stack. The embedder must keep
//     the garbage collector from scanning stacks while any context is
//     pivoted (e.g. debug.SetGCPercent(-1) around switched execution).
//   - The caller must keep fn, h, and anything they reference reachable
//     for the lifetime of the context; the pivoted stack is invisible to
//     the collector.
//   - Stack overflow on the region is not detected and corrupts memory.

//go:noescape
func rawSwap(from, into *uintptr)

//go:noescape
func rawJump(into *uintptr)

// rawInit captures the caller into from, pivots the stack pointer to sp,
// repoints the goroutine stack bounds at [lo, sp], and calls
// rawEntry(h, fn) on the new stack.
func rawInit(from *uintptr, sp, lo uintptr, h Handle, fn unsafe.Pointer)

// rawEntry runs the entry function on the pivoted stack. Called from
// assembly. The trampoline traps if it ever returns.
func rawEntry(h Handle, fn Entry) {
	fn(h)
	panic("mctx: entry function returned")
}

func initBackend(dst *Slot, region fiberruntime.Region, h Handle, fn Entry) {
	base := uintptr(region.Base())
	top := (base + uintptr(region.Size())) &^ uintptr(fiberruntime.StackAlignment-1)
	if top == base+uintptr(region.Size()) {
		top -= fiberruntime.StackAlignment
	}
	dst.state = slotValid
	rawInit(&dst.regs[0], top, base, h, *(*unsafe.Pointer)(unsafe.Pointer(&fn)))
	// Control arrives back here only when dst is resumed.
}

func swapBackend(from, into *Slot) {
	from.state = slotValid
	into.state = slotEmpty
	rawSwap(&from.regs[0], &into.regs[0])
}

func jumpBackend(into *Slot) {
	into.state = slotEmpty
	rawJump(&into.regs[0])
}
