package fiberruntime

import "unsafe"

// Stack sizing shared across packages. MinStackSize is the smallest region
// a context may be initialized on; StackAlignment is the required alignment
// of the initial stack pointer on every supported architecture.
const (
	MinStackSize   = 4096
	StackAlignment = 16
)

// Region is a caller-owned contiguous block of memory used as the execution
// stack for one context. The runtime never allocates or frees a Region; it
// only repositions execution into it. A Region must remain live and unmoved
// for as long as a context initialized on it might still be resumed.
type Region interface {
	// Base returns the lowest address of the region.
	Base() unsafe.Pointer
	// Size returns the region length in bytes.
	Size() int
}

// Allocator provides stack regions for components that create contexts on
// behalf of a caller, such as the scheduler.
type Allocator interface {
	Alloc(size int) (Region, error)
	Free(r Region)
}
