package stack

import (
	"encoding/binary"
	"unsafe"

	fiberruntime "github.com/wippyai/fiber-runtime"
	"github.com/wippyai/fiber-runtime/errors"
)

// Minimum is the smallest acceptable region size. It leaves room for the
// canary, the alignment slack at the top, and a shallow call chain.
const Minimum = fiberruntime.MinStackSize

// Alignment is the required alignment of the initial stack pointer.
const Alignment = fiberruntime.StackAlignment

// canaryMagic is written at the base of every region. A downward-growing
// stack that overflows the region overwrites it last.
const canaryMagic uint64 = 0x670c1333b83bf575

// Stack is a contiguous memory region used as the execution stack for one
// context. The zero value is not usable; construct with New or FromBytes.
type Stack struct {
	buf []byte
}

// New allocates a fresh region of the given size and installs the canary.
func New(size int) (*Stack, error) {
	if size < Minimum {
		return nil, errors.StackTooSmall(size, Minimum)
	}
	s := &Stack{buf: make([]byte, size)}
	s.Reset()
	return s, nil
}

// FromBytes adopts caller-owned memory as a stack region. Ownership stays
// with the caller: the buffer must remain live and unmoved for as long as
// a context initialized on it might still be resumed.
func FromBytes(buf []byte) (*Stack, error) {
	if len(buf) < Minimum {
		return nil, errors.StackTooSmall(len(buf), Minimum)
	}
	s := &Stack{buf: buf}
	if s.topOffset() < Minimum-2*Alignment {
		return nil, errors.Misaligned(Alignment)
	}
	s.Reset()
	return s, nil
}

// Base returns the lowest address of the region.
func (s *Stack) Base() unsafe.Pointer {
	return unsafe.Pointer(&s.buf[0])
}

// Size returns the region length in bytes.
func (s *Stack) Size() int {
	return len(s.buf)
}

// Top returns the highest Alignment-aligned address inside the region.
// This is where a new context's stack pointer starts.
func (s *Stack) Top() unsafe.Pointer {
	return unsafe.Add(s.Base(), s.topOffset())
}

// topOffset computes the byte offset of the aligned top, kept strictly
// inside the buffer.
func (s *Stack) topOffset() int {
	base := uintptr(unsafe.Pointer(&s.buf[0]))
	top := (base + uintptr(len(s.buf))) &^ (Alignment - 1)
	off := int(top - base)
	if off == len(s.buf) {
		off -= Alignment
	}
	return off
}

// Reset reinstalls the canary word at the base of the region.
func (s *Stack) Reset() {
	binary.LittleEndian.PutUint64(s.buf[:8], canaryMagic)
}

// OK reports whether the canary at the base of the region is intact.
// A false result means some context overflowed this region.
func (s *Stack) OK() bool {
	return binary.LittleEndian.Uint64(s.buf[:8]) == canaryMagic
}

var _ fiberruntime.Region = (*Stack)(nil)

// Heap allocates regions from the Go heap. Freed regions are left to the
// garbage collector once the caller drops its references.
type Heap struct{}

// Alloc returns a fresh heap-backed region.
func (Heap) Alloc(size int) (fiberruntime.Region, error) {
	return New(size)
}

// Free is a no-op for heap-backed regions.
func (Heap) Free(fiberruntime.Region) {}

var _ fiberruntime.Allocator = Heap{}
