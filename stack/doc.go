// Package stack manages the memory regions contexts execute on.
//
// A region is plain caller-owned memory: the runtime only repositions
// execution into it and never frees it. This package provides an allocating
// constructor for convenience, an adopting constructor for memory the caller
// already owns, and a canary word at the lowest address of every region so
// overflows can be detected after the fact. Detection is best-effort and
// after the fact only; nothing in the switching path checks the canary.
//
// All supported architectures grow their stacks downward, so the usable top
// of a region is its highest Alignment-aligned address and the canary sits
// at the base, where a runaway stack lands last.
package stack
