//go:build !mctx.rawstack

package mctx_test

import (
	"testing"

	"github.com/wippyai/fiber-runtime/mctx"
	"github.com/wippyai/fiber-runtime/stack"
)

func TestOverlappingRegionsRejected(t *testing.T) {
	buf := make([]byte, 3*stack.Minimum)
	whole, err := stack.FromBytes(buf)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	inner, err := stack.FromBytes(buf[stack.Minimum:])
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}

	var root, child mctx.Slot
	mctx.Init(&root, whole, nil, func(mctx.Handle) {
		mctx.Swap(&child, &root)
		mctx.Jump(&root)
	})

	// whole's context is still live; a second context on memory inside
	// the same region violates region disjointness.
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for overlapping live regions")
			}
		}()
		var dst mctx.Slot
		mctx.Init(&dst, inner, nil, func(mctx.Handle) {})
	}()

	mctx.Swap(&root, &child) // let the first context exit
}
