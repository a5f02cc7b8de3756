//go:build mctx.rawstack

package mctx_test

import (
	"os"
	"runtime/debug"
	"testing"
)

// The raw backend pivots onto stacks the collector cannot walk. Keep the
// garbage collector out of the way for the whole run.
func TestMain(m *testing.M) {
	debug.SetGCPercent(-1)
	os.Exit(m.Run())
}
