package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "phase and kind only",
			err:  &Error{Phase: PhaseStack, Kind: KindStackTooSmall},
			want: "[stack] stack_too_small",
		},
		{
			name: "with name",
			err:  &Error{Phase: PhaseFiber, Kind: KindCompleted, Name: "gen"},
			want: "[fiber] completed at gen",
		},
		{
			name: "with detail",
			err:  &Error{Phase: PhaseSched, Kind: KindInvalidInput, Detail: "empty task"},
			want: "[sched] invalid_input: empty task",
		},
		{
			name: "with cause",
			err:  &Error{Phase: PhaseSched, Kind: KindTaskFailed, Name: "t1", Cause: fmt.Errorf("boom")},
			want: "[sched] task_failed at t1 (caused by: boom)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	a := Completed("gen")
	b := Completed("other")
	if !stderrors.Is(a, b) {
		t.Error("errors with same phase/kind should match")
	}

	c := Canceled(PhaseFiber, "gen")
	if stderrors.Is(a, c) {
		t.Error("errors with different kinds should not match")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := TaskFailed("t1", cause)
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be found by errors.Is")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseStack, KindStackTooSmall).
		Name("worker").
		Detail("region is %d bytes, need at least %d", 100, 4096).
		Build()

	if err.Phase != PhaseStack || err.Kind != KindStackTooSmall {
		t.Errorf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if !strings.Contains(err.Error(), "100") {
		t.Errorf("detail not formatted: %s", err.Error())
	}
	if err.Name != "worker" {
		t.Errorf("Name = %q", err.Name)
	}
}

func TestConstructors(t *testing.T) {
	if e := StackTooSmall(100, 4096); e.Kind != KindStackTooSmall {
		t.Errorf("StackTooSmall kind = %s", e.Kind)
	}
	if e := NotFound(PhaseRun, "demo", "pingpong"); !strings.Contains(e.Error(), `"pingpong"`) {
		t.Errorf("NotFound message = %s", e.Error())
	}
	if e := Corrupted("gen"); e.Phase != PhaseStack || e.Kind != KindCorrupted {
		t.Errorf("Corrupted phase/kind = %s/%s", e.Phase, e.Kind)
	}
}
