package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which layer of the runtime reported the error
type Phase string

const (
	PhaseStack Phase = "stack" // stack region allocation and validation
	PhaseFiber Phase = "fiber" // generator lifecycle
	PhaseSched Phase = "sched" // cooperative scheduler
	PhaseRun   Phase = "run"   // demo driver / CLI
)

// Kind categorizes the error
type Kind string

const (
	KindStackTooSmall Kind = "stack_too_small"
	KindMisaligned    Kind = "misaligned"
	KindCompleted     Kind = "completed"
	KindCanceled      Kind = "canceled"
	KindNotFound      Kind = "not_found"
	KindInvalidInput  Kind = "invalid_input"
	KindTaskFailed    Kind = "task_failed"
	KindCorrupted     Kind = "corrupted"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Name   string // fiber or task name, when one exists
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Name != "" {
		b.WriteString(" at ")
		b.WriteString(e.Name)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// Two *Error values match when their Phase and Kind agree.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Name sets the fiber or task name
func (b *Builder) Name(name string) *Builder {
	b.err.Name = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// StackTooSmall creates an error for a region below the minimum stack size
func StackTooSmall(got, min int) *Error {
	return &Error{
		Phase:  PhaseStack,
		Kind:   KindStackTooSmall,
		Detail: fmt.Sprintf("region is %d bytes, need at least %d", got, min),
	}
}

// Misaligned creates an error for a region that cannot hold an aligned stack top
func Misaligned(align int) *Error {
	return &Error{
		Phase:  PhaseStack,
		Kind:   KindMisaligned,
		Detail: fmt.Sprintf("region cannot hold a %d-byte aligned stack top", align),
	}
}

// Corrupted creates an error for a region whose canary has been overwritten
func Corrupted(name string) *Error {
	return &Error{
		Phase:  PhaseStack,
		Kind:   KindCorrupted,
		Name:   name,
		Detail: "stack canary overwritten",
	}
}

// Completed creates an error for resuming a fiber that already finished
func Completed(name string) *Error {
	return &Error{
		Phase:  PhaseFiber,
		Kind:   KindCompleted,
		Name:   name,
		Detail: "fiber already completed",
	}
}

// Canceled creates a cancellation error
func Canceled(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCanceled,
		Name:   name,
		Detail: "canceled",
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// TaskFailed wraps an error returned by a scheduled task
func TaskFailed(name string, cause error) *Error {
	return &Error{
		Phase: PhaseSched,
		Kind:  KindTaskFailed,
		Name:  name,
		Cause: cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
