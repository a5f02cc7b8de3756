// Package errors provides structured error types for the fiber-runtime library.
//
// Errors are categorized by Phase (which layer reported the error) and Kind
// (error category). The Error type carries a detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseStack, errors.KindStackTooSmall).
//		Name("worker-3").
//		Detail("region is %d bytes, need at least %d", got, min).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.StackTooSmall(got, min)
//	err := errors.Completed("worker-3")
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when their Phase and Kind agree,
// so sentinel values like fiber.ErrCanceled can be compared structurally.
package errors
