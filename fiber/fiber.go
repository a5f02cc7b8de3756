package fiber

import (
	"unsafe"

	"go.uber.org/zap"

	fiberruntime "github.com/wippyai/fiber-runtime"
	"github.com/wippyai/fiber-runtime/errors"
	"github.com/wippyai/fiber-runtime/mctx"
)

// ErrCanceled is returned from Control.Yield once the fiber has been
// canceled. The body should unwind and return when it sees it.
var ErrCanceled = errors.Canceled(errors.PhaseFiber, "")

// Func is a fiber body. It yields intermediate values of type Y through
// the Control and finishes with a result of type R or an error.
type Func[Y, R any] func(*Control[Y, R]) (R, error)

// State is what one Resume observed: either a yielded value or the
// fiber's final result.
type State[Y, R any] struct {
	yielded  Y
	result   R
	complete bool
}

// Yielded returns the yielded value if the fiber suspended at a yield.
func (s State[Y, R]) Yielded() (Y, bool) {
	return s.yielded, !s.complete
}

// Complete returns the final result if the fiber's body returned.
func (s State[Y, R]) Complete() (R, bool) {
	return s.result, s.complete
}

// IsComplete reports whether the fiber's body has returned.
func (s State[Y, R]) IsComplete() bool { return s.complete }

// Fiber is a suspended computation with its own stack. Values move in
// lockstep: each Resume delivers exactly one State, produced by the
// body's next Yield or its return.
//
// A Fiber must not be shared between goroutines.
type Fiber[Y, R any] struct {
	parent mctx.Slot
	child  mctx.Slot

	region fiberruntime.Region
	fn     Func[Y, R]

	state    State[Y, R]
	err      error
	canceled bool
	done     bool
	errSeen  bool
}

// Control is the body's side of the fiber: the body receives one in its
// Func and yields through it. A Control is only valid inside its body.
type Control[Y, R any] struct {
	f *Fiber[Y, R]
}

// New creates a fiber that will run fn on the given stack region. The
// fiber is born suspended: fn has not executed when New returns, and
// starts on the first Resume.
//
// The region must stay untouched by the caller until the fiber has
// completed or been canceled.
func New[Y, R any](region fiberruntime.Region, fn Func[Y, R]) (*Fiber[Y, R], error) {
	if fn == nil {
		return nil, errors.InvalidInput(errors.PhaseFiber, "nil fiber function")
	}
	if region == nil {
		return nil, errors.InvalidInput(errors.PhaseFiber, "nil stack region")
	}
	if region.Size() < fiberruntime.MinStackSize {
		return nil, errors.StackTooSmall(region.Size(), fiberruntime.MinStackSize)
	}

	f := &Fiber[Y, R]{region: region, fn: fn}
	mctx.Init(&f.parent, region, mctx.Handle(unsafe.Pointer(f)), fiberMain[Y, R])

	Logger().Debug("fiber created",
		zap.Int("stack_size", region.Size()))
	return f, nil
}

// fiberMain is the entry of every fiber context. It parks before touching
// the body so New returns with the body not yet started, then runs the
// body to completion and abandons the context into the parent's slot.
func fiberMain[Y, R any](h mctx.Handle) {
	f := (*Fiber[Y, R])(h)
	mctx.Swap(&f.child, &f.parent)

	r, err := f.fn(&Control[Y, R]{f: f})
	if err != nil {
		f.err = err
	} else {
		f.state = State[Y, R]{result: r, complete: true}
	}
	f.done = true
	mctx.Jump(&f.parent)
}

// Resume transfers control to the fiber until its next suspension point.
// It returns the yielded value or, on the body's return, the completion
// state. If the body returned an error, Resume reports it once; every
// call after the fiber has finished fails with a completed error.
func (f *Fiber[Y, R]) Resume() (State[Y, R], error) {
	var zero State[Y, R]
	if f.done {
		if f.err != nil && !f.errSeen {
			f.errSeen = true
			return zero, f.err
		}
		return zero, errors.Completed("resume")
	}

	mctx.Swap(&f.parent, &f.child)

	if f.done && f.err != nil {
		f.errSeen = true
		return zero, f.err
	}
	return f.state, nil
}

// Cancel unwinds a suspended fiber: it resumes the body one final time
// with Yield failing and returns once the body has unwound. Canceling a
// completed fiber is a no-op. Idempotent.
//
// The body's error (ErrCanceled, typically) is discarded.
func (f *Fiber[Y, R]) Cancel() {
	if f.done {
		return
	}
	f.canceled = true
	Logger().Debug("fiber canceled")
	mctx.Swap(&f.parent, &f.child)
}

// Err returns the body's terminal error, if any, once the fiber has
// finished.
func (f *Fiber[Y, R]) Err() error {
	if !f.done {
		return nil
	}
	return f.err
}

// Done reports whether the body has returned.
func (f *Fiber[Y, R]) Done() bool { return f.done }

// Stack returns the region the fiber was created on.
func (f *Fiber[Y, R]) Stack() fiberruntime.Region { return f.region }

// Yield suspends the body and hands v to the resumer. It returns once
// the fiber is resumed again, or ErrCanceled if the fiber has been
// canceled, in which case the body should unwind.
func (c *Control[Y, R]) Yield(v Y) error {
	f := c.f
	if f.canceled {
		return ErrCanceled
	}
	f.state = State[Y, R]{yielded: v}
	mctx.Swap(&f.child, &f.parent)
	if f.canceled {
		return ErrCanceled
	}
	return nil
}
