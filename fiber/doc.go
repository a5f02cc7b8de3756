// Package fiber provides stackful generators on top of machine contexts.
//
// A Fiber runs a body function on its own stack region and trades control
// with its resumer: the body yields values out through a Control, the
// resumer drives it with Resume, and the final return value is delivered
// as the completion state. Unlike a callback-based iterator, the body
// keeps its full call stack across suspensions, so it can yield from
// arbitrarily deep call chains.
//
// A fiber is created suspended: New returns before the body has executed
// any code. The body starts on the first Resume. Cancellation is
// cooperative: Cancel resumes the body one final time with its pending
// (and any future) Yield failing with ErrCanceled, giving the body a
// chance to unwind before the fiber's stack is abandoned.
//
// Fibers are not thread-safe; a fiber and its resumer form one chain of
// control that must stay on one goroutine's watch at a time.
package fiber
