// Package fiberruntime provides the lowest layer of a cooperative
// multitasking runtime: user-mode execution contexts that can be created
// on caller-supplied stacks, suspended, and resumed without involving the
// operating system scheduler.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	fiberruntime/        Root package with core Region and Allocator interfaces
//	├── mctx/            Machine-context slots and the three transfer
//	│                    operations (initialize-and-enter, symmetric switch,
//	│                    one-way transfer)
//	├── stack/           Stack region allocation, alignment, and canary checks
//	├── fiber/           Stackful generators: yield/resume with values,
//	│                    completion, cancellation
//	├── sched/           Cooperative round-robin scheduler with step-based
//	│                    control for external event loops
//	├── errors/          Structured error types for debugging
//	└── testbed/         Cross-package integration tests
//
// # Quick Start
//
// Run a generator fiber on its own stack:
//
//	stk, err := stack.New(64 * 1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f, err := fiber.New(stk, func(c *fiber.Control[int, string]) (string, error) {
//	    if err := c.Yield(1); err != nil {
//	        return "", err
//	    }
//	    return "done", nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	st, _ := f.Resume() // Yielded(1)
//	st, _ = f.Resume()  // Complete("done")
//	_ = st
//
// # Concurrency Model
//
// Scheduling is single-threaded and cooperative. At any instant exactly one
// context is running per independent chain of control; all others reachable
// from it are suspended. A context keeps the processor until it voluntarily
// switches away. Context slots and stack regions are not thread-safe: if
// multiple OS threads are in play, each must own a disjoint set of contexts.
//
// # Stack Ownership
//
// Stack regions are owned and sized by the caller. The runtime never
// allocates or frees a region it was handed; it only repositions execution
// into it. A region must remain live and unmoved for as long as a context
// initialized on it might still be resumed.
package fiberruntime
