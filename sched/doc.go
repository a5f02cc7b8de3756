// Package sched runs a set of fibers cooperatively in round-robin order.
//
// Tasks are plain functions that call Yield at their own pace; the
// scheduler owns their stacks, hops between them one Step at a time, and
// collects every task's terminal error. There is no preemption and no
// parallelism: exactly one task runs at any moment, and a task that
// never yields starves the rest.
//
// Step gives callers a single scheduling decision at a time, which is
// what interactive drivers want; Run loops Step to completion with
// context cancellation checked between hops.
package sched
