package sched

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	fiberruntime "github.com/wippyai/fiber-runtime"
	"github.com/wippyai/fiber-runtime/errors"
	"github.com/wippyai/fiber-runtime/fiber"
	"github.com/wippyai/fiber-runtime/stack"
)

// DefaultStackSize is the per-task stack size when Config leaves it zero.
const DefaultStackSize = 64 * 1024

// Task is a unit of cooperative work. It must call y.Yield between
// chunks of work and return y.Yield's error unchanged when it is non-nil.
type Task func(y *Yielder) error

// Yielder is the task's handle for giving up the processor.
type Yielder struct {
	c *fiber.Control[struct{}, struct{}]
}

// Yield suspends the task until the scheduler comes back around. It
// returns a cancellation error when the scheduler is shutting down, in
// which case the task should unwind.
func (y *Yielder) Yield() error {
	return y.c.Yield(struct{}{})
}

// StepStatus reports what a single scheduling step did.
type StepStatus int

const (
	// StepContinue means a task ran and more work remains.
	StepContinue StepStatus = iota
	// StepDone means the run queue is empty.
	StepDone
)

// StepResult describes one scheduling step.
type StepResult struct {
	// Name is the task that ran, empty when Status is StepDone.
	Name string
	// Status tells the caller whether to keep stepping.
	Status StepStatus
	// Finished reports whether the stepped task completed.
	Finished bool
	// Err is the stepped task's terminal error, if it finished with one.
	Err error
}

// Config holds scheduler construction parameters.
type Config struct {
	// StackSize is the stack size for each task, DefaultStackSize if zero.
	StackSize int
	// Allocator provides task stacks, stack.Heap if nil.
	Allocator fiberruntime.Allocator
	// Logger overrides the package logger for this scheduler.
	Logger *zap.Logger
}

type job struct {
	name   string
	fib    *fiber.Fiber[struct{}, struct{}]
	region fiberruntime.Region
}

// Scheduler multiplexes tasks over one goroutine in round-robin order.
// It is not safe for concurrent use.
type Scheduler struct {
	stackSize int
	alloc     fiberruntime.Allocator
	log       *zap.Logger

	queue []*job
	errs  error

	spawned  int
	finished int
}

// New creates a scheduler with the given configuration.
func New(cfg Config) *Scheduler {
	if cfg.StackSize == 0 {
		cfg.StackSize = DefaultStackSize
	}
	if cfg.Allocator == nil {
		cfg.Allocator = stack.Heap{}
	}
	if cfg.Logger == nil {
		cfg.Logger = Logger()
	}
	return &Scheduler{
		stackSize: cfg.StackSize,
		alloc:     cfg.Allocator,
		log:       cfg.Logger,
	}
}

// Spawn adds a task to the back of the run queue. The task does not run
// until a Step reaches it.
func (s *Scheduler) Spawn(name string, t Task) error {
	if t == nil {
		return errors.InvalidInput(errors.PhaseSched, "nil task")
	}
	if name == "" {
		return errors.InvalidInput(errors.PhaseSched, "empty task name")
	}

	region, err := s.alloc.Alloc(s.stackSize)
	if err != nil {
		return errors.Wrap(errors.PhaseSched, errors.KindInvalidInput, err, "allocating task stack")
	}

	fib, err := fiber.New(region, func(c *fiber.Control[struct{}, struct{}]) (struct{}, error) {
		return struct{}{}, t(&Yielder{c: c})
	})
	if err != nil {
		s.alloc.Free(region)
		return err
	}

	s.queue = append(s.queue, &job{name: name, fib: fib, region: region})
	s.spawned++
	s.log.Debug("task spawned",
		zap.String("task", name),
		zap.Int("queued", len(s.queue)))
	return nil
}

// Step runs the task at the head of the queue until its next yield or
// its return. A task that yields goes to the back of the queue; a task
// that finishes has its stack freed and its error, if any, recorded.
func (s *Scheduler) Step() StepResult {
	if len(s.queue) == 0 {
		return StepResult{Status: StepDone}
	}

	j := s.queue[0]
	s.queue = s.queue[1:]

	st, err := j.fib.Resume()
	if err == nil && !st.IsComplete() {
		s.queue = append(s.queue, j)
		return StepResult{Name: j.name, Status: StepContinue}
	}

	// Task finished, cleanly or not.
	s.retire(j)
	res := StepResult{Name: j.name, Status: StepContinue, Finished: true}
	if len(s.queue) == 0 {
		res.Status = StepDone
	}
	if err != nil {
		res.Err = errors.TaskFailed(j.name, err)
		s.errs = multierr.Append(s.errs, res.Err)
		s.log.Warn("task failed",
			zap.String("task", j.name),
			zap.Error(err))
	} else {
		s.log.Debug("task finished",
			zap.String("task", j.name),
			zap.Int("remaining", len(s.queue)))
	}
	return res
}

// Run steps the scheduler until the queue drains or ctx is canceled.
// On cancellation the remaining tasks are unwound before Run returns.
// The returned error aggregates every task failure, plus the context
// error when the run was cut short.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			s.Shutdown()
			return multierr.Append(s.errs, err)
		}
		if res := s.Step(); res.Status == StepDone {
			return s.errs
		}
	}
}

// Shutdown cancels every queued task, letting each unwind, and frees
// their stacks. The scheduler stays usable for new Spawns afterward.
func (s *Scheduler) Shutdown() {
	for _, j := range s.queue {
		j.fib.Cancel()
		s.retire(j)
		s.log.Debug("task canceled", zap.String("task", j.name))
	}
	s.queue = nil
}

// retire frees a finished job's stack.
func (s *Scheduler) retire(j *job) {
	s.alloc.Free(j.region)
	s.finished++
}

// Pending returns the number of tasks still in the run queue.
func (s *Scheduler) Pending() int { return len(s.queue) }

// Spawned returns the number of tasks ever added to this scheduler.
func (s *Scheduler) Spawned() int { return s.spawned }

// Finished returns the number of tasks that have left the queue, whether
// they completed, failed, or were canceled.
func (s *Scheduler) Finished() int { return s.finished }

// Err returns the task failures recorded so far, aggregated.
func (s *Scheduler) Err() error { return s.errs }
