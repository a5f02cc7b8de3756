// Package testbed holds cross-package integration tests that exercise
// the primitive, the fiber layer, and the scheduler together.
package testbed

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/wippyai/fiber-runtime/fiber"
	"github.com/wippyai/fiber-runtime/sched"
	"github.com/wippyai/fiber-runtime/stack"
)

func newStack(t testing.TB) *stack.Stack {
	t.Helper()
	s, err := stack.New(64 * 1024)
	if err != nil {
		t.Fatalf("stack.New: %v", err)
	}
	return s
}

// A fiber pipeline: a producer feeds a transformer feeds the test, each
// stage suspended mid-loop between values.
func TestFiberPipeline(t *testing.T) {
	produce, err := fiber.New(newStack(t), func(c *fiber.Control[int, int]) (int, error) {
		for i := 1; i <= 10; i++ {
			if err := c.Yield(i); err != nil {
				return 0, err
			}
		}
		return 0, nil
	})
	if err != nil {
		t.Fatalf("New produce: %v", err)
	}

	double, err := fiber.New(newStack(t), func(c *fiber.Control[int, int]) (int, error) {
		for {
			st, err := produce.Resume()
			if err != nil {
				return 0, err
			}
			v, ok := st.Yielded()
			if !ok {
				return 0, nil
			}
			if err := c.Yield(v * 2); err != nil {
				return 0, err
			}
		}
	})
	if err != nil {
		t.Fatalf("New double: %v", err)
	}

	sum := 0
	for {
		st, err := double.Resume()
		if err != nil {
			t.Fatalf("Resume: %v", err)
		}
		v, ok := st.Yielded()
		if !ok {
			break
		}
		sum += v
	}
	if sum != 110 {
		t.Errorf("sum = %d, want 110", sum)
	}
}

// Canceling the downstream stage must unwind the upstream one too when
// the downstream body cancels it on the way out.
func TestPipelineCancelPropagates(t *testing.T) {
	upUnwound := false
	produce, err := fiber.New(newStack(t), func(c *fiber.Control[int, int]) (int, error) {
		defer func() { upUnwound = true }()
		for i := 0; ; i++ {
			if err := c.Yield(i); err != nil {
				return 0, err
			}
		}
	})
	if err != nil {
		t.Fatalf("New produce: %v", err)
	}

	double, err := fiber.New(newStack(t), func(c *fiber.Control[int, int]) (int, error) {
		defer produce.Cancel()
		for {
			st, err := produce.Resume()
			if err != nil {
				return 0, err
			}
			v, _ := st.Yielded()
			if err := c.Yield(v * 2); err != nil {
				return 0, err
			}
		}
	})
	if err != nil {
		t.Fatalf("New double: %v", err)
	}

	if _, err := double.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	double.Cancel()

	if !upUnwound {
		t.Error("upstream fiber did not unwind")
	}
	if !produce.Done() || !double.Done() {
		t.Error("both stages should be done after cancellation")
	}
}

// Scheduled tasks driving generator fibers: each task owns a fiber and
// pulls one value per scheduling round.
func TestScheduledGenerators(t *testing.T) {
	s := sched.New(sched.Config{})
	results := make(map[string]int)

	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("consumer-%d", i)
		limit := (i + 1) * 3
		err := s.Spawn(name, func(y *sched.Yielder) error {
			gen, err := fiber.New(newStack(t), func(c *fiber.Control[int, int]) (int, error) {
				for n := 1; ; n++ {
					if err := c.Yield(n); err != nil {
						return 0, err
					}
				}
			})
			if err != nil {
				return err
			}
			defer gen.Cancel()

			sum := 0
			for n := 0; n < limit; n++ {
				st, err := gen.Resume()
				if err != nil {
					return err
				}
				v, _ := st.Yielded()
				sum += v
				if err := y.Yield(); err != nil {
					return err
				}
			}
			results[name] = sum
			return nil
		})
		if err != nil {
			t.Fatalf("Spawn %s: %v", name, err)
		}
	}

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("consumer-%d", i)
		limit := (i + 1) * 3
		want := limit * (limit + 1) / 2
		if results[name] != want {
			t.Errorf("%s = %d, want %d", name, results[name], want)
		}
	}
}

// Cutting a run short must unwind every queued task, including the
// fibers those tasks hold.
func TestCancelMidRunUnwindsEverything(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := sched.New(sched.Config{})

	unwound := 0
	for i := 0; i < 4; i++ {
		first := i == 0
		err := s.Spawn(fmt.Sprintf("task-%d", i), func(y *sched.Yielder) error {
			defer func() { unwound++ }()
			for round := 0; ; round++ {
				if first && round == 2 {
					cancel()
				}
				if err := y.Yield(); err != nil {
					return err
				}
			}
		})
		if err != nil {
			t.Fatalf("Spawn: %v", err)
		}
	}

	err := s.Run(ctx)
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if unwound != 4 {
		t.Errorf("unwound %d tasks, want 4", unwound)
	}
}
