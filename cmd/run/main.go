package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/fiber-runtime/errors"
	"github.com/wippyai/fiber-runtime/fiber"
	"github.com/wippyai/fiber-runtime/sched"
	"github.com/wippyai/fiber-runtime/stack"
)

type demo struct {
	name string
	desc string
	run  func(n, stackSize int) error
}

var demos = []demo{
	{"generator", "fibonacci generator fiber, resumed n times", runGenerator},
	{"pipeline", "three fibers chained: produce, square, accumulate", runPipeline},
	{"tasks", "n cooperative tasks round-robin on the scheduler", runTasks},
}

func main() {
	var (
		demoName    = flag.String("demo", "", "Demo to run (see -list)")
		n           = flag.Int("n", 10, "Iteration count for the demo")
		stackSize   = flag.Int("stack", 64*1024, "Stack size per fiber in bytes")
		verbose     = flag.Bool("v", false, "Verbose logging")
		list        = flag.Bool("list", false, "List demos and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		fiber.SetLogger(log.Named("fiber"))
		sched.SetLogger(log.Named("sched"))
	}

	if *list {
		fmt.Println("Demos:")
		for _, d := range demos {
			fmt.Printf("  %-10s %s\n", d.name, d.desc)
		}
		return
	}

	if *interactive {
		if err := runInteractive(*n, *stackSize); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *demoName == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -demo <name> [-n count] [-stack bytes] [-v]")
		fmt.Fprintln(os.Stderr, "       run -list")
		fmt.Fprintln(os.Stderr, "       run -i  (interactive mode)")
		os.Exit(1)
	}

	for _, d := range demos {
		if d.name == *demoName {
			if err := d.run(*n, *stackSize); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintf(os.Stderr, "Error: %v (see -list)\n", errors.NotFound(errors.PhaseRun, "demo", *demoName))
	os.Exit(1)
}

func runGenerator(n, stackSize int) error {
	stk, err := stack.New(stackSize)
	if err != nil {
		return err
	}

	fib, err := fiber.New(stk, func(c *fiber.Control[int, int]) (int, error) {
		a, b := 0, 1
		for {
			if err := c.Yield(a); err != nil {
				return a, nil
			}
			a, b = b, a+b
		}
	})
	if err != nil {
		return err
	}

	var out []string
	for i := 0; i < n; i++ {
		st, err := fib.Resume()
		if err != nil {
			return err
		}
		v, _ := st.Yielded()
		out = append(out, fmt.Sprint(v))
	}
	fib.Cancel()

	fmt.Printf("fib(0..%d): %s\n", n-1, strings.Join(out, " "))
	return nil
}

func runPipeline(n, stackSize int) error {
	newStack := func() (*stack.Stack, error) { return stack.New(stackSize) }

	s1, err := newStack()
	if err != nil {
		return err
	}
	produce, err := fiber.New(s1, func(c *fiber.Control[int, int]) (int, error) {
		for i := 1; i <= n; i++ {
			if err := c.Yield(i); err != nil {
				return 0, err
			}
		}
		return n, nil
	})
	if err != nil {
		return err
	}

	s2, err := newStack()
	if err != nil {
		return err
	}
	square, err := fiber.New(s2, func(c *fiber.Control[int, int]) (int, error) {
		for {
			st, err := produce.Resume()
			if err != nil {
				return 0, err
			}
			v, ok := st.Yielded()
			if !ok {
				return 0, nil
			}
			if err := c.Yield(v * v); err != nil {
				return 0, err
			}
		}
	})
	if err != nil {
		return err
	}

	sum := 0
	for {
		st, err := square.Resume()
		if err != nil {
			return err
		}
		v, ok := st.Yielded()
		if !ok {
			break
		}
		sum += v
		fmt.Printf("%d ", v)
	}
	fmt.Printf("\nsum of squares 1..%d = %d\n", n, sum)
	return nil
}

func runTasks(n, stackSize int) error {
	s := sched.New(sched.Config{StackSize: stackSize})

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("task-%d", i)
		err := s.Spawn(name, func(y *sched.Yielder) error {
			for round := 0; round < 3; round++ {
				fmt.Printf("%s round %d\n", name, round)
				if err := y.Yield(); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if err := s.Run(context.Background()); err != nil {
		return err
	}
	fmt.Printf("%d tasks finished\n", s.Finished())
	return nil
}
