package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/fiber-runtime/sched"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateConfigure modelState = iota
	stateStepping
	stateDone
)

// interactiveModel drives a scheduler one Step per keypress so the
// round-robin handoffs can be watched.
type interactiveModel struct {
	stackSize int
	input     textinput.Model
	state     modelState

	s        *sched.Scheduler
	tasks    int
	rounds   map[string]int
	finished map[string]bool
	history  []string
	err      error
}

func newInteractiveModel(n, stackSize int) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(n)
	ti.Prompt = "tasks: "
	ti.Width = 10
	ti.Focus()
	return &interactiveModel{
		stackSize: stackSize,
		input:     ti,
		state:     stateConfigure,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) spawnTasks(n int) error {
	m.s = sched.New(sched.Config{StackSize: m.stackSize})
	m.tasks = n
	m.rounds = make(map[string]int)
	m.finished = make(map[string]bool)
	m.history = nil

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("task-%d", i)
		err := m.s.Spawn(name, func(y *sched.Yielder) error {
			for r := 0; r < 3; r++ {
				m.rounds[name] = r + 1
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
	return nil
}

func (m *interactiveModel) step() {
	res := m.s.Step()
	switch {
	case res.Err != nil:
		m.history = append(m.history, errorStyle.Render(res.Name+" failed: "+res.Err.Error()))
	case res.Finished:
		m.finished[res.Name] = true
		m.history = append(m.history, doneStyle.Render(res.Name+" finished"))
	case res.Name != "":
		m.history = append(m.history, res.Name+" yielded")
	}
	if len(m.history) > 10 {
		m.history = m.history[len(m.history)-10:]
	}
	if res.Status == sched.StepDone {
		m.state = stateDone
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.s != nil {
				m.s.Shutdown()
			}
			return m, tea.Quit

		case "enter":
			switch m.state {
			case stateConfigure:
				n, err := strconv.Atoi(m.input.Value())
				if err != nil || n < 1 {
					n, _ = strconv.Atoi(m.input.Placeholder)
				}
				if err := m.spawnTasks(n); err != nil {
					m.err = err
					return m, nil
				}
				m.state = stateStepping
				return m, nil

			case stateDone:
				m.state = stateConfigure
				m.err = nil
				m.input.SetValue("")
				m.input.Focus()
				return m, textinput.Blink
			}

		case " ", "s":
			if m.state == stateStepping {
				m.step()
				return m, nil
			}

		case "a":
			if m.state == stateStepping {
				for m.state == stateStepping {
					m.step()
				}
				return m, nil
			}
		}
	}

	if m.state == stateConfigure {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Fiber Scheduler"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	switch m.state {
	case stateConfigure:
		b.WriteString("How many tasks?\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter start • q quit"))

	case stateStepping, stateDone:
		b.WriteString(fmt.Sprintf("%d tasks, %d pending, %d finished\n\n",
			m.tasks, m.s.Pending(), m.s.Finished()))

		for i := 0; i < m.tasks; i++ {
			name := fmt.Sprintf("task-%d", i)
			line := fmt.Sprintf("  %s round %d/3", name, m.rounds[name])
			if m.finished[name] {
				b.WriteString(doneStyle.Render(line))
			} else {
				b.WriteString(taskStyle.Render(line))
			}
			b.WriteString("\n")
		}

		b.WriteString("\n")
		for _, h := range m.history {
			b.WriteString("  " + h + "\n")
		}
		b.WriteString("\n")

		if m.state == stateDone {
			if err := m.s.Err(); err != nil {
				b.WriteString(errorStyle.Render("Finished with errors: " + err.Error()))
			} else {
				b.WriteString(doneStyle.Render("All tasks finished."))
			}
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("enter restart • q quit"))
		} else {
			b.WriteString(helpStyle.Render("space step • a run all • q quit"))
		}
	}

	return b.String()
}

func runInteractive(n, stackSize int) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	p := tea.NewProgram(newInteractiveModel(n, stackSize), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
