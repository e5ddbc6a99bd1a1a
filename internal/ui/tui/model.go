package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxOutputLines bounds the command output tail kept in the model.
const maxOutputLines = 8

// maxDetails bounds the detail lines kept in the model.
const maxDetails = 5

// StepInfo names a pipeline step for display.
type StepInfo struct {
	Key         string
	Description string
}

// Step is a pipeline step as displayed.
type Step struct {
	Key         string
	Description string
	State       StepState
	Message     string
}

// Model is the Bubble Tea model for the run view.
type Model struct {
	Title string
	Steps []Step

	// Details holds the latest info and warning lines.
	Details []DetailMsg
	// Output holds the tail of external command output.
	Output []string

	Hint string

	StartTime    time.Time
	SpinnerFrame int

	// UI state
	Width    int
	Height   int
	Err      error
	Done     bool
	Quitting bool
}

// NewRunModel creates a model listing steps in execution order.
func NewRunModel(title string, steps []StepInfo) Model {
	m := Model{
		Title:     title,
		StartTime: time.Now(),
	}
	for _, s := range steps {
		m.Steps = append(m.Steps, Step{Key: s.Key, Description: s.Description})
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case StepMsg:
		m.updateStep(msg)

	case DetailMsg:
		m.Details = appendBounded(m.Details, msg, maxDetails)

	case OutputMsg:
		m.Output = appendBounded(m.Output, msg.Line, maxOutputLines)

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updateStep(msg StepMsg) {
	idx := -1
	for i, step := range m.Steps {
		if step.Key == msg.Key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	m.Steps[idx].State = msg.State
	if msg.Message != "" {
		m.Steps[idx].Message = msg.Message
	}
	if msg.State == StepActive {
		m.Output = nil
	}
	if msg.Hint != "" {
		m.Hint = msg.Hint
	}
}

// Finished counts steps that are done or skipped.
func (m Model) Finished() int {
	n := 0
	for _, s := range m.Steps {
		if s.State == StepDone || s.State == StepSkipped {
			n++
		}
	}
	return n
}

func appendBounded[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if len(s) > limit {
		s = s[len(s)-limit:]
	}
	return s
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
