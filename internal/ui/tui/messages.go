// Package tui provides a Bubble Tea-based terminal UI for a provisioning run.
package tui

// StepState is the display state of a pipeline step.
type StepState int

const (
	StepPending StepState = iota
	StepActive
	StepDone
	StepSkipped
	StepFailed
)

// StepMsg reports progress of a pipeline step.
type StepMsg struct {
	Key     string
	State   StepState
	Message string
	Hint    string
}

// DetailMsg carries an informational line or warning of the current step.
type DetailMsg struct {
	Text    string
	Warning bool
}

// OutputMsg carries one line printed by an external command.
type OutputMsg struct{ Line string }

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
