package provisioning

import (
	"fmt"
	"time"

	"github.com/imamik/provisionr/internal/ui/status"
)

// Observer receives progress of a provisioning run.
type Observer interface {
	// Printf emits a free-form informational line.
	Printf(format string, v ...any)

	// Event emits a structured event.
	Event(event Event)
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "platform", "chained-tasks")
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseSkipped indicates a phase's postcondition already held.
	EventPhaseSkipped EventType = "phase.skipped"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventInfo carries an informational detail within a phase.
	EventInfo EventType = "info"
	// EventWarning carries a non-fatal problem.
	EventWarning EventType = "warning"
)

// ConsoleObserver prints events as [INFO]/[OK]/[WARN]/[FAIL] lines.
type ConsoleObserver struct {
	printer *status.Printer
}

// NewConsoleObserver creates a console observer writing through printer.
func NewConsoleObserver(printer *status.Printer) *ConsoleObserver {
	return &ConsoleObserver{printer: printer}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...any) {
	o.printer.Info(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	switch event.Type {
	case EventPhaseStarted, EventInfo:
		o.printer.Info("%s", event.Message)
	case EventPhaseCompleted, EventPhaseSkipped:
		o.printer.OK("%s", event.Message)
	case EventWarning:
		o.printer.Warn("%s", event.Message)
	case EventPhaseFailed:
		o.printer.Fail("%s", event.Message)
		if hint := event.Fields["hint"]; hint != "" {
			o.printer.Fail("%s", hint)
		}
	default:
		o.printer.Info("%s", event.Message)
	}
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase, description string) {
	observer.Event(Event{
		Type:      EventPhaseStarted,
		Phase:     phase,
		Message:   description,
		Timestamp: time.Now(),
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:      EventPhaseCompleted,
		Phase:     phase,
		Message:   fmt.Sprintf("%s completed in %v", phase, duration.Round(time.Millisecond)),
		Timestamp: time.Now(),
	})
}

// LogPhaseSkipped logs a skipped phase.
func LogPhaseSkipped(observer Observer, phase, reason string) {
	observer.Event(Event{
		Type:      EventPhaseSkipped,
		Phase:     phase,
		Message:   fmt.Sprintf("%s: %s", phase, reason),
		Timestamp: time.Now(),
	})
}

// LogPhaseFailed logs a phase failure event. The recovery hint of err, if
// any, is attached so it can be printed last.
func LogPhaseFailed(observer Observer, phase string, err error) {
	fields := map[string]string{}
	if hint := HintFor(err); hint != "" {
		fields["hint"] = hint
	}
	observer.Event(Event{
		Type:      EventPhaseFailed,
		Phase:     phase,
		Message:   fmt.Sprintf("%s failed: %v", phase, err),
		Timestamp: time.Now(),
		Fields:    fields,
	})
}

// LogInfo logs an informational detail for a phase.
func LogInfo(observer Observer, phase, format string, v ...any) {
	observer.Event(Event{
		Type:      EventInfo,
		Phase:     phase,
		Message:   fmt.Sprintf(format, v...),
		Timestamp: time.Now(),
	})
}

// LogWarning logs a non-fatal problem for a phase.
func LogWarning(observer Observer, phase, format string, v ...any) {
	observer.Event(Event{
		Type:      EventWarning,
		Phase:     phase,
		Message:   fmt.Sprintf(format, v...),
		Timestamp: time.Now(),
	})
}
