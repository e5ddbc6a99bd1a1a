package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/provisionr/internal/provisioning"
)

// RunFunc runs the pipeline, reporting to observer and streaming external
// command output to out.
type RunFunc func(ctx context.Context, observer provisioning.Observer, out io.Writer) error

// Run wraps a pipeline run with a Bubble Tea TUI and returns the pipeline's
// error. Quitting the view cancels the run and waits for it to stop.
func Run(ctx context.Context, title string, steps []StepInfo, run RunFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewRunModel(title, steps), tea.WithAltScreen(), tea.WithContext(ctx))

	done := make(chan error, 1)
	go func() {
		out := NewLineWriter(func(line string) { p.Send(OutputMsg{Line: line}) })
		err := run(ctx, NewObserver(p.Send), out)
		out.Flush()
		if err != nil {
			p.Send(ErrMsg{Err: err})
		} else {
			p.Send(DoneMsg{})
		}
		done <- err
	}()

	_, uiErr := p.Run()
	cancel()
	runErr := <-done

	if runErr != nil {
		return runErr
	}
	if uiErr != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", uiErr)
	}
	return nil
}

// Observer forwards provisioning events to a Bubble Tea program.
type Observer struct {
	send func(tea.Msg)
}

// NewObserver creates an Observer delivering messages through send,
// typically (*tea.Program).Send.
func NewObserver(send func(tea.Msg)) *Observer {
	return &Observer{send: send}
}

// Printf implements provisioning.Observer.
func (o *Observer) Printf(format string, v ...any) {
	o.send(DetailMsg{Text: fmt.Sprintf(format, v...)})
}

// Event implements provisioning.Observer.
func (o *Observer) Event(event provisioning.Event) {
	switch event.Type {
	case provisioning.EventPhaseStarted:
		o.send(StepMsg{Key: event.Phase, State: StepActive})
	case provisioning.EventPhaseCompleted:
		o.send(StepMsg{Key: event.Phase, State: StepDone})
	case provisioning.EventPhaseSkipped:
		o.send(StepMsg{Key: event.Phase, State: StepSkipped, Message: event.Message})
	case provisioning.EventPhaseFailed:
		o.send(StepMsg{Key: event.Phase, State: StepFailed, Message: event.Message, Hint: event.Fields["hint"]})
	case provisioning.EventWarning:
		o.send(DetailMsg{Text: event.Message, Warning: true})
	default:
		o.send(DetailMsg{Text: event.Message})
	}
}

// LineWriter splits written bytes into lines and hands each complete line
// to a callback. It is safe for concurrent use.
type LineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	emit func(string)
}

// NewLineWriter creates a LineWriter calling emit per line.
func NewLineWriter(emit func(string)) *LineWriter {
	return &LineWriter{emit: emit}
}

// Write implements io.Writer.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Keep the partial line for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emitLine(line)
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emitLine(w.buf.String())
		w.buf.Reset()
	}
}

func (w *LineWriter) emitLine(line string) {
	line = strings.TrimRight(line, "\r\n")
	// Progress bars redraw with carriage returns; keep the last frame.
	if i := strings.LastIndex(line, "\r"); i >= 0 {
		line = line[i+1:]
	}
	if strings.TrimSpace(line) != "" {
		w.emit(line)
	}
}
