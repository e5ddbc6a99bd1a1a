package testing

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/provisionr/internal/platform/installer"
	"github.com/imamik/provisionr/internal/platform/shell"
	"github.com/imamik/provisionr/internal/provisioning"
)

// MockInstaller is a mock implementation of provisioning.ScriptInstaller.
type MockInstaller struct {
	mock.Mock
}

// Install records the call and returns the configured error.
func (m *MockInstaller) Install(ctx context.Context, spec installer.Spec) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}

// Response is what FakeRunner answers for a matching command.
type Response struct {
	// Stdout is written to the command's Stdout.
	Stdout string
	// Code, when non-zero, is returned as *shell.ExitError.
	Code int
	// Err is returned as is and takes precedence over Code.
	Err error
	// Do runs before the response is returned.
	Do func(cmd shell.Command)
}

type rule struct {
	prefix string
	resp   Response
}

// FakeRunner is a scripted shell.Runner. Commands are matched on the longest
// registered prefix of their command line, the latest registration winning
// ties; unmatched commands succeed silently.
type FakeRunner struct {
	mu    sync.Mutex
	rules []rule
	calls []shell.Command
}

// NewFakeRunner creates a runner with no rules.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On registers resp for command lines starting with prefix.
func (f *FakeRunner) On(prefix string, resp Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{prefix: prefix, resp: resp})
	return f
}

// Run implements shell.Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd shell.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	resp, _ := f.match(cmd.String())
	f.mu.Unlock()

	if resp.Do != nil {
		resp.Do(cmd)
	}
	if resp.Stdout != "" && cmd.Stdout != nil {
		_, _ = io.WriteString(cmd.Stdout, resp.Stdout)
	}
	if resp.Err != nil {
		return resp.Err
	}
	if resp.Code != 0 {
		return &shell.ExitError{Command: cmd.String(), Code: resp.Code}
	}
	return nil
}

func (f *FakeRunner) match(line string) (Response, bool) {
	best := -1
	for i, r := range f.rules {
		if !strings.HasPrefix(line, r.prefix) {
			continue
		}
		if best < 0 || len(r.prefix) >= len(f.rules[best].prefix) {
			best = i
		}
	}
	if best < 0 {
		return Response{}, false
	}
	return f.rules[best].resp, true
}

// Calls returns the commands run so far.
func (f *FakeRunner) Calls() []shell.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]shell.Command(nil), f.calls...)
}

// CommandLines returns the command lines run so far, in order.
func (f *FakeRunner) CommandLines() []string {
	calls := f.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, c.String())
	}
	return lines
}

// Ran reports whether any command line started with prefix.
func (f *FakeRunner) Ran(prefix string) bool {
	for _, line := range f.CommandLines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// RecordingObserver is a provisioning.Observer keeping every event.
type RecordingObserver struct {
	mu     sync.Mutex
	events []provisioning.Event
	lines  []string
}

// NewRecordingObserver creates an empty observer.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

// Printf implements provisioning.Observer.
func (o *RecordingObserver) Printf(format string, v ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, fmt.Sprintf(format, v...))
}

// Event implements provisioning.Observer.
func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

// Events returns recorded events.
func (o *RecordingObserver) Events() []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]provisioning.Event(nil), o.events...)
}

// Messages returns the message of every event of type t.
func (o *RecordingObserver) Messages(t provisioning.EventType) []string {
	var out []string
	for _, e := range o.Events() {
		if e.Type == t {
			out = append(out, e.Message)
		}
	}
	return out
}

// Last returns the most recent event.
func (o *RecordingObserver) Last() (provisioning.Event, bool) {
	events := o.Events()
	if len(events) == 0 {
		return provisioning.Event{}, false
	}
	return events[len(events)-1], true
}
