package provisioning

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/provisionr/internal/ui/status"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	events   []Event
	messages []string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{}
}

func (m *MockObserver) Printf(format string, v ...any) {
	m.messages = append(m.messages, fmt.Sprintf(format, v...))
}

func (m *MockObserver) Event(event Event) {
	m.events = append(m.events, event)
}

func (m *MockObserver) types() []EventType {
	out := make([]EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

func TestConsoleObserver_Levels(t *testing.T) {
	t.Parallel()
	var out, errOut bytes.Buffer
	o := NewConsoleObserver(status.New(&out, &errOut, false))

	o.Printf("hello %s", "world")
	LogPhaseStart(o, "platform", "(1/7) detecting platform")
	LogPhaseSkipped(o, "package-manager", "pixi already installed")
	LogPhaseComplete(o, "platform", 1500*time.Microsecond)
	LogWarning(o, "aux-tool", "quarto not found")

	assert.Contains(t, out.String(), "[INFO] hello world\n")
	assert.Contains(t, out.String(), "[INFO] (1/7) detecting platform\n")
	assert.Contains(t, out.String(), "[OK] package-manager: pixi already installed\n")
	assert.Contains(t, out.String(), "[OK] platform completed in 2ms\n")
	assert.Equal(t, "[WARN] quarto not found\n", errOut.String())
}

func TestConsoleObserver_FailurePrintsHintLast(t *testing.T) {
	t.Parallel()
	var out, errOut bytes.Buffer
	o := NewConsoleObserver(status.New(&out, &errOut, false))

	LogPhaseFailed(o, "manifest", &Error{
		Kind: KindMissingManifest,
		Step: "manifest",
		Hint: "run provisionr from the repository root",
	})

	lines := bytes.Split(bytes.TrimSpace(errOut.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "[FAIL] manifest failed: manifest: MissingManifest")
	assert.Equal(t, "[FAIL] run provisionr from the repository root", string(lines[1]))
}

func TestLogPhaseFailed_NoHint(t *testing.T) {
	t.Parallel()
	observer := NewMockObserver()

	LogPhaseFailed(observer, "tasks", errors.New("boom"))

	require.Len(t, observer.events, 1)
	assert.Equal(t, EventPhaseFailed, observer.events[0].Type)
	assert.Equal(t, "tasks", observer.events[0].Phase)
	assert.Equal(t, "tasks failed: boom", observer.events[0].Message)
	assert.Empty(t, observer.events[0].Fields["hint"])
	assert.False(t, observer.events[0].Timestamp.IsZero())
}

func TestLogInfo(t *testing.T) {
	t.Parallel()
	observer := NewMockObserver()

	LogInfo(observer, "verify", "%d/%d packages installed", 3, 5)

	require.Len(t, observer.events, 1)
	assert.Equal(t, EventInfo, observer.events[0].Type)
	assert.Equal(t, "3/5 packages installed", observer.events[0].Message)
}
