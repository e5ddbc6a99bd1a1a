package provisioning

import (
	"errors"
	"fmt"

	"github.com/imamik/provisionr/internal/platform/shell"
	"github.com/imamik/provisionr/internal/util/searchpath"
)

// Kind classifies a provisioning failure.
type Kind string

const (
	KindUnsupportedPlatform    Kind = "UnsupportedPlatform"
	KindMissingManifest        Kind = "MissingManifest"
	KindToolInstallFailed      Kind = "ToolInstallFailed"
	KindExternalTaskFailed     Kind = "ExternalTaskFailed"
	KindVerificationIncomplete Kind = "VerificationIncomplete"
)

// exitCommandNotFound mirrors the shell's status for a missing command.
const exitCommandNotFound = 127

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrUnsupportedPlatform    = &Error{Kind: KindUnsupportedPlatform}
	ErrMissingManifest        = &Error{Kind: KindMissingManifest}
	ErrToolInstallFailed      = &Error{Kind: KindToolInstallFailed}
	ErrExternalTaskFailed     = &Error{Kind: KindExternalTaskFailed}
	ErrVerificationIncomplete = &Error{Kind: KindVerificationIncomplete}
)

// Error is a fatal provisioning failure.
type Error struct {
	Kind Kind
	// Step names the step that failed.
	Step string
	// Code is the exit status of a failed external task.
	Code int
	// Hint tells the operator how to recover, when there is a known fix.
	Hint string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Step != "" {
		msg = fmt.Sprintf("%s: %s", e.Step, msg)
	}
	if e.Kind == KindExternalTaskFailed && e.Code != 0 {
		msg = fmt.Sprintf("%s (exit %d)", msg, e.Code)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Step == "" && t.Err == nil && t.Kind == e.Kind
}

// ExitCode returns the process exit status for this failure.
func (e *Error) ExitCode() int {
	if e.Kind == KindExternalTaskFailed && e.Code > 0 {
		return e.Code
	}
	return 1
}

// ExitCode maps err to a process exit status: 0 for nil, the failed task's
// status for external task failures, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr.ExitCode()
	}
	return 1
}

// HintFor returns the recovery hint carried by err, if any.
func HintFor(err error) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Hint
	}
	return ""
}

// ExternalTaskError classifies a failed external command run by step.
// A missing executable reports 127, like a shell would.
func ExternalTaskError(step string, err error) *Error {
	code := shell.ExitCode(err)
	switch {
	case code > 0:
	case errors.Is(err, searchpath.ErrNotFound):
		code = exitCommandNotFound
	default:
		code = 1
	}
	return &Error{Kind: KindExternalTaskFailed, Step: step, Code: code, Err: err}
}

// SkipError marks a phase whose postcondition already holds.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip returns a *SkipError with reason.
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// IsSkip reports whether err marks a skipped phase.
func IsSkip(err error) (*SkipError, bool) {
	var skip *SkipError
	if errors.As(err, &skip) {
		return skip, true
	}
	return nil, false
}
