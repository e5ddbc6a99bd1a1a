package handlers

import "errors"

// ReportedError wraps a failure whose cause has already been printed.
// The caller should exit with its code without printing it again.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// IsReported reports whether err was already printed for the user.
func IsReported(err error) bool {
	var re *ReportedError
	return errors.As(err, &re)
}
