package session

import "errors"

var (
	ErrSessionActive       = errors.New("a session is already active")
	ErrNotStreaming        = errors.New("no session is streaming")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrSummaryInFlight     = errors.New("a summary is already being generated")
)

type FailureKind string

const (
	FailurePermissionDenied FailureKind = "permission_denied"
	FailureConnection       FailureKind = "connection"
)

// Failure is the terminal error of a session attempt. Message is meant for
// the user.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return f.Message + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}
