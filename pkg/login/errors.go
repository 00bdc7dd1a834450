package login

import (
	"errors"
	"fmt"
)

// Construction errors
var (
	ErrNilFetcher = errors.New("login: fetcher is required")
	ErrNilJar     = errors.New("login: cookie jar is required")
)

// Protocol errors
var (
	// ErrProtocol matches every *ProtocolError.
	ErrProtocol = errors.New("login: protocol error")
	// ErrRejected matches every *RejectedError.
	ErrRejected     = errors.New("login: rejected by remote authority")
	ErrMissingToken = errors.New("login: challenge token missing from response")
)

// Polling errors
var (
	ErrPollBudgetExceeded = errors.New("login: poll attempt budget exceeded")
	ErrLoginTimeout       = errors.New("login: time budget exceeded")
	ErrInvalidTransition  = errors.New("login: invalid state transition")
)

// ProtocolError reports a response the engine does not understand: an
// unexpected HTTP status, a malformed body or an unknown status value.
type ProtocolError struct {
	Op         string
	StatusCode int
	Status     string
	Err        error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Status != "":
		return fmt.Sprintf("login: %s: unrecognized status %q", e.Op, e.Status)
	case e.StatusCode != 0:
		return fmt.Sprintf("login: %s: unexpected HTTP status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("login: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("login: %s: malformed response", e.Op)
	}
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}

// RejectedError is the error detail of an ERROR reported by the remote
// authority itself (failed, expired or cancelled in the authenticator).
type RejectedError struct {
	Status string
	Hint   string
}

func (e *RejectedError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("login: rejected by remote authority: %s (%s)", e.Status, e.Hint)
	}
	return fmt.Sprintf("login: rejected by remote authority: %s", e.Status)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}
