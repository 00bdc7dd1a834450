package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches every *NetworkError.
	ErrNetwork = errors.New("network failure")

	ErrInvalidBaseURL      = errors.New("base URL must be an absolute http(s) URL")
	ErrInvalidTimeout      = errors.New("request timeout must not be negative")
	ErrInvalidPollInterval = errors.New("poll interval must be positive")
	ErrInvalidPollAttempts = errors.New("max poll attempts must be positive")
)

// NetworkError reports a transport or timeout failure reaching the remote authority.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
