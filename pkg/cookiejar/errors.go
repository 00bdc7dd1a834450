package cookiejar

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage matches every *StorageError.
	ErrStorage = errors.New("cookie storage failure")

	ErrEmptyDomain   = errors.New("empty cookie domain")
	ErrInvalidCookie = errors.New("invalid cookie")
)

// StorageError reports a failed read or write against a cookie backend.
type StorageError struct {
	Op     string // "read" or "write"
	Domain string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cookiejar: %s %s: %v", e.Op, e.Domain, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func readError(domain string, err error) error {
	return &StorageError{Op: "read", Domain: domain, Err: err}
}

func writeError(domain string, err error) error {
	return &StorageError{Op: "write", Domain: domain, Err: err}
}
