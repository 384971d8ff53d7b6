// Package apperr holds the error values shared by the stores, the auth
// services and the HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or token")
	ErrTokenRequired      = errors.New("access token is required for first-time login")
	ErrDuplicateToken     = errors.New("email already has a token")
	ErrAccessDenied       = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrUploadRejected     = errors.New("upload rejected")
	ErrInvalidInput       = errors.New("invalid input")
)

// PersistenceError wraps any database failure. Op names the failed operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err in a PersistenceError unless it is nil or already one.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// Invalid returns an ErrInvalidInput carrying a user-facing reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Rejected returns an ErrUploadRejected carrying a user-facing reason.
func Rejected(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUploadRejected, fmt.Sprintf(format, args...))
}

// Reason returns the user-facing part of an error built by Invalid or Rejected.
func Reason(err error) string {
	for _, sentinel := range []error{ErrInvalidInput, ErrUploadRejected} {
		if errors.Is(err, sentinel) {
			msg := err.Error()
			prefix := sentinel.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
