package domain

import (
	"errors"
	"fmt"
)

var ErrAuthRequired = errors.New("authentication required")
var ErrValidation = errors.New("validation failed")
var ErrStoreUnavailable = errors.New("store unavailable")
var ErrConcurrentUpdate = errors.New("concurrent update in progress")
var ErrProfileNotFound = errors.New("profile not found")
var ErrReportNotFound = errors.New("report not found")

// ValidationError carries a user-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError with a formatted message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a store failure so callers can match ErrStoreUnavailable
// while the original cause stays reachable through errors.Unwrap.
func Unavailable(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, cause)
}
