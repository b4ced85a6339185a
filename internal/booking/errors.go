// Package booking holds the reservation core: time-of-day arithmetic, the
// availability checker and the booking manager that creates reservations
// and drives their status transitions.
//
// Every failure returned by this package wraps exactly one of the sentinel
// errors below so that transport layers can map it with errors.Is.
package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced field or reservation does
	// not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the requester may not act on a
	// reservation owned by someone else.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState is returned when the operation is not valid for the
	// current status of the reservation or field.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict is returned when the requested window overlaps an active
	// reservation.
	ErrConflict = errors.New("conflict")
	// ErrValidation marks malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrDataAccess wraps failures of the underlying store.
	ErrDataAccess = errors.New("data access failed")
)

// DataAccess tags err as a storage failure while keeping the driver error
// in the chain.  Errors already carrying one of the package sentinels are
// returned unchanged.
func DataAccess(op string, err error) error {
	if err == nil || Tagged(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrDataAccess, op, err)
}

// Tagged reports whether err wraps one of the package sentinels.
func Tagged(err error) bool {
	for _, s := range []error{ErrNotFound, ErrForbidden, ErrInvalidState, ErrConflict, ErrValidation, ErrDataAccess} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

// Message returns the human readable part of a tagged error, i.e. the text
// after the sentinel prefix.  Untagged errors are returned verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, s := range []error{ErrNotFound, ErrForbidden, ErrInvalidState, ErrConflict, ErrValidation, ErrDataAccess} {
		prefix := s.Error() + ": "
		if errors.Is(err, s) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
