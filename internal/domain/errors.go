package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for event operations. Controllers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound            = errors.New("event not found")
	ErrParticipantNotFound = errors.New("participant not found in this event")
	ErrAlreadyConfirmed    = errors.New("attendance already confirmed")

	// ErrValidation covers missing required fields and malformed values in caller input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateParticipant is returned when two participants of one event share the same correo.
	ErrDuplicateParticipant = fmt.Errorf("%w: duplicate participant correo", ErrValidation)

	ErrInconsistentCapacityEdit = errors.New("lugaresDisponibles cannot be greater than or equal to capacidadMaxima")
	ErrRosterExceedsCapacity    = errors.New("participant count exceeds capacidadMaxima")
	ErrCapacityExceeded         = errors.New("capacidadMaxima exceeded by confirmed participants")

	ErrReminderWindowNotOpen = errors.New("reminders can only be sent less than 5 days before the event")
	ErrInvalidEventDate      = errors.New("invalid event date")
)

// StoreError wraps a failure of the backing document store (connectivity, driver, encoding).
// It is a server fault, distinct from validation and business-rule errors.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err as a StoreError for the given operation. A nil err returns nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsCapacityViolation reports whether err is one of the capacity reconciliation rule violations.
func IsCapacityViolation(err error) bool {
	return errors.Is(err, ErrInconsistentCapacityEdit) ||
		errors.Is(err, ErrRosterExceedsCapacity) ||
		errors.Is(err, ErrCapacityExceeded)
}
