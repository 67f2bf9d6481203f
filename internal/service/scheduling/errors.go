package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"chairtime/backend/internal/domain"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ErrInvalidInterval rejects proposals whose start is not before their end.
var ErrInvalidInterval = errors.New("start_time must be before end_time")

// ConflictError reports the earliest-starting active commitment that blocks
// a proposed interval, so callers can tell the user exactly which
// appointment is in the way and revert any optimistically applied placement.
type ConflictError struct {
	AppointmentID uuid.UUID
	Interval      domain.TimeInterval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("interval conflicts with appointment %s (%s to %s)",
		e.AppointmentID,
		e.Interval.Start.Format(time.RFC3339),
		e.Interval.End.Format(time.RFC3339))
}

// NotEditableError rejects reschedules of appointments in a terminal status.
type NotEditableError struct {
	Status domain.AppointmentStatus
}

func (e *NotEditableError) Error() string {
	return fmt.Sprintf("appointment in status %q cannot be rescheduled", e.Status)
}

type InvalidTransitionError struct {
	From domain.AppointmentStatus
	To   domain.AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition appointment from %q to %q", e.From, e.To)
}

type UnknownServiceError struct {
	ServiceID uuid.UUID
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("unknown service %s", e.ServiceID)
}
