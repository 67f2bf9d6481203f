package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chairtime/backend/internal/domain"
)

type AppointmentRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)

	// InProviderTransaction runs fn inside a transaction that holds the
	// provider's schedule lock. Conflict checks and commitment writes for one
	// provider serialize against each other; different providers proceed
	// independently.
	InProviderTransaction(ctx context.Context, providerID string, fn func(ctx context.Context, tx ScheduleTx) error) error
}

// ScheduleTx is the transaction-scoped view of a provider's schedule.
type ScheduleTx interface {
	GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)

	// ListActiveCommitments returns the provider's non-cancelled, non-no-show
	// appointments ordered by start time.
	ListActiveCommitments(ctx context.Context, providerID string) ([]domain.Appointment, error)

	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateSchedule(ctx context.Context, id uuid.UUID, providerID string, interval domain.TimeInterval) (domain.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (domain.Appointment, error)

	// DeleteAppointment is the administrative hard delete. It bypasses the
	// status state machine on purpose and is not reachable from the booking
	// surface.
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
}

// StatusUpdate carries a status change plus the columns it sets. Nil pointer
// fields are left untouched.
type StatusUpdate struct {
	Status             domain.AppointmentStatus
	CancellationReason *string
	CancelledAt        *time.Time
	ActualStart        *time.Time
	ActualEnd          *time.Time
}
