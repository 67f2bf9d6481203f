package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"chairtime/backend/internal/domain"
	"chairtime/backend/internal/store"
)

type Service struct {
	repo    store.AppointmentRepository
	catalog store.ServiceCatalog
}

func NewService(repo store.AppointmentRepository, catalog store.ServiceCatalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

type CreateInput struct {
	ClientID   string
	ProviderID string
	StartTime  time.Time
	EndTime    time.Time
	ServiceIDs []uuid.UUID
	Notes      string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return domain.Appointment{}, validationError("client_id is required")
	}
	providerID := strings.TrimSpace(in.ProviderID)
	if providerID == "" {
		return domain.Appointment{}, validationError("provider_id is required")
	}

	interval := domain.TimeInterval{Start: in.StartTime, End: in.EndTime}.UTC()
	if !interval.IsValid() {
		return domain.Appointment{}, ErrInvalidInterval
	}
	if len(in.ServiceIDs) == 0 {
		return domain.Appointment{}, validationError("at least one service is required")
	}

	items, err := snapshotLineItems(ctx, s.catalog, in.ServiceIDs)
	if err != nil {
		return domain.Appointment{}, err
	}

	appt := domain.Appointment{
		ClientID:   clientID,
		ProviderID: providerID,
		StartTime:  interval.Start,
		EndTime:    interval.End,
		Status:     domain.StatusScheduled,
		Notes:      in.Notes,
		LineItems:  items,
	}

	var out domain.Appointment
	err = s.repo.InProviderTransaction(ctx, providerID, func(ctx context.Context, tx store.ScheduleTx) error {
		commitments, err := tx.ListActiveCommitments(ctx, providerID)
		if err != nil {
			return err
		}
		if blocking := findConflict(interval, commitments, uuid.Nil); blocking != nil {
			return &ConflictError{AppointmentID: blocking.ID, Interval: blocking.Interval()}
		}

		created, err := tx.CreateAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

type RescheduleInput struct {
	AppointmentID uuid.UUID
	StartTime     time.Time
	EndTime       time.Time

	// NewProviderID reassigns the appointment when non-empty; otherwise the
	// current provider keeps it.
	NewProviderID string
}

// Reschedule moves, resizes or reassigns an appointment. On success it
// returns the authoritative post-reschedule appointment so an optimistic
// caller can reconcile its tentative placement; on any error the caller must
// revert to the last known-good interval.
func (s *Service) Reschedule(ctx context.Context, in RescheduleInput) (domain.Appointment, error) {
	if in.AppointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}

	interval := domain.TimeInterval{Start: in.StartTime, End: in.EndTime}.UTC()
	if !interval.IsValid() {
		return domain.Appointment{}, ErrInvalidInterval
	}

	current, err := s.repo.Get(ctx, in.AppointmentID)
	if err != nil {
		return domain.Appointment{}, err
	}
	if !current.Status.IsEditable() {
		return domain.Appointment{}, &NotEditableError{Status: current.Status}
	}

	providerID := current.ProviderID
	if p := strings.TrimSpace(in.NewProviderID); p != "" {
		providerID = p
	}

	var out domain.Appointment
	err = s.repo.InProviderTransaction(ctx, providerID, func(ctx context.Context, tx store.ScheduleTx) error {
		appt, err := tx.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			return err
		}
		// The status may have moved between the unlocked read and taking the
		// provider lock.
		if !appt.Status.IsEditable() {
			return &NotEditableError{Status: appt.Status}
		}

		commitments, err := tx.ListActiveCommitments(ctx, providerID)
		if err != nil {
			return err
		}
		if blocking := findConflict(interval, commitments, appt.ID); blocking != nil {
			return &ConflictError{AppointmentID: blocking.ID, Interval: blocking.Interval()}
		}

		updated, err := tx.UpdateSchedule(ctx, appt.ID, providerID, interval)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

type TransitionInput struct {
	AppointmentID uuid.UUID
	Target        domain.AppointmentStatus

	// Reason must be supplied (it may be empty) when Target is cancelled.
	Reason *string
}

func (s *Service) Transition(ctx context.Context, in TransitionInput) (domain.Appointment, error) {
	if in.AppointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	if _, ok := domain.ParseAppointmentStatus(string(in.Target)); !ok {
		return domain.Appointment{}, validationError("unknown status")
	}
	if in.Target == domain.StatusCancelled && in.Reason == nil {
		return domain.Appointment{}, validationError("cancellation_reason is required")
	}

	current, err := s.repo.Get(ctx, in.AppointmentID)
	if err != nil {
		return domain.Appointment{}, err
	}

	var out domain.Appointment
	err = s.repo.InProviderTransaction(ctx, current.ProviderID, func(ctx context.Context, tx store.ScheduleTx) error {
		appt, err := tx.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(appt.Status, in.Target) {
			return &InvalidTransitionError{From: appt.Status, To: in.Target}
		}

		now := time.Now().UTC()
		upd := store.StatusUpdate{Status: in.Target}
		switch in.Target {
		case domain.StatusInProgress:
			if appt.ActualStart == nil {
				upd.ActualStart = &now
			}
		case domain.StatusCompleted:
			if appt.ActualEnd == nil {
				upd.ActualEnd = &now
			}
		case domain.StatusCancelled:
			upd.CancellationReason = in.Reason
			upd.CancelledAt = &now
		}

		updated, err := tx.UpdateStatus(ctx, appt.ID, upd)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	return s.repo.Get(ctx, id)
}
