package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Appointment struct {
	bun.BaseModel `bun:"table:appointments,alias:a"`

	ID         uuid.UUID         `bun:"id,pk,type:uuid"`
	ClientID   string            `bun:"client_id,notnull"`
	ProviderID string            `bun:"provider_id,notnull"`
	StartTime  time.Time         `bun:"start_time,notnull"`
	EndTime    time.Time         `bun:"end_time,notnull"`
	Status     AppointmentStatus `bun:"status,notnull"`
	Notes      string            `bun:"notes"`

	// Recorded service times, set once when work begins and ends. They never
	// participate in conflict checks.
	ActualStart *time.Time `bun:"actual_start"`
	ActualEnd   *time.Time `bun:"actual_end"`

	CancellationReason *string    `bun:"cancellation_reason"`
	CancelledAt        *time.Time `bun:"cancelled_at"`

	LineItems []LineItem `bun:"rel:has-many,join:id=appointment_id"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Interval is the booked slot, not the recorded actual times.
func (a *Appointment) Interval() TimeInterval {
	return TimeInterval{Start: a.StartTime, End: a.EndTime}
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// LineItem is a service booked on an appointment with its price frozen at
// booking time. Later catalog price changes never alter it.
type LineItem struct {
	bun.BaseModel `bun:"table:appointment_line_items,alias:li"`

	ID              int64     `bun:"id,pk,autoincrement"`
	AppointmentID   uuid.UUID `bun:"appointment_id,notnull,type:uuid"`
	ServiceID       uuid.UUID `bun:"service_id,notnull,type:uuid"`
	ServiceName     string    `bun:"service_name,notnull"`
	Price           float64   `bun:"price,notnull"`
	DurationMinutes int       `bun:"duration_minutes,notnull"`
	Position        int       `bun:"sort_order,notnull"`
}
