package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"chairtime/backend/internal/domain"
	"chairtime/backend/internal/store"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type scheduleTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Relation("LineItems", orderLineItems).
		Where("a.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r *AppointmentRepo) InProviderTransaction(ctx context.Context, providerID string, fn func(ctx context.Context, tx store.ScheduleTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProviderSchedule(ctx, tx, providerID); err != nil {
			return err
		}
		return fn(ctx, scheduleTx{tx: tx})
	})
}

func lockProviderSchedule(ctx context.Context, tx bun.Tx, providerID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", providerID).Exec(ctx)
	return err
}

func orderLineItems(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("li.sort_order ASC")
}

func (r scheduleTx) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.tx.NewSelect().
		Model(&appt).
		Relation("LineItems", orderLineItems).
		Where("a.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r scheduleTx) ListActiveCommitments(ctx context.Context, providerID string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.tx.NewSelect().
		Model(&rows).
		Where("a.provider_id = ?", providerID).
		Where("a.status NOT IN (?)", bun.In([]domain.AppointmentStatus{domain.StatusCancelled, domain.StatusNoShow})).
		OrderExpr("a.start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r scheduleTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	m.LineItems = nil

	if _, err := r.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, mapScheduleError(err)
	}

	items := make([]domain.LineItem, len(appt.LineItems))
	copy(items, appt.LineItems)
	for i := range items {
		items[i].AppointmentID = m.ID
		items[i].Position = i
	}
	if len(items) > 0 {
		if _, err := r.tx.NewInsert().Model(&items).Exec(ctx); err != nil {
			return domain.Appointment{}, err
		}
	}

	m.LineItems = items
	return m, nil
}

func (r scheduleTx) UpdateSchedule(ctx context.Context, id uuid.UUID, providerID string, interval domain.TimeInterval) (domain.Appointment, error) {
	res, err := r.tx.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("provider_id = ?", providerID).
		Set("start_time = ?", interval.Start).
		Set("end_time = ?", interval.End).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapScheduleError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return r.GetAppointment(ctx, id)
}

func (r scheduleTx) UpdateStatus(ctx context.Context, id uuid.UUID, upd store.StatusUpdate) (domain.Appointment, error) {
	q := r.tx.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("status = ?", upd.Status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id)

	if upd.CancellationReason != nil {
		q = q.Set("cancellation_reason = ?", *upd.CancellationReason)
	}
	if upd.CancelledAt != nil {
		q = q.Set("cancelled_at = ?", *upd.CancelledAt)
	}
	if upd.ActualStart != nil {
		q = q.Set("actual_start = ?", *upd.ActualStart)
	}
	if upd.ActualEnd != nil {
		q = q.Set("actual_end = ?", *upd.ActualEnd)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return r.GetAppointment(ctx, id)
}

func (r scheduleTx) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	res, err := r.tx.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// mapScheduleError translates the appointments_no_overlap exclusion
// violation into store.ErrConflict.
func mapScheduleError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_overlap" {
			return store.ErrConflict
		}
	}
	return err
}
