package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
)

func (r *scheduleRepository) ListWeeklyHours(ctx context.Context, clinicID uuid.UUID) ([]*model.WeeklyHours, error) {
	query := `
		SELECT id, clinic_id, weekday, is_open, time_ranges, created_at, updated_at
		FROM weekly_hours
		WHERE clinic_id = $1
		ORDER BY weekday ASC
	`
	var hours []*model.WeeklyHours
	if err := r.db.SelectContext(ctx, &hours, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list weekly hours: %w", err)
	}
	return hours, nil
}

// ReplaceWeeklyHours swaps a clinic's full weekly schedule in one
// transaction: delete everything, insert the new rows. No history is kept.
func (r *scheduleRepository) ReplaceWeeklyHours(ctx context.Context, clinicID uuid.UUID, hours []*model.WeeklyHours) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_hours WHERE clinic_id = $1`, clinicID); err != nil {
		return fmt.Errorf("failed to delete weekly hours: %w", err)
	}

	insert := `
		INSERT INTO weekly_hours (
			id, clinic_id, weekday, is_open, time_ranges, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	now := time.Now()
	for _, wh := range hours {
		wh.ID = uuid.New()
		wh.ClinicID = clinicID
		wh.CreatedAt = now
		wh.UpdatedAt = now

		if _, err := tx.ExecContext(ctx, insert,
			wh.ID,
			wh.ClinicID,
			wh.Weekday,
			wh.IsOpen,
			wh.TimeRanges,
			wh.CreatedAt,
			wh.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert weekly hours for weekday %d: %w", wh.Weekday, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit weekly hours: %w", err)
	}
	return nil
}

// ListExceptions returns exception rows dated from or later. Callers pass
// the start of today: past exceptions are never queried or edited.
func (r *scheduleRepository) ListExceptions(ctx context.Context, clinicID uuid.UUID, from time.Time) ([]*model.ScheduleException, error) {
	query := `
		SELECT id, clinic_id, date, is_closed, reason, time_ranges, created_at, updated_at
		FROM schedule_exceptions
		WHERE clinic_id = $1
		AND date >= $2
		ORDER BY date ASC
	`
	var exceptions []*model.ScheduleException
	if err := r.db.SelectContext(ctx, &exceptions, query, clinicID, from); err != nil {
		return nil, fmt.Errorf("failed to list schedule exceptions: %w", err)
	}
	return exceptions, nil
}

// UpsertExceptions writes one row per calendar day, relying on the unique
// constraint on (clinic_id, date).
func (r *scheduleRepository) UpsertExceptions(ctx context.Context, exceptions []*model.ScheduleException) error {
	query := `
		INSERT INTO schedule_exceptions (
			id, clinic_id, date, is_closed, reason, time_ranges, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (clinic_id, date) DO UPDATE SET
			is_closed = EXCLUDED.is_closed,
			reason = EXCLUDED.reason,
			time_ranges = EXCLUDED.time_ranges,
			updated_at = EXCLUDED.updated_at
	`
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, ex := range exceptions {
		ex.ID = uuid.New()
		ex.CreatedAt = now
		ex.UpdatedAt = now

		if _, err := tx.ExecContext(ctx, query,
			ex.ID,
			ex.ClinicID,
			ex.Date,
			ex.IsClosed,
			ex.Reason,
			ex.TimeRanges,
			ex.CreatedAt,
			ex.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert exception for %s: %w", ex.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit exceptions: %w", err)
	}
	return nil
}

func (r *scheduleRepository) DeleteException(ctx context.Context, clinicID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM schedule_exceptions WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule exception: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
