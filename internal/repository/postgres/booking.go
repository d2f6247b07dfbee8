package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
)

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, clinic_id, owner_id, pet_id, service_id,
			appointment_date, start_time, end_time, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.ClinicID,
		booking.OwnerID,
		booking.PetID,
		booking.ServiceID,
		booking.AppointmentDate,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		// The unique index on (clinic_id, appointment_date, start_time)
		// rejects the second writer of a raced slot.
		if isUniqueViolation(err) {
			return repository.ErrSlotTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, clinic_id, owner_id, pet_id, service_id,
			   appointment_date, start_time, end_time, status, notes,
			   cancel_reason, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, cancel_reason = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		booking.Status,
		booking.CancelReason,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
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

// bookingFilterClauses renders the optional WHERE conditions for List.
// DateFrom is inclusive and DateTo exclusive, so a one-day window is
// [day, day+1) and never picks up the next midnight.
func bookingFilterClauses(filters *model.BookingFilters) (string, []interface{}) {
	var clauses string
	args := []interface{}{}
	argCount := 1

	if filters.ClinicID != uuid.Nil {
		clauses += fmt.Sprintf(" AND clinic_id = $%d", argCount)
		args = append(args, filters.ClinicID)
		argCount++
	}
	if filters.OwnerID != uuid.Nil {
		clauses += fmt.Sprintf(" AND owner_id = $%d", argCount)
		args = append(args, filters.OwnerID)
		argCount++
	}
	if filters.PetID != uuid.Nil {
		clauses += fmt.Sprintf(" AND pet_id = $%d", argCount)
		args = append(args, filters.PetID)
		argCount++
	}
	if filters.Status != "" {
		clauses += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.DateFrom.IsZero() {
		clauses += fmt.Sprintf(" AND appointment_date >= $%d", argCount)
		args = append(args, filters.DateFrom)
		argCount++
	}
	if !filters.DateTo.IsZero() {
		clauses += fmt.Sprintf(" AND appointment_date < $%d", argCount)
		args = append(args, filters.DateTo)
		argCount++
	}
	return clauses, args
}

func (r *bookingRepository) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	query := `
		SELECT id, clinic_id, owner_id, pet_id, service_id,
			   appointment_date, start_time, end_time, status, notes,
			   cancel_reason, created_at, updated_at
		FROM bookings
		WHERE 1=1
	`
	clauses, args := bookingFilterClauses(filters)
	query += clauses
	query += " ORDER BY appointment_date ASC, start_time ASC"

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListActiveForClinicRange returns the bookings the availability resolver
// treats as occupying slots, for a clinic over the half-open window [from, to).
func (r *bookingRepository) ListActiveForClinicRange(ctx context.Context, clinicID uuid.UUID, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT id, clinic_id, owner_id, pet_id, service_id,
			   appointment_date, start_time, end_time, status, notes,
			   cancel_reason, created_at, updated_at
		FROM bookings
		WHERE clinic_id = $1
		AND appointment_date >= $2
		AND appointment_date < $3
		AND status IN ('pending', 'confirmed', 'checked_in')
		ORDER BY appointment_date ASC, start_time ASC
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, clinicID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list active bookings: %w", err)
	}
	return bookings, nil
}

// ListActiveForDateRange is the reminder worker's query: every active
// booking of any clinic in the half-open window [from, to).
func (r *bookingRepository) ListActiveForDateRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT id, clinic_id, owner_id, pet_id, service_id,
			   appointment_date, start_time, end_time, status, notes,
			   cancel_reason, created_at, updated_at
		FROM bookings
		WHERE appointment_date >= $1
		AND appointment_date < $2
		AND status IN ('pending', 'confirmed', 'checked_in')
		ORDER BY appointment_date ASC, start_time ASC
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list active bookings: %w", err)
	}
	return bookings, nil
}
