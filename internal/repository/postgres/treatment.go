package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
)

func (r *treatmentRepository) Create(ctx context.Context, record *model.TreatmentRecord) error {
	query := `
		INSERT INTO treatment_records (
			id, booking_id, pet_id, clinic_id, vet_name, diagnosis,
			treatment, prescriptions, completed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.BookingID,
		record.PetID,
		record.ClinicID,
		record.VetName,
		record.Diagnosis,
		record.Treatment,
		record.Prescriptions,
		record.CompletedAt,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create treatment record: %w", err)
	}
	return nil
}

func (r *treatmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.TreatmentRecord, error) {
	query := `
		SELECT id, booking_id, pet_id, clinic_id, vet_name, diagnosis,
			   treatment, prescriptions, completed_at, created_at, updated_at
		FROM treatment_records
		WHERE id = $1
	`
	var record model.TreatmentRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &record, nil
}

func (r *treatmentRepository) ListByPet(ctx context.Context, petID uuid.UUID) ([]*model.TreatmentRecord, error) {
	query := `
		SELECT id, booking_id, pet_id, clinic_id, vet_name, diagnosis,
			   treatment, prescriptions, completed_at, created_at, updated_at
		FROM treatment_records
		WHERE pet_id = $1
		ORDER BY completed_at DESC
	`
	var records []*model.TreatmentRecord
	if err := r.db.SelectContext(ctx, &records, query, petID); err != nil {
		return nil, fmt.Errorf("failed to list treatment records: %w", err)
	}
	return records, nil
}
