package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
)

func (r *petRepository) Create(ctx context.Context, pet *model.Pet) error {
	query := `
		INSERT INTO pets (
			id, owner_id, name, species, breed, sex, birth_date, weight_kg, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	pet.ID = uuid.New()
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		pet.ID,
		pet.OwnerID,
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.Sex,
		pet.BirthDate,
		pet.WeightKg,
		pet.Notes,
		pet.CreatedAt,
		pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

func (r *petRepository) Get(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	query := `
		SELECT id, owner_id, name, species, breed, sex, birth_date, weight_kg, notes,
			   created_at, updated_at
		FROM pets
		WHERE id = $1 AND deleted_at IS NULL
	`
	var pet model.Pet
	if err := r.db.GetContext(ctx, &pet, query, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &pet, nil
}

func (r *petRepository) Update(ctx context.Context, pet *model.Pet) error {
	query := `
		UPDATE pets
		SET name = $1, species = $2, breed = $3, sex = $4, birth_date = $5,
			weight_kg = $6, notes = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`
	pet.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.Sex,
		pet.BirthDate,
		pet.WeightKg,
		pet.Notes,
		pet.UpdatedAt,
		pet.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update pet: %w", err)
	}
	return requireRowsAffected(result)
}

func (r *petRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE pets SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	return requireRowsAffected(result)
}

func (r *petRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error) {
	query := `
		SELECT id, owner_id, name, species, breed, sex, birth_date, weight_kg, notes,
			   created_at, updated_at
		FROM pets
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`
	var pets []*model.Pet
	if err := r.db.SelectContext(ctx, &pets, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	return pets, nil
}
