package pet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/internal/service/audit"
)

// ErrNotOwner is returned when a pet is accessed by someone other than its
// owner.
var ErrNotOwner = errors.New("pet belongs to another owner")

type Service struct {
	repo    repository.PetRepository
	auditor *audit.Service
}

func NewService(repo repository.PetRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
	}
}

func (s *Service) CreatePet(ctx context.Context, ownerID uuid.UUID, req *model.CreatePetRequest) (*model.Pet, error) {
	now := time.Now()
	pet := &model.Pet{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:   ownerID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		Sex:       req.Sex,
		BirthDate: req.BirthDate,
		WeightKg:  req.WeightKg,
		Notes:     req.Notes,
	}

	if err := s.repo.Create(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	s.auditor.Log(ctx, ownerID, uuid.Nil, model.AuditActionCreate, model.AuditEntityPet, pet.ID, &audit.LogOptions{
		Changes: pet,
	})

	return pet, nil
}

// GetPet returns the pet if ownerID matches; staff callers pass uuid.Nil to
// skip the ownership check.
func (s *Service) GetPet(ctx context.Context, ownerID, id uuid.UUID) (*model.Pet, error) {
	pet, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != uuid.Nil && pet.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return pet, nil
}

func (s *Service) UpdatePet(ctx context.Context, ownerID, id uuid.UUID, req *model.UpdatePetRequest) (*model.Pet, error) {
	pet, err := s.GetPet(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.Species != nil {
		pet.Species = *req.Species
	}
	if req.Breed != nil {
		pet.Breed = *req.Breed
	}
	if req.Sex != nil {
		pet.Sex = *req.Sex
	}
	if req.BirthDate != nil {
		pet.BirthDate = req.BirthDate
	}
	if req.WeightKg != nil {
		pet.WeightKg = req.WeightKg
	}
	if req.Notes != nil {
		pet.Notes = *req.Notes
	}
	pet.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to update pet: %w", err)
	}

	s.auditor.Log(ctx, ownerID, uuid.Nil, model.AuditActionUpdate, model.AuditEntityPet, pet.ID, &audit.LogOptions{
		Changes: req,
	})

	return pet, nil
}

func (s *Service) DeletePet(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.GetPet(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}

	s.auditor.Log(ctx, ownerID, uuid.Nil, model.AuditActionDelete, model.AuditEntityPet, id, nil)
	return nil
}

func (s *Service) ListPets(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
