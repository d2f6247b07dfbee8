package clinic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/internal/service/audit"
)

type Service struct {
	repo    repository.ClinicRepository
	users   repository.UserRepository
	auditor *audit.Service
}

func NewService(repo repository.ClinicRepository, users repository.UserRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		auditor: auditor,
	}
}

func (s *Service) CreateClinic(ctx context.Context, actorID uuid.UUID, req *model.CreateClinicRequest) (*model.Clinic, error) {
	now := time.Now()
	clinic := &model.Clinic{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Phone:       req.Phone,
		Email:       req.Email,
		Status:      string(model.ClinicStatusActive),
	}

	if err := s.repo.Create(ctx, clinic); err != nil {
		return nil, fmt.Errorf("failed to create clinic: %w", err)
	}

	// The creator becomes the clinic's first staff member, otherwise a
	// fresh clinic has nobody who can manage it. A new login is needed
	// to pick up the staff claims.
	creator, err := s.users.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load clinic creator: %w", err)
	}
	creator.Role = model.UserRoleStaff
	creator.ClinicID = &clinic.ID
	if err := s.users.Update(ctx, creator); err != nil {
		return nil, fmt.Errorf("failed to promote clinic creator: %w", err)
	}

	s.auditor.Log(ctx, actorID, clinic.ID, model.AuditActionCreate, model.AuditEntityClinic, clinic.ID, &audit.LogOptions{
		Changes: clinic,
	})

	return clinic, nil
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateClinic(ctx context.Context, actorID, id uuid.UUID, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Description != nil {
		clinic.Description = *req.Description
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.City != nil {
		clinic.City = *req.City
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Email != nil {
		clinic.Email = *req.Email
	}
	if req.Status != nil {
		clinic.Status = *req.Status
	}
	clinic.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, clinic); err != nil {
		return nil, fmt.Errorf("failed to update clinic: %w", err)
	}

	s.auditor.Log(ctx, actorID, clinic.ID, model.AuditActionUpdate, model.AuditEntityClinic, clinic.ID, &audit.LogOptions{
		Changes: req,
	})

	return clinic, nil
}

func (s *Service) DeleteClinic(ctx context.Context, actorID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete clinic: %w", err)
	}

	s.auditor.Log(ctx, actorID, id, model.AuditActionDelete, model.AuditEntityClinic, id, nil)
	return nil
}

func (s *Service) ListClinics(ctx context.Context, filters *model.ClinicFilters) ([]*model.Clinic, error) {
	return s.repo.List(ctx, filters)
}
