package vetservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/internal/service/audit"
)

// Service manages the treatments a clinic offers for booking.
type Service struct {
	repo    repository.ServiceRepository
	auditor *audit.Service
}

func NewService(repo repository.ServiceRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
	}
}

func (s *Service) CreateService(ctx context.Context, actorID, clinicID uuid.UUID, req *model.CreateServiceRequest) (*model.Service, error) {
	now := time.Now()
	svc := &model.Service{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ClinicID:    clinicID,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
		Status:      model.ServiceStatusActive,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.auditor.Log(ctx, actorID, clinicID, model.AuditActionCreate, model.AuditEntityService, svc.ID, &audit.LogOptions{
		Changes: svc,
	})

	return svc, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateService(ctx context.Context, actorID, clinicID, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Duration != nil {
		svc.Duration = *req.Duration
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Status != nil {
		svc.Status = *req.Status
	}
	svc.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	s.auditor.Log(ctx, actorID, clinicID, model.AuditActionUpdate, model.AuditEntityService, svc.ID, &audit.LogOptions{
		Changes: req,
	})

	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, actorID, clinicID, id uuid.UUID) error {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if svc.ClinicID != clinicID {
		return repository.ErrNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	s.auditor.Log(ctx, actorID, clinicID, model.AuditActionDelete, model.AuditEntityService, id, nil)
	return nil
}

func (s *Service) ListServices(ctx context.Context, clinicID uuid.UUID) ([]*model.Service, error) {
	return s.repo.ListByClinic(ctx, clinicID)
}
