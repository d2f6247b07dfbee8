package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/internal/service/audit"
	"github.com/pawhub/vetbook-api/internal/service/auth"
)

var ErrNotStaff = errors.New("user is not staff of this clinic")

// Service manages a clinic's staff roster. Account creation is delegated
// to the auth service so password rules live in one place.
type Service struct {
	users   repository.UserRepository
	authSvc *auth.Service
	auditor *audit.Service
}

func NewService(users repository.UserRepository, authSvc *auth.Service, auditor *audit.Service) *Service {
	return &Service{
		users:   users,
		authSvc: authSvc,
		auditor: auditor,
	}
}

func (s *Service) CreateStaff(ctx context.Context, actorID, clinicID uuid.UUID, req *model.CreateStaffRequest) (*model.User, error) {
	user, err := s.authSvc.RegisterStaff(ctx, &model.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	}, clinicID)
	if err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actorID, clinicID, model.AuditActionCreate, model.AuditEntityUser, user.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"email": user.Email},
	})

	return user, nil
}

func (s *Service) ListStaff(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	return s.users.List(ctx, &model.UserFilters{
		Role:     model.UserRoleStaff,
		ClinicID: clinicID,
	})
}

// DeactivateStaff disables a staff account without deleting it.
func (s *Service) DeactivateStaff(ctx context.Context, actorID, clinicID, userID uuid.UUID) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != model.UserRoleStaff || user.ClinicID == nil || *user.ClinicID != clinicID {
		return ErrNotStaff
	}

	user.Status = model.UserStatusInactive
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to deactivate staff: %w", err)
	}

	s.auditor.Log(ctx, actorID, clinicID, model.AuditActionUpdate, model.AuditEntityUser, userID, &audit.LogOptions{
		Changes: map[string]interface{}{"status": model.UserStatusInactive},
	})
	return nil
}
