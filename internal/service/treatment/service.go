package treatment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/internal/service/audit"
	"github.com/pawhub/vetbook-api/internal/service/booking"
)

// ErrNotCheckedIn is returned when a treatment record is filed for a
// booking that is not checked in.
var ErrNotCheckedIn = errors.New("booking is not checked in")

// Service files treatment records. Filing a record is what completes a
// booking, so the two writes happen together here.
type Service struct {
	repo     repository.TreatmentRepository
	bookings *booking.Service
	auditor  *audit.Service
}

func NewService(repo repository.TreatmentRepository, bookings *booking.Service, auditor *audit.Service) *Service {
	return &Service{
		repo:     repo,
		bookings: bookings,
		auditor:  auditor,
	}
}

func (s *Service) CreateTreatment(ctx context.Context, actorID, clinicID uuid.UUID, req *model.CreateTreatmentRequest) (*model.TreatmentRecord, error) {
	b, err := s.bookings.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if b.ClinicID != clinicID {
		return nil, booking.ErrWrongClinic
	}
	if b.Status != model.BookingStatusCheckedIn {
		return nil, ErrNotCheckedIn
	}

	now := time.Now()
	record := &model.TreatmentRecord{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:     b.ID,
		PetID:         b.PetID,
		ClinicID:      b.ClinicID,
		VetName:       req.VetName,
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		Prescriptions: req.Prescriptions,
		CompletedAt:   now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create treatment record: %w", err)
	}

	if _, err := s.bookings.Complete(ctx, actorID, clinicID, b.ID); err != nil {
		return nil, fmt.Errorf("failed to complete booking: %w", err)
	}

	s.auditor.Log(ctx, actorID, clinicID, model.AuditActionCreate, model.AuditEntityTreatment, record.ID, &audit.LogOptions{
		Changes: record,
	})

	return record, nil
}

func (s *Service) GetTreatment(ctx context.Context, id uuid.UUID) (*model.TreatmentRecord, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID uuid.UUID) ([]*model.TreatmentRecord, error) {
	return s.repo.ListByPet(ctx, petID)
}
