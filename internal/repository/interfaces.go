package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
)

// Sentinel errors shared by all implementations.
var (
	ErrNotFound = errors.New("not found")

	// ErrSlotTaken is returned when a booking insert loses the race for a
	// slot: the storage uniqueness constraint on (clinic_id,
	// appointment_date, start_time) is the authoritative double-booking
	// guard, any client-side overlap check is only a UX optimization.
	ErrSlotTaken = errors.New("slot already booked")

	ErrDuplicate = errors.New("already exists")
)

// All repository interfaces in one file
type (
	ClinicRepository interface {
		Create(ctx context.Context, clinic *model.Clinic) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		Update(ctx context.Context, clinic *model.Clinic) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.ClinicFilters) ([]*model.Clinic, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
	}

	PetRepository interface {
		Create(ctx context.Context, pet *model.Pet) error
		Get(ctx context.Context, id uuid.UUID) (*model.Pet, error)
		Update(ctx context.Context, pet *model.Pet) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, service *model.Service) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Service, error)
	}

	// ScheduleRepository persists the two schedule inputs of the
	// availability resolver: recurring weekly hours and date exceptions.
	ScheduleRepository interface {
		ListWeeklyHours(ctx context.Context, clinicID uuid.UUID) ([]*model.WeeklyHours, error)
		ReplaceWeeklyHours(ctx context.Context, clinicID uuid.UUID, hours []*model.WeeklyHours) error
		ListExceptions(ctx context.Context, clinicID uuid.UUID, from time.Time) ([]*model.ScheduleException, error)
		UpsertExceptions(ctx context.Context, exceptions []*model.ScheduleException) error
		DeleteException(ctx context.Context, clinicID, id uuid.UUID) error
	}

	BookingRepository interface {
		Create(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		UpdateStatus(ctx context.Context, booking *model.Booking) error
		List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error)
		ListActiveForClinicRange(ctx context.Context, clinicID uuid.UUID, from, to time.Time) ([]*model.Booking, error)
		ListActiveForDateRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	}

	TreatmentRepository interface {
		Create(ctx context.Context, record *model.TreatmentRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.TreatmentRecord, error)
		ListByPet(ctx context.Context, petID uuid.UUID) ([]*model.TreatmentRecord, error)
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		List(ctx context.Context, filters map[string]interface{}) ([]*model.AuditLog, error)
		Cleanup(ctx context.Context, before time.Time) (int64, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
