package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/availability"
	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/internal/service/audit"
)

var (
	ErrInvalidRange     = errors.New("time range start must be before end")
	ErrClosedWithRanges = errors.New("a closed day cannot have time ranges")
	ErrDateOrder        = errors.New("from date must not be after to date")
	ErrPastDate         = errors.New("past dates cannot be edited")
	ErrDuplicateWeekday = errors.New("duplicate weekday in schedule")
)

const dateLayout = "2006-01-02"

// Service owns the two schedule inputs of the availability resolver.
// Malformed ranges are rejected here, at the editing boundary; the
// resolver itself only carries a defensive default for them.
type Service struct {
	repo    repository.ScheduleRepository
	auditor *audit.Service
}

func NewService(repo repository.ScheduleRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) ListWeeklyHours(ctx context.Context, clinicID uuid.UUID) ([]*model.WeeklyHours, error) {
	hours, err := s.repo.ListWeeklyHours(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly hours: %w", err)
	}
	return hours, nil
}

// ReplaceWeeklyHours swaps the clinic's whole weekly schedule for the
// submitted one. The previous rows are discarded, no history is retained.
func (s *Service) ReplaceWeeklyHours(ctx context.Context, actorID, clinicID uuid.UUID, req *model.ReplaceWeeklyHoursRequest) ([]*model.WeeklyHours, error) {
	seen := make(map[int]bool, len(req.Days))
	rows := make([]*model.WeeklyHours, 0, len(req.Days))

	for _, day := range req.Days {
		if seen[day.Weekday] {
			return nil, ErrDuplicateWeekday
		}
		seen[day.Weekday] = true

		if !day.IsOpen && len(day.TimeRanges) > 0 {
			return nil, ErrClosedWithRanges
		}
		if err := validateRanges(day.TimeRanges); err != nil {
			return nil, err
		}

		rows = append(rows, &model.WeeklyHours{
			ClinicID:   clinicID,
			Weekday:    day.Weekday,
			IsOpen:     day.IsOpen,
			TimeRanges: day.TimeRanges,
		})
	}

	if err := s.repo.ReplaceWeeklyHours(ctx, clinicID, rows); err != nil {
		return nil, fmt.Errorf("failed to replace weekly hours: %w", err)
	}

	s.auditor.Log(ctx, actorID, clinicID, model.AuditActionUpdate, model.AuditEntitySchedule, clinicID, &audit.LogOptions{
		Changes: req,
	})

	return rows, nil
}

// ListExceptions returns today-or-future exceptions only.
func (s *Service) ListExceptions(ctx context.Context, clinicID uuid.UUID) ([]*model.ScheduleException, error) {
	exceptions, err := s.repo.ListExceptions(ctx, clinicID, availability.StartOfDay(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to list exceptions: %w", err)
	}
	return exceptions, nil
}

// UpsertExceptions expands [from, to] into one exception row per day and
// bulk-upserts them.
func (s *Service) UpsertExceptions(ctx context.Context, actorID, clinicID uuid.UUID, req *model.UpsertExceptionsRequest) ([]*model.ScheduleException, error) {
	from, err := time.ParseInLocation(dateLayout, req.From, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := time.ParseInLocation(dateLayout, req.To, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid to date: %w", err)
	}
	if to.Before(from) {
		return nil, ErrDateOrder
	}
	if from.Before(availability.StartOfDay(time.Now())) {
		return nil, ErrPastDate
	}

	if !req.IsClosed {
		if err := validateRanges(req.TimeRanges); err != nil {
			return nil, err
		}
	}

	var rows []*model.ScheduleException
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		ex := &model.ScheduleException{
			ClinicID: clinicID,
			Date:     d,
			IsClosed: req.IsClosed,
			Reason:   req.Reason,
		}
		if !req.IsClosed {
			ex.TimeRanges = req.TimeRanges
		}
		rows = append(rows, ex)
	}

	if err := s.repo.UpsertExceptions(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to upsert exceptions: %w", err)
	}

	s.auditor.Log(ctx, actorID, clinicID, model.AuditActionUpdate, model.AuditEntitySchedule, clinicID, &audit.LogOptions{
		Changes: req,
	})

	return rows, nil
}

func (s *Service) DeleteException(ctx context.Context, actorID, clinicID, id uuid.UUID) error {
	if err := s.repo.DeleteException(ctx, clinicID, id); err != nil {
		return err
	}

	s.auditor.Log(ctx, actorID, clinicID, model.AuditActionDelete, model.AuditEntitySchedule, id, nil)
	return nil
}

func validateRanges(ranges []model.TimeRange) error {
	for _, r := range ranges {
		start, err := parseClock(r.Start)
		if err != nil {
			return fmt.Errorf("invalid range start %q: %w", r.Start, err)
		}
		end, err := parseClock(r.End)
		if err != nil {
			return fmt.Errorf("invalid range end %q: %w", r.End, err)
		}
		if start >= end {
			return ErrInvalidRange
		}
	}
	return nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
