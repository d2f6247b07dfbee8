package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/pawhub/vetbook-api/internal/availability"
	"github.com/pawhub/vetbook-api/internal/email"
	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/internal/service/audit"
	"github.com/pawhub/vetbook-api/pkg/logger"
)

var (
	ErrMisalignedSlot    = errors.New("start time is not on a 15-minute boundary")
	ErrOutsideHours      = errors.New("start time is outside bookable hours")
	ErrOutsideWindow     = errors.New("date is outside the booking window")
	ErrPastSlot          = errors.New("slot is in the past")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrNotOwner          = errors.New("booking belongs to another owner")
	ErrWrongClinic       = errors.New("booking belongs to another clinic")
	ErrInactiveService   = errors.New("service is not offered")
	ErrPetOwnership      = errors.New("pet belongs to another owner")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	availabilityTTL = 30 * time.Second
	cachePrefix     = "avail:"
)

// Service implements the booking lifecycle and the weekly availability
// lookup that feeds it.
type Service struct {
	bookings repository.BookingRepository
	schedule repository.ScheduleRepository
	clinics  repository.ClinicRepository
	pets     repository.PetRepository
	services repository.ServiceRepository
	users    repository.UserRepository
	outbox   repository.OutboxRepository
	auditor  *audit.Service
	mailer   email.Service
	cache    *gocache.Cache
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(
	bookings repository.BookingRepository,
	schedule repository.ScheduleRepository,
	clinics repository.ClinicRepository,
	pets repository.PetRepository,
	services repository.ServiceRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	auditor *audit.Service,
	mailer email.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		bookings: bookings,
		schedule: schedule,
		clinics:  clinics,
		pets:     pets,
		services: services,
		users:    users,
		outbox:   outbox,
		auditor:  auditor,
		mailer:   mailer,
		cache:    gocache.New(availabilityTTL, time.Minute),
		logger:   log,
		now:      time.Now,
	}
}

// GetWeekAvailability resolves the 7-day slot grid for a clinic starting at
// weekStart (clamped so it never begins before today). Results are cached
// briefly; every write path for the clinic drops its cached weeks.
func (s *Service) GetWeekAvailability(ctx context.Context, clinicID uuid.UUID, weekStart time.Time) ([]availability.DaySlots, error) {
	now := s.now()
	start := availability.ClampWindowStart(weekStart, now)

	key := cachePrefix + clinicID.String() + ":" + availability.DateKey(start)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]availability.DaySlots), nil
	}

	days, err := s.resolveWindow(ctx, clinicID, start, now)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, days, gocache.DefaultExpiration)
	return days, nil
}

func (s *Service) resolveWindow(ctx context.Context, clinicID uuid.UUID, start, now time.Time) ([]availability.DaySlots, error) {
	hours, err := s.schedule.ListWeeklyHours(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly hours: %w", err)
	}

	exceptions, err := s.schedule.ListExceptions(ctx, clinicID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load exceptions: %w", err)
	}

	end := start.AddDate(0, 0, availability.WindowDays)
	active, err := s.bookings.ListActiveForClinicRange(ctx, clinicID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	in := availability.ResolveInput{
		WeeklyHours: hoursInput(hours),
		Exceptions:  exceptionsInput(exceptions),
		Bookings:    bookingsInput(active),
		WindowStart: start,
		Now:         now,
	}
	return availability.Resolve(in), nil
}

// CreateBooking reserves a slot for an owner's pet. The availability
// re-check here is best effort; the storage uniqueness constraint decides
// races, surfacing as repository.ErrSlotTaken.
func (s *Service) CreateBooking(ctx context.Context, ownerID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	now := s.now()

	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	startMin, err := parseStartTime(req.StartTime)
	if err != nil {
		return nil, err
	}

	today := availability.StartOfDay(now)
	if date.Before(today) || !date.Before(today.AddDate(0, 0, availability.WindowDays)) {
		return nil, ErrOutsideWindow
	}

	slotStart := date.Add(time.Duration(startMin) * time.Minute)
	if slotStart.Before(now) {
		return nil, ErrPastSlot
	}

	pet, err := s.pets.Get(ctx, req.PetID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != ownerID {
		return nil, ErrPetOwnership
	}

	svc, err := s.services.Get(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.ClinicID != req.ClinicID || svc.Status != model.ServiceStatusActive {
		return nil, ErrInactiveService
	}

	if err := s.checkSlotFree(ctx, req.ClinicID, date, slotStart, now); err != nil {
		return nil, err
	}

	slotEnd := slotStart.Add(availability.SlotInterval)
	booking := &model.Booking{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ClinicID:        req.ClinicID,
		OwnerID:         ownerID,
		PetID:           req.PetID,
		ServiceID:       req.ServiceID,
		AppointmentDate: date,
		StartTime:       slotStart.Format("15:04:05"),
		EndTime:         slotEnd.Format("15:04:05"),
		Status:          model.BookingStatusPending,
		Notes:           req.Notes,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateClinic(req.ClinicID)

	s.auditor.Log(ctx, ownerID, booking.ClinicID, model.AuditActionCreate, model.AuditEntityBooking, booking.ID, &audit.LogOptions{
		Changes: booking,
	})
	s.emitEvent(ctx, model.EventBookingCreated, booking)
	s.notifyOwner(ctx, booking, func(to, clinicName string) error {
		return s.mailer.SendBookingConfirmation(ctx, to, booking, clinicName)
	})

	return booking, nil
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.bookings.Get(ctx, id)
}

func (s *Service) ListBookings(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	return s.bookings.List(ctx, filters)
}

// Confirm moves a pending booking to confirmed. Staff only.
func (s *Service) Confirm(ctx context.Context, actorID, clinicID, id uuid.UUID) (*model.Booking, error) {
	return s.staffTransition(ctx, actorID, clinicID, id, model.BookingStatusConfirmed, nil)
}

// Decline rejects a pending booking, freeing its slot.
func (s *Service) Decline(ctx context.Context, actorID, clinicID, id uuid.UUID, reason string) (*model.Booking, error) {
	return s.staffTransition(ctx, actorID, clinicID, id, model.BookingStatusDeclined, &reason)
}

// CheckIn marks a confirmed booking as arrived.
func (s *Service) CheckIn(ctx context.Context, actorID, clinicID, id uuid.UUID) (*model.Booking, error) {
	return s.staffTransition(ctx, actorID, clinicID, id, model.BookingStatusCheckedIn, nil)
}

// NoShow marks a confirmed booking whose owner never arrived.
func (s *Service) NoShow(ctx context.Context, actorID, clinicID, id uuid.UUID) (*model.Booking, error) {
	return s.staffTransition(ctx, actorID, clinicID, id, model.BookingStatusNoShow, nil)
}

// Complete closes a checked-in booking. Called when a treatment record is
// filed for it.
func (s *Service) Complete(ctx context.Context, actorID, clinicID, id uuid.UUID) (*model.Booking, error) {
	return s.staffTransition(ctx, actorID, clinicID, id, model.BookingStatusCompleted, nil)
}

// CancelByOwner lets the booking's owner cancel a pending or confirmed
// booking.
func (s *Service) CancelByOwner(ctx context.Context, ownerID, id uuid.UUID, reason string) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return s.transition(ctx, ownerID, booking, model.BookingStatusCanceled, &reason)
}

// CancelByStaff cancels on behalf of the clinic.
func (s *Service) CancelByStaff(ctx context.Context, actorID, clinicID, id uuid.UUID, reason string) (*model.Booking, error) {
	return s.staffTransition(ctx, actorID, clinicID, id, model.BookingStatusCanceled, &reason)
}

func (s *Service) staffTransition(ctx context.Context, actorID, clinicID, id uuid.UUID, next model.BookingStatus, reason *string) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.ClinicID != clinicID {
		return nil, ErrWrongClinic
	}
	return s.transition(ctx, actorID, booking, next, reason)
}

func (s *Service) transition(ctx context.Context, actorID uuid.UUID, booking *model.Booking, next model.BookingStatus, reason *string) (*model.Booking, error) {
	if !booking.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, booking.Status, next)
	}

	prev := booking.Status
	booking.Status = next
	booking.UpdatedAt = s.now()
	if reason != nil && *reason != "" {
		booking.CancelReason = reason
	}

	if err := s.bookings.UpdateStatus(ctx, booking); err != nil {
		booking.Status = prev
		return nil, err
	}

	// a freed slot must show up on the next availability read
	if prev.IsActive() && !next.IsActive() {
		s.invalidateClinic(booking.ClinicID)
	}

	action := model.AuditActionUpdate
	if next == model.BookingStatusCanceled {
		action = model.AuditActionCancel
	}
	s.auditor.Log(ctx, actorID, booking.ClinicID, action, model.AuditEntityBooking, booking.ID, &audit.LogOptions{
		Changes: map[string]interface{}{"status": next, "previous": prev},
	})

	switch next {
	case model.BookingStatusConfirmed:
		s.emitEvent(ctx, model.EventBookingConfirmed, booking)
	case model.BookingStatusCompleted:
		s.emitEvent(ctx, model.EventBookingCompleted, booking)
	case model.BookingStatusCanceled, model.BookingStatusDeclined:
		s.emitEvent(ctx, model.EventBookingCanceled, booking)
		s.notifyOwner(ctx, booking, func(to, clinicName string) error {
			return s.mailer.SendBookingCanceled(ctx, to, booking, clinicName)
		})
	}

	return booking, nil
}

// checkSlotFree re-resolves availability for the requested day and verifies
// the slot exists and is open.
func (s *Service) checkSlotFree(ctx context.Context, clinicID uuid.UUID, date, slotStart, now time.Time) error {
	days, err := s.resolveWindow(ctx, clinicID, date, now)
	if err != nil {
		return err
	}

	key := availability.DateKey(date)
	for _, day := range days {
		if day.Key != key {
			continue
		}
		for _, slot := range day.Slots {
			if slot.Start.Equal(slotStart) {
				if !slot.Available {
					return repository.ErrSlotTaken
				}
				return nil
			}
		}
	}
	return ErrOutsideHours
}

func (s *Service) emitEvent(ctx context.Context, eventType string, booking *model.Booking) {
	payload, err := json.Marshal(booking)
	if err != nil {
		s.logger.Error(err, "failed to marshal outbox payload")
		return
	}
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue outbox event", "event_type", eventType)
	}
}

// notifyOwner sends mail on a best effort basis; delivery failures are
// logged, never propagated.
func (s *Service) notifyOwner(ctx context.Context, booking *model.Booking, send func(to, clinicName string) error) {
	owner, err := s.users.Get(ctx, booking.OwnerID)
	if err != nil {
		s.logger.Error(err, "failed to load booking owner for notification")
		return
	}
	clinic, err := s.clinics.Get(ctx, booking.ClinicID)
	if err != nil {
		s.logger.Error(err, "failed to load clinic for notification")
		return
	}
	if err := send(owner.Email, clinic.Name); err != nil {
		s.logger.Error(err, "failed to send booking email", "booking_id", booking.ID)
	}
}

func (s *Service) invalidateClinic(clinicID uuid.UUID) {
	prefix := cachePrefix + clinicID.String() + ":"
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
}

func parseStartTime(raw string) (int, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return 0, fmt.Errorf("invalid start time: %w", err)
	}
	min := t.Hour()*60 + t.Minute()
	if min%15 != 0 {
		return 0, ErrMisalignedSlot
	}
	if min < availability.DayStartHour*60 || min+15 > availability.DayEndHour*60 {
		return 0, ErrOutsideHours
	}
	return min, nil
}

func hoursInput(rows []*model.WeeklyHours) []availability.WeeklyHours {
	out := make([]availability.WeeklyHours, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.WeeklyHours{
			Weekday:    row.Weekday,
			IsOpen:     row.IsOpen,
			TimeRanges: rangesInput(row.TimeRanges),
		})
	}
	return out
}

func exceptionsInput(rows []*model.ScheduleException) []availability.Exception {
	out := make([]availability.Exception, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.Exception{
			Date:       availability.DateKey(row.Date),
			IsClosed:   row.IsClosed,
			Reason:     row.Reason,
			TimeRanges: rangesInput(row.TimeRanges),
		})
	}
	return out
}

func bookingsInput(rows []*model.Booking) []availability.BookingWindow {
	out := make([]availability.BookingWindow, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.BookingWindow{
			Date:   availability.DateKey(row.AppointmentDate),
			Start:  row.StartTime,
			End:    row.EndTime,
			Status: string(row.Status),
		})
	}
	return out
}

func rangesInput(ranges model.TimeRangeList) []availability.TimeRange {
	out := make([]availability.TimeRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, availability.TimeRange{Start: r.Start, End: r.End})
	}
	return out
}
