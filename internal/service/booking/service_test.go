package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawhub/vetbook-api/internal/availability"
	"github.com/pawhub/vetbook-api/internal/email"
	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/internal/service/audit"
	"github.com/pawhub/vetbook-api/pkg/logger"
)

// 2026-03-02 is a Monday.
var (
	testNow    = time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	clinicID   = uuid.New()
	ownerID    = uuid.New()
	petID      = uuid.New()
	serviceID  = uuid.New()
	staffID    = uuid.New()
	otherOwner = uuid.New()
)

type bookingRepoMock struct {
	store     map[uuid.UUID]*model.Booking
	createErr error
	listCalls int
}

func (m *bookingRepoMock) Create(_ context.Context, b *model.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.store[b.ID] = b
	return nil
}

func (m *bookingRepoMock) Get(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := m.store[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (m *bookingRepoMock) UpdateStatus(_ context.Context, b *model.Booking) error {
	m.store[b.ID] = b
	return nil
}

func (m *bookingRepoMock) List(_ context.Context, _ *model.BookingFilters) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.store {
		out = append(out, b)
	}
	return out, nil
}

func (m *bookingRepoMock) ListActiveForClinicRange(_ context.Context, clinic uuid.UUID, from, to time.Time) ([]*model.Booking, error) {
	m.listCalls++
	var out []*model.Booking
	for _, b := range m.store {
		if b.ClinicID == clinic && b.Status.IsActive() &&
			!b.AppointmentDate.Before(from) && b.AppointmentDate.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *bookingRepoMock) ListActiveForDateRange(_ context.Context, from, to time.Time) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.store {
		if b.Status.IsActive() && !b.AppointmentDate.Before(from) && b.AppointmentDate.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

type scheduleRepoMock struct {
	hours      []*model.WeeklyHours
	exceptions []*model.ScheduleException
}

func (m *scheduleRepoMock) ListWeeklyHours(_ context.Context, _ uuid.UUID) ([]*model.WeeklyHours, error) {
	return m.hours, nil
}

func (m *scheduleRepoMock) ReplaceWeeklyHours(_ context.Context, _ uuid.UUID, hours []*model.WeeklyHours) error {
	m.hours = hours
	return nil
}

func (m *scheduleRepoMock) ListExceptions(_ context.Context, _ uuid.UUID, _ time.Time) ([]*model.ScheduleException, error) {
	return m.exceptions, nil
}

func (m *scheduleRepoMock) UpsertExceptions(_ context.Context, exceptions []*model.ScheduleException) error {
	m.exceptions = append(m.exceptions, exceptions...)
	return nil
}

func (m *scheduleRepoMock) DeleteException(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

type clinicRepoMock struct{}

func (clinicRepoMock) Create(context.Context, *model.Clinic) error { return nil }
func (clinicRepoMock) Get(_ context.Context, id uuid.UUID) (*model.Clinic, error) {
	return &model.Clinic{Base: model.Base{ID: id}, Name: "Happy Paws"}, nil
}
func (clinicRepoMock) Update(context.Context, *model.Clinic) error { return nil }
func (clinicRepoMock) Delete(context.Context, uuid.UUID) error { return nil }
func (clinicRepoMock) List(context.Context, *model.ClinicFilters) ([]*model.Clinic, error) {
	return nil, nil
}

type petRepoMock struct{}

func (petRepoMock) Create(context.Context, *model.Pet) error { return nil }
func (petRepoMock) Get(_ context.Context, id uuid.UUID) (*model.Pet, error) {
	return &model.Pet{Base: model.Base{ID: id}, OwnerID: ownerID, Name: "Rex"}, nil
}
func (petRepoMock) Update(context.Context, *model.Pet) error { return nil }
func (petRepoMock) Delete(context.Context, uuid.UUID) error { return nil }
func (petRepoMock) ListByOwner(context.Context, uuid.UUID) ([]*model.Pet, error) {
	return nil, nil
}

type serviceRepoMock struct{}

func (serviceRepoMock) Create(context.Context, *model.Service) error { return nil }
func (serviceRepoMock) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	return &model.Service{
		Base:     model.Base{ID: id},
		ClinicID: clinicID,
		Name:     "Checkup",
		Duration: 15,
		Status:   model.ServiceStatusActive,
	}, nil
}
func (serviceRepoMock) Update(context.Context, *model.Service) error { return nil }
func (serviceRepoMock) Delete(context.Context, uuid.UUID) error { return nil }
func (serviceRepoMock) ListByClinic(context.Context, uuid.UUID) ([]*model.Service, error) {
	return nil, nil
}

type userRepoMock struct{}

func (userRepoMock) Create(context.Context, *model.User) error { return nil }
func (userRepoMock) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	return &model.User{Base: model.Base{ID: id}, Email: "owner@example.com"}, nil
}
func (userRepoMock) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}
func (userRepoMock) Update(context.Context, *model.User) error { return nil }
func (userRepoMock) Delete(context.Context, uuid.UUID) error { return nil }
func (userRepoMock) List(context.Context, *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

type outboxRepoMock struct {
	events []*model.OutboxEvent
}

func (m *outboxRepoMock) Create(_ context.Context, e *model.OutboxEvent) error {
	m.events = append(m.events, e)
	return nil
}
func (m *outboxRepoMock) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return m.events, nil
}
func (m *outboxRepoMock) MarkProcessed(context.Context, uuid.UUID) error { return nil }
func (m *outboxRepoMock) MarkFailed(context.Context, uuid.UUID, string) error { return nil }
func (m *outboxRepoMock) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type auditRepoMock struct {
	entries []*model.AuditLog
}

func (m *auditRepoMock) Create(_ context.Context, log *model.AuditLog) error {
	m.entries = append(m.entries, log)
	return nil
}
func (m *auditRepoMock) List(context.Context, map[string]interface{}) ([]*model.AuditLog, error) {
	return nil, nil
}
func (m *auditRepoMock) Cleanup(context.Context, time.Time) (int64, error) { return 0, nil }

type fixture struct {
	svc      *Service
	bookings *bookingRepoMock
	schedule *scheduleRepoMock
	outbox   *outboxRepoMock
	audits   *auditRepoMock
}

func newFixture() *fixture {
	bookings := &bookingRepoMock{store: make(map[uuid.UUID]*model.Booking)}
	schedule := &scheduleRepoMock{hours: fullWeekHours()}
	outbox := &outboxRepoMock{}
	audits := &auditRepoMock{}

	svc := NewService(
		bookings,
		schedule,
		clinicRepoMock{},
		petRepoMock{},
		serviceRepoMock{},
		userRepoMock{},
		outbox,
		audit.NewService(audits),
		email.NoopService{},
		logger.NewLogger(nil),
	)
	svc.now = func() time.Time { return testNow }

	return &fixture{svc: svc, bookings: bookings, schedule: schedule, outbox: outbox, audits: audits}
}

func fullWeekHours() []*model.WeeklyHours {
	hours := make([]*model.WeeklyHours, 0, 7)
	for wd := 0; wd < 7; wd++ {
		hours = append(hours, &model.WeeklyHours{
			ClinicID:   clinicID,
			Weekday:    wd,
			IsOpen:     true,
			TimeRanges: model.TimeRangeList{{Start: "09:00", End: "17:00"}},
		})
	}
	return hours
}

func createReq(date, start string) *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		ClinicID:  clinicID,
		PetID:     petID,
		ServiceID: serviceID,
		Date:      date,
		StartTime: start,
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture()

	booking, err := f.svc.CreateBooking(context.Background(), ownerID, createReq("2026-03-03", "10:30"))
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, "10:30:00", booking.StartTime)
	assert.Equal(t, "10:45:00", booking.EndTime)
	assert.Equal(t, ownerID, booking.OwnerID)

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, model.EventBookingCreated, f.outbox.events[0].EventType)

	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, model.AuditActionCreate, f.audits.entries[0].Action)
}

// The service is the only layer that stamps identity. The repository
// persists the booking and outbox event exactly as handed over.
func TestCreateBookingAssignsIdentity(t *testing.T) {
	f := newFixture()

	booking, err := f.svc.CreateBooking(context.Background(), ownerID, createReq("2026-03-03", "11:00"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, booking.ID)
	assert.Equal(t, testNow, booking.CreatedAt)
	assert.Equal(t, testNow, booking.UpdatedAt)

	stored, ok := f.bookings.store[booking.ID]
	require.True(t, ok)
	assert.Equal(t, booking.ID, stored.ID)
	assert.Equal(t, testNow, stored.CreatedAt)

	require.Len(t, f.outbox.events, 1)
	event := f.outbox.events[0]
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, model.OutboxStatusPending, event.Status)
	assert.Equal(t, testNow, event.CreatedAt)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:07"))
	assert.ErrorIs(t, err, ErrMisalignedSlot)

	_, err = f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "07:45"))
	assert.ErrorIs(t, err, ErrOutsideHours)

	_, err = f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "18:00"))
	assert.ErrorIs(t, err, ErrOutsideHours)

	// beyond the 7-day window
	_, err = f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-12", "10:00"))
	assert.ErrorIs(t, err, ErrOutsideWindow)

	_, err = f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-01", "10:00"))
	assert.ErrorIs(t, err, ErrOutsideWindow)

	// today, earlier than now
	_, err = f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-02", "09:30"))
	assert.ErrorIs(t, err, ErrPastSlot)
}

func TestCreateBookingOutsideOpenRanges(t *testing.T) {
	f := newFixture()

	// aligned and within 08:00-18:00, but the clinic opens at 09:00
	_, err := f.svc.CreateBooking(context.Background(), ownerID, createReq("2026-03-03", "08:15"))
	assert.ErrorIs(t, err, ErrOutsideHours)
}

func TestCreateBookingSlotTaken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:30"))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, otherOwner, createReq("2026-03-03", "10:30"))
	assert.ErrorIs(t, err, ErrPetOwnership)

	_, err = f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:30"))
	assert.ErrorIs(t, err, repository.ErrSlotTaken)
}

func TestCreateBookingInsertRace(t *testing.T) {
	f := newFixture()
	f.bookings.createErr = repository.ErrSlotTaken

	_, err := f.svc.CreateBooking(context.Background(), ownerID, createReq("2026-03-03", "10:30"))
	assert.ErrorIs(t, err, repository.ErrSlotTaken)
}

func TestTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	booking, err := f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:30"))
	require.NoError(t, err)

	booking, err = f.svc.Confirm(ctx, staffID, clinicID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, booking.Status)

	booking, err = f.svc.CheckIn(ctx, staffID, clinicID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCheckedIn, booking.Status)

	booking, err = f.svc.Complete(ctx, staffID, clinicID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, booking.Status)

	// completed is terminal
	_, err = f.svc.Confirm(ctx, staffID, clinicID, booking.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestDeclineRecordsReason(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	booking, err := f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:30"))
	require.NoError(t, err)

	booking, err = f.svc.Decline(ctx, staffID, clinicID, booking.ID, "fully booked elsewhere")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusDeclined, booking.Status)
	require.NotNil(t, booking.CancelReason)
	assert.Equal(t, "fully booked elsewhere", *booking.CancelReason)
}

func TestCancelByOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	booking, err := f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:30"))
	require.NoError(t, err)

	_, err = f.svc.CancelByOwner(ctx, otherOwner, booking.ID, "changed my mind")
	assert.ErrorIs(t, err, ErrNotOwner)

	booking, err = f.svc.CancelByOwner(ctx, ownerID, booking.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCanceled, booking.Status)
}

func TestCanceledSlotReopens(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	booking, err := f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:30"))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:30"))
	assert.ErrorIs(t, err, repository.ErrSlotTaken)

	_, err = f.svc.CancelByOwner(ctx, ownerID, booking.ID, "")
	require.NoError(t, err)

	again, err := f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:30"))
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, again.Status)
}

func TestStaffTransitionWrongClinic(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	booking, err := f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:30"))
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, staffID, uuid.New(), booking.ID)
	assert.ErrorIs(t, err, ErrWrongClinic)
}

func TestGetWeekAvailability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	days, err := f.svc.GetWeekAvailability(ctx, clinicID, testNow)
	require.NoError(t, err)
	require.Len(t, days, availability.WindowDays)
	assert.Equal(t, "2026-03-02", days[0].Key)

	// second read is served from cache
	calls := f.bookings.listCalls
	_, err = f.svc.GetWeekAvailability(ctx, clinicID, testNow)
	require.NoError(t, err)
	assert.Equal(t, calls, f.bookings.listCalls)

	// a new booking invalidates the cached week
	_, err = f.svc.CreateBooking(ctx, ownerID, createReq("2026-03-03", "10:30"))
	require.NoError(t, err)

	days, err = f.svc.GetWeekAvailability(ctx, clinicID, testNow)
	require.NoError(t, err)

	var booked *availability.TimeSlot
	for i := range days[1].Slots {
		if days[1].Slots[i].Start.Format("15:04") == "10:30" {
			booked = &days[1].Slots[i]
		}
	}
	require.NotNil(t, booked)
	assert.False(t, booked.Available)
}
