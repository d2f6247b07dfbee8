package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/internal/service/audit"
)

type scheduleRepoMock struct {
	hours      []*model.WeeklyHours
	exceptions map[string]*model.ScheduleException
	deleted    []uuid.UUID
}

func newScheduleRepoMock() *scheduleRepoMock {
	return &scheduleRepoMock{exceptions: make(map[string]*model.ScheduleException)}
}

func (m *scheduleRepoMock) ListWeeklyHours(_ context.Context, _ uuid.UUID) ([]*model.WeeklyHours, error) {
	return m.hours, nil
}

func (m *scheduleRepoMock) ReplaceWeeklyHours(_ context.Context, _ uuid.UUID, hours []*model.WeeklyHours) error {
	m.hours = hours
	return nil
}

func (m *scheduleRepoMock) ListExceptions(_ context.Context, _ uuid.UUID, _ time.Time) ([]*model.ScheduleException, error) {
	var out []*model.ScheduleException
	for _, ex := range m.exceptions {
		out = append(out, ex)
	}
	return out, nil
}

func (m *scheduleRepoMock) UpsertExceptions(_ context.Context, exceptions []*model.ScheduleException) error {
	for _, ex := range exceptions {
		m.exceptions[ex.Date.Format("2006-01-02")] = ex
	}
	return nil
}

func (m *scheduleRepoMock) DeleteException(_ context.Context, _, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return nil
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

func newTestService() (*Service, *scheduleRepoMock, *auditRepoMock) {
	repo := newScheduleRepoMock()
	audits := &auditRepoMock{}
	return NewService(repo, audit.NewService(audits)), repo, audits
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestReplaceWeeklyHours(t *testing.T) {
	svc, repo, audits := newTestService()
	actorID, clinicID := uuid.New(), uuid.New()

	req := &model.ReplaceWeeklyHoursRequest{
		Days: []model.WeeklyHoursInput{
			{Weekday: 1, IsOpen: true, TimeRanges: model.TimeRangeList{{Start: "09:00", End: "12:00"}, {Start: "13:00", End: "17:00"}}},
			{Weekday: 2, IsOpen: false},
		},
	}

	rows, err := svc.ReplaceWeeklyHours(context.Background(), actorID, clinicID, req)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, clinicID, rows[0].ClinicID)
	assert.Len(t, repo.hours, 2)
	assert.Len(t, audits.entries, 1)
}

func TestReplaceWeeklyHoursRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	actorID, clinicID := uuid.New(), uuid.New()

	_, err := svc.ReplaceWeeklyHours(ctx, actorID, clinicID, &model.ReplaceWeeklyHoursRequest{
		Days: []model.WeeklyHoursInput{
			{Weekday: 1, IsOpen: true, TimeRanges: model.TimeRangeList{{Start: "12:00", End: "09:00"}}},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.ReplaceWeeklyHours(ctx, actorID, clinicID, &model.ReplaceWeeklyHoursRequest{
		Days: []model.WeeklyHoursInput{
			{Weekday: 1, IsOpen: true, TimeRanges: model.TimeRangeList{{Start: "09:00", End: "09:00"}}},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.ReplaceWeeklyHours(ctx, actorID, clinicID, &model.ReplaceWeeklyHoursRequest{
		Days: []model.WeeklyHoursInput{
			{Weekday: 3, IsOpen: false, TimeRanges: model.TimeRangeList{{Start: "09:00", End: "17:00"}}},
		},
	})
	assert.ErrorIs(t, err, ErrClosedWithRanges)

	_, err = svc.ReplaceWeeklyHours(ctx, actorID, clinicID, &model.ReplaceWeeklyHoursRequest{
		Days: []model.WeeklyHoursInput{
			{Weekday: 1, IsOpen: true},
			{Weekday: 1, IsOpen: false},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateWeekday)
}

func TestUpsertExceptionsExpandsRange(t *testing.T) {
	svc, repo, _ := newTestService()
	actorID, clinicID := uuid.New(), uuid.New()

	rows, err := svc.UpsertExceptions(context.Background(), actorID, clinicID, &model.UpsertExceptionsRequest{
		From:     futureDate(1),
		To:       futureDate(3),
		IsClosed: true,
		Reason:   "renovation",
	})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Len(t, repo.exceptions, 3)
	for _, ex := range rows {
		assert.True(t, ex.IsClosed)
		assert.Equal(t, "renovation", ex.Reason)
		assert.Empty(t, ex.TimeRanges)
	}
}

func TestUpsertExceptionsSingleDayBlackout(t *testing.T) {
	svc, repo, _ := newTestService()

	rows, err := svc.UpsertExceptions(context.Background(), uuid.New(), uuid.New(), &model.UpsertExceptionsRequest{
		From:       futureDate(2),
		To:         futureDate(2),
		TimeRanges: model.TimeRangeList{{Start: "12:00", End: "13:00"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsClosed)
	assert.Len(t, repo.exceptions, 1)
}

func TestUpsertExceptionsRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	actorID, clinicID := uuid.New(), uuid.New()

	_, err := svc.UpsertExceptions(ctx, actorID, clinicID, &model.UpsertExceptionsRequest{
		From: futureDate(3), To: futureDate(1), IsClosed: true,
	})
	assert.ErrorIs(t, err, ErrDateOrder)

	_, err = svc.UpsertExceptions(ctx, actorID, clinicID, &model.UpsertExceptionsRequest{
		From: futureDate(-2), To: futureDate(1), IsClosed: true,
	})
	assert.ErrorIs(t, err, ErrPastDate)

	_, err = svc.UpsertExceptions(ctx, actorID, clinicID, &model.UpsertExceptionsRequest{
		From: futureDate(1), To: futureDate(1),
		TimeRanges: model.TimeRangeList{{Start: "15:00", End: "14:00"}},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDeleteException(t *testing.T) {
	svc, repo, audits := newTestService()
	id := uuid.New()

	err := svc.DeleteException(context.Background(), uuid.New(), uuid.New(), id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, repo.deleted)
	assert.Len(t, audits.entries, 1)
}

var _ repository.ScheduleRepository = (*scheduleRepoMock)(nil)
