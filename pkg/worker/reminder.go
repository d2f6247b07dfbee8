package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/availability"
	"github.com/pawhub/vetbook-api/internal/email"
	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/pkg/logger"
	"github.com/pawhub/vetbook-api/pkg/metrics"
)

// ReminderWorker emails owners of confirmed bookings the day before their
// appointment. Sends are tracked in memory per run day, so a restart may
// re-send but a running worker never duplicates.
type ReminderWorker struct {
	bookings repository.BookingRepository
	users    repository.UserRepository
	clinics  repository.ClinicRepository
	email    email.Service
	interval time.Duration
	logger   *logger.Logger
	metrics  *metrics.Metrics

	sentDay string
	sent    map[uuid.UUID]struct{}
}

func NewReminderWorker(
	bookings repository.BookingRepository,
	users repository.UserRepository,
	clinics repository.ClinicRepository,
	emailSvc email.Service,
	interval time.Duration,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ReminderWorker {
	return &ReminderWorker{
		bookings: bookings,
		users:    users,
		clinics:  clinics,
		email:    emailSvc,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
		sent:     make(map[uuid.UUID]struct{}),
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Starting reminder worker")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down reminder worker")
			return
		case <-ticker.C:
			if err := w.run(ctx); err != nil {
				w.logger.Error(err, "Reminder run failed")
			}
		}
	}
}

func (w *ReminderWorker) run(ctx context.Context) error {
	tomorrow := availability.StartOfDay(time.Now()).AddDate(0, 0, 1)
	dayKey := tomorrow.Format("2006-01-02")
	if w.sentDay != dayKey {
		w.sentDay = dayKey
		w.sent = make(map[uuid.UUID]struct{})
	}

	bookings, err := w.bookings.ListActiveForDateRange(ctx, tomorrow, tomorrow.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	for _, booking := range bookings {
		if booking.Status != model.BookingStatusConfirmed {
			continue
		}
		if _, done := w.sent[booking.ID]; done {
			continue
		}
		if err := w.remind(ctx, booking); err != nil {
			w.metrics.RemindersFailed.Inc()
			w.logger.Error(err, "Failed to send reminder", "booking_id", booking.ID.String())
			continue
		}
		w.sent[booking.ID] = struct{}{}
		w.metrics.RemindersSent.Inc()
	}

	return nil
}

func (w *ReminderWorker) remind(ctx context.Context, booking *model.Booking) error {
	owner, err := w.users.Get(ctx, booking.OwnerID)
	if err != nil {
		return err
	}
	clinicName := ""
	if clinic, err := w.clinics.Get(ctx, booking.ClinicID); err == nil {
		clinicName = clinic.Name
	}
	return w.email.SendBookingReminder(ctx, owner.Email, booking, clinicName)
}
