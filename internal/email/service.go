package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/pawhub/vetbook-api/internal/model"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, booking *model.Booking, clinicName string) error
	SendBookingCanceled(ctx context.Context, to string, booking *model.Booking, clinicName string) error
	SendBookingReminder(ctx context.Context, to string, booking *model.Booking, clinicName string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to string, booking *model.Booking, clinicName string) error {
	subject := fmt.Sprintf("Appointment booked at %s", clinicName)
	body := fmt.Sprintf(
		"Your appointment at %s is booked for %s at %s.\r\n\r\nIt will be held until the clinic confirms it.",
		clinicName,
		booking.AppointmentDate.Format("Monday, 2 January 2006"),
		shortTime(booking.StartTime),
	)
	return s.send(ctx, to, subject, body)
}

func (s *smtpService) SendBookingCanceled(ctx context.Context, to string, booking *model.Booking, clinicName string) error {
	subject := fmt.Sprintf("Appointment canceled at %s", clinicName)
	body := fmt.Sprintf(
		"Your appointment at %s on %s at %s has been canceled.",
		clinicName,
		booking.AppointmentDate.Format("Monday, 2 January 2006"),
		shortTime(booking.StartTime),
	)
	return s.send(ctx, to, subject, body)
}

func (s *smtpService) SendBookingReminder(ctx context.Context, to string, booking *model.Booking, clinicName string) error {
	subject := fmt.Sprintf("Reminder: appointment at %s tomorrow", clinicName)
	body := fmt.Sprintf(
		"This is a reminder of your appointment at %s on %s at %s.",
		clinicName,
		booking.AppointmentDate.Format("Monday, 2 January 2006"),
		shortTime(booking.StartTime),
	)
	return s.send(ctx, to, subject, body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// shortTime trims "HH:MM:SS" to "HH:MM" for display.
func shortTime(t string) string {
	if len(t) >= 5 {
		return t[:5]
	}
	return t
}

// NoopService discards all mail; used when SMTP is not configured.
type NoopService struct{}

func (NoopService) SendBookingConfirmation(context.Context, string, *model.Booking, string) error {
	return nil
}

func (NoopService) SendBookingCanceled(context.Context, string, *model.Booking, string) error {
	return nil
}

func (NoopService) SendBookingReminder(context.Context, string, *model.Booking, string) error {
	return nil
}
