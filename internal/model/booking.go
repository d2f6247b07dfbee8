package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusNoShow    BookingStatus = "no_show"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusCanceled  BookingStatus = "canceled"
)

// IsActive reports whether a booking in this status occupies its slot for
// availability purposes.
func (s BookingStatus) IsActive() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn:
		return true
	}
	return false
}

// legal status transitions, driven by clinic staff or treatment completion
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusDeclined, BookingStatusCanceled},
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusNoShow, BookingStatusCanceled},
	BookingStatusCheckedIn: {BookingStatusCompleted},
}

// CanTransition reports whether moving from s to next is legal. Terminal
// statuses (completed, no_show, declined, canceled) allow no transitions.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a reserved appointment slot. AppointmentDate is the local
// calendar day; StartTime and EndTime are local "HH:MM:SS" strings. The
// storage layer enforces uniqueness on (clinic_id, appointment_date,
// start_time); bookings are never hard-deleted, cancel is a transition.
type Booking struct {
	Base
	ClinicID        uuid.UUID     `db:"clinic_id" json:"clinic_id"`
	OwnerID         uuid.UUID     `db:"owner_id" json:"owner_id"`
	PetID           uuid.UUID     `db:"pet_id" json:"pet_id"`
	ServiceID       uuid.UUID     `db:"service_id" json:"service_id"`
	AppointmentDate time.Time     `db:"appointment_date" json:"appointment_date"`
	StartTime       string        `db:"start_time" json:"start_time"`
	EndTime         string        `db:"end_time" json:"end_time"`
	Status          BookingStatus `db:"status" json:"status"`
	Notes           string        `db:"notes" json:"notes,omitempty"`
	CancelReason    *string       `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateBookingRequest struct {
	ClinicID  uuid.UUID `json:"clinic_id" binding:"required"`
	PetID     uuid.UUID `json:"pet_id" binding:"required"`
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	Date      string    `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string    `json:"start_time" binding:"required"`
	Notes     string    `json:"notes" binding:"max=2000"`
}

type BookingFilters struct {
	ClinicID uuid.UUID
	OwnerID  uuid.UUID
	PetID    uuid.UUID
	Status   BookingStatus
	DateFrom time.Time
	DateTo   time.Time
}
