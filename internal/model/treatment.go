package model

import (
	"time"

	"github.com/google/uuid"
)

// TreatmentRecord documents the outcome of a checked-in booking. Creating
// one completes the booking.
type TreatmentRecord struct {
	Base
	BookingID     uuid.UUID `db:"booking_id" json:"booking_id"`
	PetID         uuid.UUID `db:"pet_id" json:"pet_id"`
	ClinicID      uuid.UUID `db:"clinic_id" json:"clinic_id"`
	VetName       string    `db:"vet_name" json:"vet_name"`
	Diagnosis     string    `db:"diagnosis" json:"diagnosis"`
	Treatment     string    `db:"treatment" json:"treatment"`
	Prescriptions string    `db:"prescriptions" json:"prescriptions,omitempty"`
	CompletedAt   time.Time `db:"completed_at" json:"completed_at"`
}

type CreateTreatmentRequest struct {
	BookingID     uuid.UUID `json:"booking_id" binding:"required"`
	VetName       string    `json:"vet_name" binding:"required,max=200"`
	Diagnosis     string    `json:"diagnosis" binding:"required,max=4000"`
	Treatment     string    `json:"treatment" binding:"required,max=4000"`
	Prescriptions string    `json:"prescriptions" binding:"max=4000"`
}
