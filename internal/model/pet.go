package model

import (
	"time"

	"github.com/google/uuid"
)

type Pet struct {
	Base
	OwnerID   uuid.UUID  `db:"owner_id" json:"owner_id"`
	Name      string     `db:"name" json:"name"`
	Species   string     `db:"species" json:"species"`
	Breed     string     `db:"breed" json:"breed,omitempty"`
	Sex       string     `db:"sex" json:"sex,omitempty"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	WeightKg  *float64   `db:"weight_kg" json:"weight_kg,omitempty"`
	Notes     string     `db:"notes" json:"notes,omitempty"`
}

type CreatePetRequest struct {
	Name      string     `json:"name" binding:"required,max=100"`
	Species   string     `json:"species" binding:"required,max=50"`
	Breed     string     `json:"breed" binding:"max=100"`
	Sex       string     `json:"sex" binding:"omitempty,oneof=male female unknown"`
	BirthDate *time.Time `json:"birth_date"`
	WeightKg  *float64   `json:"weight_kg" binding:"omitempty,gt=0"`
	Notes     string     `json:"notes" binding:"max=2000"`
}

type UpdatePetRequest struct {
	Name      *string    `json:"name" binding:"omitempty,max=100"`
	Species   *string    `json:"species" binding:"omitempty,max=50"`
	Breed     *string    `json:"breed" binding:"omitempty,max=100"`
	Sex       *string    `json:"sex" binding:"omitempty,oneof=male female unknown"`
	BirthDate *time.Time `json:"birth_date"`
	WeightKg  *float64   `json:"weight_kg" binding:"omitempty,gt=0"`
	Notes     *string    `json:"notes" binding:"omitempty,max=2000"`
}
