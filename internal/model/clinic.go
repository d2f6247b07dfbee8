package model

type ClinicStatus string

const (
	ClinicStatusActive   ClinicStatus = "active"
	ClinicStatusInactive ClinicStatus = "inactive"
)

type Clinic struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	Address     string `db:"address" json:"address"`
	City        string `db:"city" json:"city"`
	Phone       string `db:"phone" json:"phone"`
	Email       string `db:"email" json:"email"`
	Status      string `db:"status" json:"status"`
}

type CreateClinicRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Address     string `json:"address" binding:"required,max=500"`
	City        string `json:"city" binding:"required,max=100"`
	Phone       string `json:"phone" binding:"required,max=30"`
	Email       string `json:"email" binding:"required,email"`
}

type UpdateClinicRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Status      *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type ClinicFilters struct {
	City   string
	Status string
	Search string
}
