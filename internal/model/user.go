package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleOwner UserRole = "owner"
	UserRoleStaff UserRole = "staff"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusLocked   UserStatus = "locked"
)

// User is a pet owner or a clinic staff member. Staff users belong to a
// clinic; owners do not.
type User struct {
	Base
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Name             string     `db:"name" json:"name"`
	Phone            string     `db:"phone" json:"phone,omitempty"`
	Role             UserRole   `db:"role" json:"role"`
	ClinicID         *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	Status           UserStatus `db:"status" json:"status"`
	LoginAttempts    int        `db:"login_attempts" json:"-"`
	LastLoginAttempt time.Time  `db:"last_login_attempt" json:"-"`
	LastLoginAt      *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

type CreateStaffRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,max=200"`
	Phone    string `json:"phone" binding:"max=30"`
}

type UserFilters struct {
	Role     UserRole
	ClinicID uuid.UUID
	Status   UserStatus
}
