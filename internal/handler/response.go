package handler

import (
	"errors"
	"net/http"

	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/internal/service/auth"
	"github.com/pawhub/vetbook-api/internal/service/booking"
	"github.com/pawhub/vetbook-api/internal/service/pet"
	"github.com/pawhub/vetbook-api/internal/service/schedule"
	"github.com/pawhub/vetbook-api/internal/service/staff"
	"github.com/pawhub/vetbook-api/internal/service/treatment"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusForError maps service errors to HTTP status codes. Unrecognized
// errors become 500s.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrSlotTaken):
		return http.StatusConflict
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrAccountLocked):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrNotOwner),
		errors.Is(err, booking.ErrWrongClinic),
		errors.Is(err, booking.ErrPetOwnership),
		errors.Is(err, pet.ErrNotOwner),
		errors.Is(err, staff.ErrNotStaff):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrIllegalTransition),
		errors.Is(err, treatment.ErrNotCheckedIn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrMisalignedSlot),
		errors.Is(err, booking.ErrOutsideHours),
		errors.Is(err, booking.ErrOutsideWindow),
		errors.Is(err, booking.ErrPastSlot),
		errors.Is(err, booking.ErrInactiveService),
		errors.Is(err, schedule.ErrInvalidRange),
		errors.Is(err, schedule.ErrClosedWithRanges),
		errors.Is(err, schedule.ErrDateOrder),
		errors.Is(err, schedule.ErrPastDate),
		errors.Is(err, schedule.ErrDuplicateWeekday):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
