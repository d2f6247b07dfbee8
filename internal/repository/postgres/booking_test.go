package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pawhub/vetbook-api/internal/model"
)

func TestBookingFilterClausesSingleDayWindow(t *testing.T) {
	clinic := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	clauses, args := bookingFilterClauses(&model.BookingFilters{
		ClinicID: clinic,
		DateFrom: day,
		DateTo:   day.AddDate(0, 0, 1),
	})

	// The upper bound must be exclusive or a day filter for March 2nd
	// would also return bookings dated March 3rd.
	assert.Equal(t, " AND clinic_id = $1 AND appointment_date >= $2 AND appointment_date < $3", clauses)
	assert.Equal(t, []interface{}{clinic, day, day.AddDate(0, 0, 1)}, args)
}

func TestBookingFilterClausesPlaceholderNumbering(t *testing.T) {
	owner := uuid.New()
	pet := uuid.New()

	clauses, args := bookingFilterClauses(&model.BookingFilters{
		OwnerID: owner,
		PetID:   pet,
		Status:  model.BookingStatusConfirmed,
	})

	assert.Equal(t, " AND owner_id = $1 AND pet_id = $2 AND status = $3", clauses)
	assert.Equal(t, []interface{}{owner, pet, model.BookingStatusConfirmed}, args)
}

func TestBookingFilterClausesEmpty(t *testing.T) {
	clauses, args := bookingFilterClauses(&model.BookingFilters{})

	assert.Empty(t, clauses)
	assert.Empty(t, args)
}
