package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeRange is a half-open [start, end) window of local time, "HH:MM".
type TimeRange struct {
	Start string `json:"start" binding:"required,clock"`
	End   string `json:"end" binding:"required,clock"`
}

// TimeRangeList is stored as a JSONB column.
type TimeRangeList []TimeRange

func (l TimeRangeList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *TimeRangeList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for TimeRangeList: %T", src)
	}
	return json.Unmarshal(data, l)
}

// WeeklyHours is one weekday row of a clinic's recurring schedule,
// unique per (clinic_id, weekday). Rows are replaced wholesale when the
// clinic edits its hours; no history is kept.
type WeeklyHours struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	ClinicID   uuid.UUID     `db:"clinic_id" json:"clinic_id"`
	Weekday    int           `db:"weekday" json:"weekday"` // 0=Sunday..6=Saturday
	IsOpen     bool          `db:"is_open" json:"is_open"`
	TimeRanges TimeRangeList `db:"time_ranges" json:"time_ranges"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

// ScheduleException overrides the weekly schedule for one calendar date,
// unique per (clinic_id, date). On a non-closed day TimeRanges are blackout
// windows layered on the weekly hours.
type ScheduleException struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	ClinicID   uuid.UUID     `db:"clinic_id" json:"clinic_id"`
	Date       time.Time     `db:"date" json:"date"`
	IsClosed   bool          `db:"is_closed" json:"is_closed"`
	Reason     string        `db:"reason" json:"reason,omitempty"`
	TimeRanges TimeRangeList `db:"time_ranges" json:"time_ranges"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

type WeeklyHoursInput struct {
	Weekday    int         `json:"weekday" binding:"min=0,max=6"`
	IsOpen     bool        `json:"is_open"`
	TimeRanges []TimeRange `json:"time_ranges" binding:"dive"`
}

// ReplaceWeeklyHoursRequest replaces a clinic's full weekly schedule.
type ReplaceWeeklyHoursRequest struct {
	Days []WeeklyHoursInput `json:"days" binding:"required,max=7,dive"`
}

// UpsertExceptionsRequest expands a [from, to] date range into one
// exception row per calendar day.
type UpsertExceptionsRequest struct {
	From       string      `json:"from" binding:"required,datetime=2006-01-02"`
	To         string      `json:"to" binding:"required,datetime=2006-01-02"`
	IsClosed   bool        `json:"is_closed"`
	Reason     string      `json:"reason" binding:"max=500"`
	TimeRanges []TimeRange `json:"time_ranges" binding:"dive"`
}
