package availability

import "time"

// Slot grid parameters. Every bookable unit is a fixed 15-minute granule
// between 08:00 and 18:00 local time; longer services occupy a single
// granule administratively. Changing these breaks compatibility with
// persisted bookings, which are keyed on (clinic, date, start_time).
const (
	DayStartHour = 8
	DayEndHour   = 18
	SlotInterval = 15 * time.Minute
	WindowDays   = 7
)

const (
	dateKeyLayout = "2006-01-02"
)

// TimeRange is a half-open window of local wall-clock time. Start and End
// are "HH:MM" strings; a range with Start >= End matches nothing.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklyHours describes a clinic's recurring hours for one weekday
// (0=Sunday..6=Saturday).
type WeeklyHours struct {
	Weekday    int         `json:"weekday"`
	IsOpen     bool        `json:"is_open"`
	TimeRanges []TimeRange `json:"time_ranges"`
}

// Exception overrides the weekly schedule for a single calendar date.
// If IsClosed is set the whole day yields no slots. Otherwise TimeRanges
// act purely as blackout windows layered on top of the weekly hours;
// they never extend hours beyond the weekly schedule.
type Exception struct {
	Date       string      `json:"date"`
	IsClosed   bool        `json:"is_closed"`
	Reason     string      `json:"reason,omitempty"`
	TimeRanges []TimeRange `json:"time_ranges"`
}

// BookingWindow is the slice of an existing reservation the resolver cares
// about. Start and End are "HH:MM:SS" local time strings.
type BookingWindow struct {
	Date   string `json:"date"`
	Start  string `json:"start_time"`
	End    string `json:"end_time"`
	Status string `json:"status"`
}

// Booking statuses that occupy a slot.
var activeStatuses = map[string]struct{}{
	"pending":    {},
	"confirmed":  {},
	"checked_in": {},
}

// IsActiveStatus reports whether a booking in the given status blocks slots.
func IsActiveStatus(status string) bool {
	_, ok := activeStatuses[status]
	return ok
}

// TimeSlot is one 15-minute bookable granule. Unavailable slots are kept
// in the output so callers can render a dense grid with disabled entries.
type TimeSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// DaySlots holds the ordered slot list for one calendar date.
type DaySlots struct {
	Date  time.Time  `json:"date"`
	Key   string     `json:"key"`
	Slots []TimeSlot `json:"slots"`
}

// ResolveInput carries everything the resolver needs. Now is injected so
// the past-slot cutoff is deterministic under test.
type ResolveInput struct {
	WeeklyHours []WeeklyHours
	Exceptions  []Exception
	Bookings    []BookingWindow
	WindowStart time.Time
	Now         time.Time
}

// DateKey formats t as the canonical "YYYY-MM-DD" key used to correlate
// exceptions and bookings with window days.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
