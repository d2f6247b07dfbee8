package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextWeekday returns the first occurrence of w strictly after base.
func nextWeekday(base time.Time, w time.Weekday) time.Time {
	d := StartOfDay(base).AddDate(0, 0, 1)
	for d.Weekday() != w {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func slotAt(t *testing.T, slots []TimeSlot, hhmm string) TimeSlot {
	t.Helper()
	for _, s := range slots {
		if s.Start.Format("15:04") == hhmm {
			return s
		}
	}
	t.Fatalf("no slot starting at %s", hhmm)
	return TimeSlot{}
}

func TestResolveClosedWeekday(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: false},
		},
		WindowStart: monday,
		Now:         now,
	})

	require.Len(t, days, WindowDays)
	assert.Empty(t, days[0].Slots, "closed weekday must yield no slots")
}

func TestResolveMissingWeekdayRow(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	days := Resolve(ResolveInput{
		WindowStart: monday,
		Now:         now,
	})

	for _, d := range days {
		assert.Empty(t, d.Slots, "no weekly hours row behaves like is_open=false")
	}
}

func TestResolveClosedException(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{{Start: "09:00", End: "17:00"}}},
		},
		Exceptions: []Exception{
			{Date: DateKey(monday), IsClosed: true, Reason: "holiday"},
		},
		WindowStart: monday,
		Now:         now,
	})

	assert.Empty(t, days[0].Slots, "closed exception overrides weekly hours")
}

func TestResolveOpenMondayGrid(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{{Start: "09:00", End: "17:00"}}},
		},
		WindowStart: monday,
		Now:         now,
	})

	slots := days[0].Slots
	require.Len(t, slots, 32, "8 open hours x 4 slots per hour")
	for i, s := range slots {
		assert.True(t, s.Available, "slot %d should be available", i)
		assert.Equal(t, SlotInterval, s.End.Sub(s.Start))
		if i > 0 {
			assert.True(t, slots[i-1].Start.Before(s.Start), "slots must be start-ascending")
		}
	}
	assert.Equal(t, "09:00", slots[0].Start.Format("15:04"))
	assert.Equal(t, "16:45", slots[31].Start.Format("15:04"))
}

func TestResolvePastSlotsUnavailable(t *testing.T) {
	// Now is mid-morning on the window's first day: the grid up to and
	// including the current partial granule must be unavailable.
	now := time.Date(2026, 3, 2, 10, 7, 0, 0, time.Local) // a Monday
	require.Equal(t, time.Monday, now.Weekday())

	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{{Start: "09:00", End: "17:00"}}},
		},
		WindowStart: StartOfDay(now),
		Now:         now,
	})

	slots := days[0].Slots
	require.Len(t, slots, 32)
	for _, s := range slots {
		if s.Start.Before(now) {
			assert.False(t, s.Available, "past slot %s offered", s.Start.Format("15:04"))
		} else {
			assert.True(t, s.Available)
		}
	}
	assert.False(t, slotAt(t, slots, "10:00").Available, "current partial granule is never offered")
	assert.True(t, slotAt(t, slots, "10:15").Available)
}

func TestResolveBlackoutException(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{{Start: "09:00", End: "17:00"}}},
		},
		Exceptions: []Exception{
			{Date: DateKey(monday), IsClosed: false, TimeRanges: []TimeRange{{Start: "12:00", End: "13:00"}}},
		},
		WindowStart: monday,
		Now:         now,
	})

	slots := days[0].Slots
	require.Len(t, slots, 32)
	blocked := map[string]bool{"12:00": true, "12:15": true, "12:30": true, "12:45": true}
	for _, s := range slots {
		key := s.Start.Format("15:04")
		assert.Equal(t, !blocked[key], s.Available, "slot %s", key)
	}

	// Half-open boundary: a slot starting exactly at range end is free,
	// one starting at range start is blocked.
	assert.True(t, slotAt(t, slots, "13:00").Available)
	assert.False(t, slotAt(t, slots, "12:00").Available)
}

func TestResolveBlackoutNeverExtendsHours(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	// An exception range outside weekly hours must not create slots there.
	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{{Start: "09:00", End: "12:00"}}},
		},
		Exceptions: []Exception{
			{Date: DateKey(monday), IsClosed: false, TimeRanges: []TimeRange{{Start: "14:00", End: "16:00"}}},
		},
		WindowStart: monday,
		Now:         now,
	})

	slots := days[0].Slots
	require.Len(t, slots, 12)
	assert.Equal(t, "11:45", slots[len(slots)-1].Start.Format("15:04"))
}

func TestResolveBookingOverlap(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{{Start: "09:00", End: "17:00"}}},
		},
		Bookings: []BookingWindow{
			{Date: DateKey(monday), Start: "10:00:00", End: "10:15:00", Status: "confirmed"},
		},
		WindowStart: monday,
		Now:         now,
	})

	slots := days[0].Slots
	assert.False(t, slotAt(t, slots, "10:00").Available)
	// Adjacent, not overlapping: 09:45-10:00 touches 10:00-10:15 only at
	// the shared boundary.
	assert.True(t, slotAt(t, slots, "09:45").Available)
	assert.True(t, slotAt(t, slots, "10:15").Available)
}

func TestResolveMultiGranuleBookingBlocksAll(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{{Start: "09:00", End: "17:00"}}},
		},
		Bookings: []BookingWindow{
			{Date: DateKey(monday), Start: "10:00:00", End: "10:50:00", Status: "pending"},
		},
		WindowStart: monday,
		Now:         now,
	})

	slots := days[0].Slots
	for _, key := range []string{"10:00", "10:15", "10:30", "10:45"} {
		assert.False(t, slotAt(t, slots, key).Available, "slot %s", key)
	}
	assert.True(t, slotAt(t, slots, "11:00").Available)
}

func TestResolveInactiveStatusesIgnored(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	for _, status := range []string{"completed", "no_show", "declined", "canceled"} {
		days := Resolve(ResolveInput{
			WeeklyHours: []WeeklyHours{
				{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{{Start: "09:00", End: "17:00"}}},
			},
			Bookings: []BookingWindow{
				{Date: DateKey(monday), Start: "10:00:00", End: "10:15:00", Status: status},
			},
			WindowStart: monday,
			Now:         now,
		})
		assert.True(t, slotAt(t, days[0].Slots, "10:00").Available, "status %s must not block", status)
	}
}

func TestResolveOverlappingRangesNotMerged(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{
				{Start: "09:00", End: "12:00"},
				{Start: "11:00", End: "13:00"},
			}},
		},
		WindowStart: monday,
		Now:         now,
	})

	// 09:00-13:00 continuous, no duplicate slots for the overlap.
	slots := days[0].Slots
	require.Len(t, slots, 16)
	seen := map[string]bool{}
	for _, s := range slots {
		key := s.Start.Format("15:04")
		assert.False(t, seen[key], "duplicate slot %s", key)
		seen[key] = true
	}
}

func TestResolveDegenerateRangeMatchesNothing(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{{Start: "17:00", End: "09:00"}}},
		},
		WindowStart: monday,
		Now:         now,
	})

	assert.Empty(t, days[0].Slots, "start >= end matches nothing")
}

func TestResolveOpenDayWithNoRanges(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	monday := nextWeekday(now, time.Monday)

	days := Resolve(ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true},
		},
		WindowStart: monday,
		Now:         now,
	})

	assert.Empty(t, days[0].Slots, "open day with zero ranges is degenerate but legal")
}

func TestResolveIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	in := ResolveInput{
		WeeklyHours: []WeeklyHours{
			{Weekday: int(time.Monday), IsOpen: true, TimeRanges: []TimeRange{{Start: "09:00", End: "17:00"}}},
			{Weekday: int(time.Wednesday), IsOpen: true, TimeRanges: []TimeRange{{Start: "08:00", End: "12:00"}}},
		},
		Exceptions: []Exception{
			{Date: DateKey(nextWeekday(now, time.Monday)), IsClosed: false, TimeRanges: []TimeRange{{Start: "10:00", End: "11:00"}}},
		},
		Bookings: []BookingWindow{
			{Date: DateKey(nextWeekday(now, time.Wednesday)), Start: "09:00:00", End: "09:15:00", Status: "checked_in"},
		},
		WindowStart: StartOfDay(now),
		Now:         now,
	}

	assert.Equal(t, Resolve(in), Resolve(in))
}

func TestResolveClampsWindowToToday(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local)

	days := Resolve(ResolveInput{
		WindowStart: StartOfDay(now).AddDate(0, 0, -14),
		Now:         now,
	})

	require.Len(t, days, WindowDays)
	assert.Equal(t, StartOfDay(now), days[0].Date)
}

func TestPageWindow(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local)
	today := StartOfDay(now)

	next := PageWindow(today, WindowDays, now)
	assert.Equal(t, today.AddDate(0, 0, 7), next)

	back := PageWindow(next, -WindowDays, now)
	assert.Equal(t, today, back)

	// Paging before today is a no-op: the window does not change.
	assert.Equal(t, today, PageWindow(today, -WindowDays, now))
}

func TestIsActiveStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "checked_in"} {
		assert.True(t, IsActiveStatus(s), s)
	}
	for _, s := range []string{"completed", "no_show", "declined", "canceled", ""} {
		assert.False(t, IsActiveStatus(s), s)
	}
}
