package availability

import (
	"strconv"
	"strings"
	"time"
)

// Resolve computes the bookable slot grid for a 7-day window. The window
// start is clamped so it never precedes the start of the current day. Each
// day yields either zero slots (closed) or the 08:00-18:00 grid restricted
// to the day's open ranges, with per-slot availability. The function is pure: identical inputs produce an
// identical ordered result.
func Resolve(in ResolveInput) []DaySlots {
	start := ClampWindowStart(in.WindowStart, in.Now)

	hoursByWeekday := make(map[int]WeeklyHours, len(in.WeeklyHours))
	for _, wh := range in.WeeklyHours {
		hoursByWeekday[wh.Weekday] = wh
	}

	exceptionsByDate := make(map[string]Exception, len(in.Exceptions))
	for _, ex := range in.Exceptions {
		exceptionsByDate[ex.Date] = ex
	}

	bookingsByDate := make(map[string][]BookingWindow, len(in.Bookings))
	for _, b := range in.Bookings {
		if !IsActiveStatus(b.Status) {
			continue
		}
		bookingsByDate[b.Date] = append(bookingsByDate[b.Date], b)
	}

	days := make([]DaySlots, 0, WindowDays)
	for i := 0; i < WindowDays; i++ {
		day := start.AddDate(0, 0, i)
		key := DateKey(day)
		days = append(days, DaySlots{
			Date:  day,
			Key:   key,
			Slots: resolveDay(day, key, hoursByWeekday, exceptionsByDate[key], bookingsByDate[key], in.Now),
		})
	}
	return days
}

func resolveDay(day time.Time, key string, hours map[int]WeeklyHours, ex Exception, bookings []BookingWindow, now time.Time) []TimeSlot {
	// A fully closed exception wins over weekly hours.
	if ex.Date == key && ex.IsClosed {
		return nil
	}

	wh, ok := hours[int(day.Weekday())]
	if !ok || !wh.IsOpen {
		return nil
	}

	gridStart := time.Date(day.Year(), day.Month(), day.Day(), DayStartHour, 0, 0, 0, day.Location())
	gridEnd := time.Date(day.Year(), day.Month(), day.Day(), DayEndHour, 0, 0, 0, day.Location())

	var blackouts []TimeRange
	if ex.Date == key && !ex.IsClosed {
		blackouts = ex.TimeRanges
	}

	var slots []TimeSlot
	for cursor := gridStart; cursor.Before(gridEnd); cursor = cursor.Add(SlotInterval) {
		slotStart := minuteOfDay(cursor)
		slotEnd := slotStart + int(SlotInterval.Minutes())

		// Candidates outside the weekly hours are never emitted; the dense
		// grid the caller renders covers open hours only.
		if !withinAnyRange(slotStart, slotEnd, wh.TimeRanges) {
			continue
		}

		available := !cursor.Before(now)

		// Exception ranges on a non-closed day are blackout windows on top
		// of the weekly hours, never an extension of them.
		if available {
			for _, r := range blackouts {
				if inRange(slotStart, r) {
					available = false
					break
				}
			}
		}

		if available {
			for _, b := range bookings {
				if overlaps(slotStart, slotEnd, b) {
					available = false
					break
				}
			}
		}

		slots = append(slots, TimeSlot{
			Start:     cursor,
			End:       cursor.Add(SlotInterval),
			Available: available,
		})
	}
	return slots
}

// ClampWindowStart returns the effective window start for a requested one:
// never before the start of the current day.
func ClampWindowStart(requested, now time.Time) time.Time {
	today := StartOfDay(now)
	r := StartOfDay(requested)
	if r.Before(today) {
		return today
	}
	return r
}

// PageWindow moves the current window start by deltaDays. Navigating to a
// start before today is a no-op: the current window is returned unchanged.
func PageWindow(current time.Time, deltaDays int, now time.Time) time.Time {
	candidate := StartOfDay(current).AddDate(0, 0, deltaDays)
	if candidate.Before(StartOfDay(now)) {
		return StartOfDay(current)
	}
	return candidate
}

// withinAnyRange reports whether the whole slot fits inside at least one
// weekly-hours range. Overlapping ranges are not merged; matching any one
// of them is enough.
func withinAnyRange(slotStart, slotEnd int, ranges []TimeRange) bool {
	for _, r := range ranges {
		rs, ok1 := parseMinutes(r.Start)
		re, ok2 := parseMinutes(r.End)
		if !ok1 || !ok2 || rs >= re {
			continue
		}
		if slotStart >= rs && slotEnd <= re {
			return true
		}
	}
	return false
}

// inRange applies the half-open [start, end) rule: a slot starting exactly
// at range end is not blocked, a slot starting at range start is.
func inRange(slotStart int, r TimeRange) bool {
	rs, ok1 := parseMinutes(r.Start)
	re, ok2 := parseMinutes(r.End)
	if !ok1 || !ok2 || rs >= re {
		return false
	}
	return slotStart >= rs && slotStart < re
}

// overlaps applies the half-open interval overlap rule between a slot and
// a stored booking: slotStart < bookingEnd && slotEnd > bookingStart.
// A booking spanning several granules blocks every granule it touches.
func overlaps(slotStart, slotEnd int, b BookingWindow) bool {
	bs, ok1 := parseMinutes(b.Start)
	be, ok2 := parseMinutes(b.End)
	if !ok1 || !ok2 || bs >= be {
		return false
	}
	return slotStart < be && slotEnd > bs
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// parseMinutes accepts "HH:MM" and "HH:MM:SS" local time strings; seconds
// are ignored since the grid has minute resolution.
func parseMinutes(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
