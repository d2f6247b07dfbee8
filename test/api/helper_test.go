package api_test

import (
	"fmt"
	"testing"
	"time"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano())
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano())
}

// nextBookableDate returns tomorrow, the first date where every
// in-hours slot is bookable regardless of the current wall-clock time.
func nextBookableDate() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

// farFuture returns a date well past the 7-day booking window.
func farFuture() string {
	return time.Now().AddDate(0, 0, 30).Format("2006-01-02")
}

func createTestPet(t *testing.T) string {
	t.Helper()

	resp := makeRequest("POST", "/pets", map[string]interface{}{
		"name":    uniqueName("Rex"),
		"species": "dog",
		"breed":   "beagle",
		"sex":     "male",
	}, ownerToken)
	if !resp.IsSuccess() {
		t.Fatalf("Failed to create test pet: %s", resp.Message)
	}
	return resp.GetString("id")
}

func createTestService(t *testing.T) string {
	t.Helper()

	resp := makeRequest("POST", "/clinic/services", map[string]interface{}{
		"name":        uniqueName("Checkup"),
		"description": "General health check",
		"duration":    15,
		"price":       40,
	}, staffToken)
	if !resp.IsSuccess() {
		t.Fatalf("Failed to create test service: %s", resp.Message)
	}
	return resp.GetString("id")
}

// openAllWeek replaces the clinic's weekly hours with a full-week
// schedule so any slot inside opening hours is bookable.
func openAllWeek(t *testing.T) {
	t.Helper()

	days := make([]map[string]interface{}, 0, 7)
	for weekday := 0; weekday < 7; weekday++ {
		days = append(days, map[string]interface{}{
			"weekday": weekday,
			"is_open": true,
			"time_ranges": []map[string]string{
				{"start": "08:00", "end": "18:00"},
			},
		})
	}

	resp := makeRequest("PUT", "/clinic/schedule/hours", map[string]interface{}{
		"days": days,
	}, staffToken)
	if !resp.IsSuccess() {
		t.Fatalf("Failed to set weekly hours: %s", resp.Message)
	}
}
