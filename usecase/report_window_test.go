package usecase

import (
	"testing"
	"time"
)

func TestPastWeekDates(t *testing.T) {
	reference := time.Date(2025, 3, 15, 14, 30, 45, 0, time.Local)

	dates := PastWeekDates(reference)

	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}

	// Window ends at the reference date.
	last := dates[6]
	if last.Year() != 2025 || last.Month() != time.March || last.Day() != 15 {
		t.Errorf("expected window to end on 2025-03-15, got %s", DateKey(last))
	}

	// Strictly increasing, consecutive days, all at midnight.
	for i, date := range dates {
		if date.Hour() != 0 || date.Minute() != 0 || date.Second() != 0 || date.Nanosecond() != 0 {
			t.Errorf("date %d is not midnight: %s", i, date)
		}
		if i > 0 {
			prev := dates[i-1]
			if !date.After(prev) {
				t.Errorf("dates not strictly increasing at %d: %s then %s", i, prev, date)
			}
			if date.Sub(prev) != 24*time.Hour {
				t.Errorf("dates not consecutive at %d: gap %s", i, date.Sub(prev))
			}
		}
	}
}

func TestPastWeekDatesCrossesMonthBoundary(t *testing.T) {
	reference := time.Date(2025, 3, 2, 9, 0, 0, 0, time.Local)

	dates := PastWeekDates(reference)

	if got := DateKey(dates[0]); got != "2025-02-24" {
		t.Errorf("expected window to start on 2025-02-24, got %s", got)
	}
	if got := DateKey(dates[6]); got != "2025-03-02" {
		t.Errorf("expected window to end on 2025-03-02, got %s", got)
	}
}

func TestDayBounds(t *testing.T) {
	noon := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

	start, end := DayBounds(noon)

	if got := start.Format("15:04:05.000"); got != "00:00:00.000" {
		t.Errorf("expected start of day at midnight, got %s", got)
	}
	if got := end.Format("15:04:05.000"); got != "23:59:59.999" {
		t.Errorf("expected end of day at 23:59:59.999, got %s", got)
	}
	if start.Day() != 10 || end.Day() != 10 {
		t.Errorf("bounds left the calendar day: %s .. %s", start, end)
	}
}

func TestDisplayDate(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, 3, 5, 0, 0, 0, 0, time.Local), "3/5"},
		{time.Date(2025, 11, 28, 0, 0, 0, 0, time.Local), "11/28"},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), "1/1"},
	}

	for _, tc := range cases {
		if got := DisplayDate(tc.date); got != tc.want {
			t.Errorf("DisplayDate(%s) = %q, want %q", DateKey(tc.date), got, tc.want)
		}
	}
}
