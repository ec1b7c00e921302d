package usecase

import (
	"fmt"
	"time"
)

// reportWindowDays is the fixed length of the completion-rate window.
const reportWindowDays = 7

// PastWeekDates returns the 7 calendar dates ending at (and including) the
// reference date, oldest first. Each entry is midnight of its day in the
// reference date's location. The window trails the reference by calendar
// subtraction; it is not aligned to a Sunday week boundary.
func PastWeekDates(reference time.Time) []time.Time {
	day := startOfDay(reference)
	dates := make([]time.Time, 0, reportWindowDays)
	for i := reportWindowDays - 1; i >= 0; i-- {
		dates = append(dates, day.AddDate(0, 0, -i))
	}
	return dates
}

// DayBounds returns the inclusive start and end instants of the calendar
// day containing t: 00:00:00.000 through 23:59:59.999 local time.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := startOfDay(t)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DateKey renders t in the YYYY-MM-DD form used by completed_dates.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DisplayDate renders t as M/D for chart axis labels.
func DisplayDate(t time.Time) string {
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}
