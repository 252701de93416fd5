package tracker

import "time"

// Windows holds the canonical window starts for one reference instant.
// MonthStart is always anchored to local midnight of the 1st; DayStart is
// the logical day boundary at the configured reset hour.
type Windows struct {
	MonthStart int64
	DayStart   int64
	DateKey    string
}

const dateKeyLayout = "2006-01-02"

// ClampResetHour bounds a requested reset hour to [0,23].
func ClampResetHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > 23 {
		return 23
	}
	return h
}

// ComputeWindows converts a wall-clock instant into the month window, the
// logical day window and the day's change-detection key. A reference
// instant before resetHour belongs to the previous logical day. Pure.
func ComputeWindows(ref time.Time, resetHour int, loc *time.Location) Windows {
	resetHour = ClampResetHour(resetHour)
	ref = ref.In(loc)

	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)

	dayStart := time.Date(ref.Year(), ref.Month(), ref.Day(), resetHour, 0, 0, 0, loc)
	if ref.Before(dayStart) {
		dayStart = dayStart.AddDate(0, 0, -1)
	}

	return Windows{
		MonthStart: monthStart.Unix(),
		DayStart:   dayStart.Unix(),
		DateKey:    dayStart.Format(dateKeyLayout),
	}
}
