// Package dutchdate formats timestamps the way the Dutch UI and notifications
// expect, without relying on system locale data.
package dutchdate

import (
	"fmt"
	"time"

	"parceltrack/internal/features/tracking/domain"
)

var months = []string{"jan", "feb", "mrt", "apr", "mei", "jun", "jul", "aug", "sep", "okt", "nov", "dec"}

var weekdays = map[time.Weekday]string{
	time.Monday:    "maandag",
	time.Tuesday:   "dinsdag",
	time.Wednesday: "woensdag",
	time.Thursday:  "donderdag",
	time.Friday:    "vrijdag",
	time.Saturday:  "zaterdag",
	time.Sunday:    "zondag",
}

// Format renders a carrier timestamp as "08 okt, 15.45u". Unparseable input
// is returned verbatim so a broken carrier date never hides an event.
func Format(value string) string {
	t := domain.ParseTimestamp(value)
	if t.IsZero() {
		return value
	}
	return FormatTime(t)
}

// FormatTime renders a time as "08 okt, 15.45u".
func FormatTime(t time.Time) string {
	return fmt.Sprintf("%02d %s, %02d.%02du", t.Day(), months[t.Month()-1], t.Hour(), t.Minute())
}

// FormatRange renders a delivery window as "9 okt, 10u - 14u", adding minutes
// only when they are non-zero ("9 okt, 10u30 - 14u"). Falls back to
// "start - end" when either side does not parse.
func FormatRange(start, end string) string {
	startTime := domain.ParseTimestamp(start)
	endTime := domain.ParseTimestamp(end)
	if startTime.IsZero() || endTime.IsZero() {
		return start + " - " + end
	}

	return fmt.Sprintf("%d %s, %s - %s",
		startTime.Day(), months[startTime.Month()-1],
		formatHour(startTime), formatHour(endTime))
}

// FormatDay renders a date as "donderdag 9 okt".
func FormatDay(value string) string {
	t := domain.ParseTimestamp(value)
	if t.IsZero() {
		return value
	}
	return fmt.Sprintf("%s %d %s", weekdays[t.Weekday()], t.Day(), months[t.Month()-1])
}

// FormatClock renders only the time of day, "10:00".
func FormatClock(value string) string {
	t := domain.ParseTimestamp(value)
	if t.IsZero() {
		return value
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func formatHour(t time.Time) string {
	if t.Minute() == 0 {
		return fmt.Sprintf("%du", t.Hour())
	}
	return fmt.Sprintf("%du%02d", t.Hour(), t.Minute())
}
