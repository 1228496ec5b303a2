package util

import "time"

// ClockLayout is the HH:MM:SS form used for cycle timestamps.
const ClockLayout = "15:04:05"

// FormatClock renders t as HH:MM:SS in its own location.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// UnixMilli returns t as milliseconds since the epoch, as a string.
func UnixMilli(t time.Time) string {
	return formatInt(t.UnixMilli())
}
