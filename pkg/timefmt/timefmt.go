// Package timefmt derives display strings from message timestamps.
// Both helpers are pure functions of (timestamp, now) and are recomputed
// on every read; nothing here is ever persisted.
package timefmt

import (
	"fmt"
	"time"
)

// TimeAgo returns a relative-time bucket for ts as seen from now:
// "N second(s)/minute(s)/hour(s)/day(s) ago".
func TimeAgo(ts, now time.Time) string {
	diff := now.Sub(ts)
	if diff < 0 {
		diff = 0
	}

	seconds := int(diff.Seconds())
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	case minutes > 0:
		return plural(minutes, "minute")
	default:
		return plural(seconds, "second")
	}
}

// DateBucket returns the calendar-day divider label for ts as seen from
// now: "Today", "Yesterday", a weekday name within the previous six
// days, otherwise the full date ("January 2, 2006").
func DateBucket(ts, now time.Time) string {
	tsDay := startOfDay(ts.In(now.Location()))
	today := startOfDay(now)

	switch days := int(today.Sub(tsDay).Hours() / 24); {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return tsDay.Weekday().String()
	default:
		return tsDay.Format("January 2, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
