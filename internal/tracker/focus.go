package tracker

import (
	"fmt"
	"reelsd/internal/models"
	"slices"
	"strings"
	"time"
)

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func weekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// IsBlocked reports whether now falls inside the focus window. Both ends are
// inclusive and a start later than the end wraps past midnight. Only the
// weekday of now is checked, also for the part of a window after midnight.
func IsBlocked(w models.FocusWindow, now time.Time) bool {
	if !w.Enabled {
		return false
	}
	day := weekdayName(now)
	if !slices.ContainsFunc(w.ActiveDays, func(d string) bool { return strings.EqualFold(d, day) }) {
		return false
	}

	startMin, err := ParseClock(w.StartTime)
	if err != nil {
		return false
	}
	endMin, err := ParseClock(w.EndTime)
	if err != nil {
		return false
	}
	nowMin := now.Hour()*60 + now.Minute()

	if startMin > endMin {
		return nowMin >= startMin || nowMin <= endMin
	}
	return nowMin >= startMin && nowMin <= endMin
}
