package models

import (
	"maps"
	"time"
)

const (
	DefaultReelsLimit     = 20
	DefaultTimeLimit      = 1800
	DefaultInterval       = 10
	DefaultSecondsPerReel = 10
	DefaultStreakGoal     = 7
	DefaultPin            = "1234"
	DefaultFocusStart     = "22:00"
	DefaultFocusEnd       = "06:00"

	MinInterval = 5
	MaxInterval = 60
)

// Weekdays lists the accepted activeDays values in time.Weekday order.
var Weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

type DayStats struct {
	ReelsWatched int `json:"reelsWatched"`
	TimeSpent    int `json:"timeSpent"`
}

type FocusWindow struct {
	Enabled    bool     `json:"enabled"`
	StartTime  string   `json:"startTime"`
	EndTime    string   `json:"endTime"`
	ActiveDays []string `json:"activeDays"`
}

// ParentalLock only carries the flag; the PIN hash is kept in its own scalar key.
type ParentalLock struct {
	Enabled bool `json:"enabled"`
}

type TrackerState struct {
	ReelsWatched int                 `json:"reelsWatched"`
	TimeSpent    int                 `json:"timeSpent"`
	ReelsLimit   int                 `json:"reelsLimit"`
	TimeLimit    int                 `json:"timeLimit"`
	LastUpdated  time.Time           `json:"lastUpdated"`
	StreakDays   int                 `json:"streakDays"`
	LastStreak   time.Time           `json:"lastStreak"`
	History      map[string]DayStats `json:"history"`
	FocusWindow  FocusWindow         `json:"focusWindow"`
	ParentalLock ParentalLock        `json:"parentalLock"`
}

func DefaultFocusWindow() FocusWindow {
	return FocusWindow{
		Enabled:    false,
		StartTime:  DefaultFocusStart,
		EndTime:    DefaultFocusEnd,
		ActiveDays: append([]string(nil), Weekdays...),
	}
}

// NewTrackerState returns the first-run state. The streak starts at one day.
func NewTrackerState(now time.Time) TrackerState {
	return TrackerState{
		ReelsLimit:  DefaultReelsLimit,
		TimeLimit:   DefaultTimeLimit,
		LastUpdated: now,
		StreakDays:  1,
		LastStreak:  now,
		History:     make(map[string]DayStats),
		FocusWindow: DefaultFocusWindow(),
	}
}

// Clone returns a deep copy so callers can mutate without aliasing history or days.
func (s TrackerState) Clone() TrackerState {
	out := s
	out.History = make(map[string]DayStats, len(s.History))
	maps.Copy(out.History, s.History)
	out.FocusWindow.ActiveDays = append([]string(nil), s.FocusWindow.ActiveDays...)
	return out
}

// Normalize fills fields that an older or partial record left empty.
// It reports whether anything had to be changed.
func (s *TrackerState) Normalize(now time.Time) bool {
	changed := false
	if s.ReelsWatched < 0 {
		s.ReelsWatched = 0
		changed = true
	}
	if s.TimeSpent < 0 {
		s.TimeSpent = 0
		changed = true
	}
	if s.ReelsLimit <= 0 {
		s.ReelsLimit = DefaultReelsLimit
		changed = true
	}
	if s.TimeLimit <= 0 {
		s.TimeLimit = DefaultTimeLimit
		changed = true
	}
	if s.LastUpdated.IsZero() {
		s.LastUpdated = now
		changed = true
	}
	if s.StreakDays < 0 {
		s.StreakDays = 0
		changed = true
	}
	if s.LastStreak.IsZero() {
		s.LastStreak = s.LastUpdated
		changed = true
	}
	if s.History == nil {
		s.History = make(map[string]DayStats)
		changed = true
	}
	if s.FocusWindow.StartTime == "" {
		s.FocusWindow.StartTime = DefaultFocusStart
		changed = true
	}
	if s.FocusWindow.EndTime == "" {
		s.FocusWindow.EndTime = DefaultFocusEnd
		changed = true
	}
	if s.FocusWindow.ActiveDays == nil {
		s.FocusWindow.ActiveDays = append([]string(nil), Weekdays...)
		changed = true
	}
	return changed
}
