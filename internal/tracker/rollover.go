package tracker

import (
	"reelsd/internal/models"
	"time"
)

const DateLayout = "2006-01-02"

// DateKey is the history key for the calendar date of t in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// bucketKey is the calendar date of the current day bucket as seen from now.
func bucketKey(state models.TrackerState, now time.Time) string {
	return DateKey(state.LastUpdated.In(now.Location()))
}

// Reconcile moves the state into today's bucket when the calendar date has
// advanced since the last update. It never mutates its argument and reports
// whether a rollover happened. A clock that moved backwards leaves the state
// untouched.
func Reconcile(state models.TrackerState, now time.Time) (models.TrackerState, bool) {
	last := bucketKey(state, now)
	today := DateKey(now)
	if today <= last {
		return state, false
	}

	next := state.Clone()
	next.History[last] = models.DayStats{ReelsWatched: state.ReelsWatched, TimeSpent: state.TimeSpent}

	yesterday := DateKey(now.AddDate(0, 0, -1))
	if DateKey(state.LastStreak.In(now.Location())) == yesterday {
		next.StreakDays = state.StreakDays + 1
	} else {
		next.StreakDays = 1
	}

	next.ReelsWatched = 0
	next.TimeSpent = 0
	next.LastUpdated = now
	next.LastStreak = now
	next.History[today] = models.DayStats{}
	return next, true
}
