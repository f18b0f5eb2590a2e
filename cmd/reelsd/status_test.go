package main

import (
	"reelsd/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderStatus(t *testing.T) {
	state := models.NewTrackerState(time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC))
	state.ReelsWatched = 21
	state.TimeSpent = 210
	state.StreakDays = 3
	state.FocusWindow.Enabled = true

	out := renderStatus(models.Snapshot{
		State:       state,
		Timer:       models.TimerPreferences{TrackingEnabled: true, IntervalSeconds: 15},
		Preferences: models.DefaultPreferences(),
	}, true)

	assert.Contains(t, out, "21 / 20")
	assert.Contains(t, out, "3m / 30m")
	assert.Contains(t, out, "3 / 7 days")
	assert.Contains(t, out, "every 15s")
	assert.Contains(t, out, "22:00-06:00 (active)")
}

func TestRenderStatus_Idle(t *testing.T) {
	state := models.NewTrackerState(time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC))

	out := renderStatus(models.Snapshot{State: state, Timer: models.DefaultTimerPreferences(), Preferences: models.DefaultPreferences()}, false)

	assert.Contains(t, out, "0 / 20")
	assert.NotContains(t, out, "every")
}
