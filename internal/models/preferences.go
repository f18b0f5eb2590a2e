package models

type TimerPreferences struct {
	TrackingEnabled bool `json:"trackingEnabled"`
	IntervalSeconds int  `json:"intervalSeconds"`
}

type Preferences struct {
	AlertsEnabled    bool `json:"alertsEnabled"`
	VibrationEnabled bool `json:"vibrationEnabled"`
	StreakGoal       int  `json:"streakGoal"`
}

func DefaultTimerPreferences() TimerPreferences {
	return TimerPreferences{IntervalSeconds: DefaultInterval}
}

func DefaultPreferences() Preferences {
	return Preferences{
		AlertsEnabled:    true,
		VibrationEnabled: true,
		StreakGoal:       DefaultStreakGoal,
	}
}

// ClampInterval pulls an out of range interval back into [MinInterval, MaxInterval].
func ClampInterval(seconds int) int {
	return min(max(seconds, MinInterval), MaxInterval)
}
