package models

type ReportDay struct {
	Date string `json:"date"`
	DayStats
}

type Report struct {
	Days         []ReportDay `json:"days"`
	TotalReels   int         `json:"totalReels"`
	TotalTime    int         `json:"totalTime"`
	AverageReels float64     `json:"averageReels"`
	AverageTime  float64     `json:"averageTime"`
	StreakDays   int         `json:"streakDays"`
	StreakGoal   int         `json:"streakGoal"`
	GoalProgress float64     `json:"goalProgress"`
}

// Snapshot is the exported form of everything the daemon persists.
type Snapshot struct {
	State       TrackerState     `json:"state"`
	Timer       TimerPreferences `json:"timer"`
	Preferences Preferences      `json:"preferences"`
}
