package tracker

import "reelsd/internal/models"

const (
	DefaultReportDays = 7
	MaxReportDays     = 90
)

// ClampReportDays maps a requested window onto [1, MaxReportDays]; zero or
// less selects the default week.
func ClampReportDays(days int) int {
	if days <= 0 {
		return DefaultReportDays
	}
	return min(days, MaxReportDays)
}

// Report summarizes the last days calendar days ending today. Days without
// history count as zero.
func (s *Service) Report(days int) models.Report {
	days = ClampReportDays(days)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.reconcileLocked(now)

	report := models.Report{
		Days:       make([]models.ReportDay, 0, days),
		StreakDays: s.state.StreakDays,
		StreakGoal: s.prefs.StreakGoal,
	}
	for i := days - 1; i >= 0; i-- {
		date := DateKey(now.AddDate(0, 0, -i))
		stats := s.state.History[date]
		report.Days = append(report.Days, models.ReportDay{Date: date, DayStats: stats})
		report.TotalReels += stats.ReelsWatched
		report.TotalTime += stats.TimeSpent
	}
	report.AverageReels = float64(report.TotalReels) / float64(days)
	report.AverageTime = float64(report.TotalTime) / float64(days)
	if report.StreakGoal > 0 {
		report.GoalProgress = min(float64(report.StreakDays)/float64(report.StreakGoal), 1)
	}
	return report
}
