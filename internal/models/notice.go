package models

import (
	"time"

	"github.com/google/uuid"
)

type NoticeKind string

const (
	NoticeTrackingStarted NoticeKind = "tracking_started"
	NoticeTrackingStopped NoticeKind = "tracking_stopped"
	NoticeTrackingResumed NoticeKind = "tracking_resumed"
	NoticeIntervalChanged NoticeKind = "interval_changed"
	NoticeDailyReset      NoticeKind = "daily_reset"
	NoticeStreakGoal      NoticeKind = "streak_goal"
	NoticeReelsLimit      NoticeKind = "reels_limit"
	NoticeTimeLimit       NoticeKind = "time_limit"
	NoticeFocusBlocked    NoticeKind = "focus_blocked"
	NoticeFocusChanged    NoticeKind = "focus_changed"
	NoticePinMismatch     NoticeKind = "pin_mismatch"
	NoticeLockChanged     NoticeKind = "lock_changed"
	NoticeSettingsSaved   NoticeKind = "settings_saved"
	NoticeTodayReset      NoticeKind = "today_reset"
	NoticeDataReset       NoticeKind = "data_reset"
)

type Severity string

const (
	SeverityNormal      Severity = "normal"
	SeverityDestructive Severity = "destructive"
)

type Notice struct {
	ID          string     `json:"id"`
	Kind        NoticeKind `json:"kind"`
	Severity    Severity   `json:"severity"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Vibrate     bool       `json:"vibrate,omitempty"`
	Streak      int        `json:"streak,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

func NewNotice(kind NoticeKind, severity Severity, title, description string, now time.Time) Notice {
	return Notice{
		ID:          uuid.NewString(),
		Kind:        kind,
		Severity:    severity,
		Title:       title,
		Description: description,
		Timestamp:   now,
	}
}
