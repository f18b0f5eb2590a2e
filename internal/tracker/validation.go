package tracker

import (
	"fmt"
	"reelsd/internal/models"
	"slices"
	"strings"

	"github.com/gookit/validate"
)

const (
	minPinLength = 4
	maxPinLength = 6
)

type Settings struct {
	ReelsLimit       int  `json:"reelsLimit" validate:"required|int|min:5|max:100"`
	TimeLimit        int  `json:"timeLimit" validate:"required|int|min:300|max:7200"`
	StreakGoal       int  `json:"streakGoal" validate:"required|int|min:1|max:30"`
	AlertsEnabled    bool `json:"alertsEnabled"`
	VibrationEnabled bool `json:"vibrationEnabled"`
}

func (s *Settings) Validate() error {
	v := validate.Struct(s)
	if v.Validate() {
		return nil
	}
	for _, f := range settingsFields {
		if msg := v.Errors.FieldOne(f.name); msg != "" {
			return &ValidationError{Field: f.json, Message: msg}
		}
		if msg := v.Errors.FieldOne(f.json); msg != "" {
			return &ValidationError{Field: f.json, Message: msg}
		}
	}
	return &ValidationError{Message: v.Errors.One()}
}

// settingsFields is the order in which invalid settings are reported.
var settingsFields = []struct{ name, json string }{
	{"ReelsLimit", "reelsLimit"},
	{"TimeLimit", "timeLimit"},
	{"StreakGoal", "streakGoal"},
}

// ValidateFocusWindow checks times and day names and returns the window with
// day names lower-cased, de-duplicated and in week order.
func ValidateFocusWindow(w models.FocusWindow) (models.FocusWindow, error) {
	if _, err := ParseClock(w.StartTime); err != nil {
		return w, &ValidationError{Field: "startTime", Message: err.Error()}
	}
	if _, err := ParseClock(w.EndTime); err != nil {
		return w, &ValidationError{Field: "endTime", Message: err.Error()}
	}

	days := make([]string, 0, len(w.ActiveDays))
	for _, d := range w.ActiveDays {
		d = strings.ToLower(strings.TrimSpace(d))
		if !slices.Contains(models.Weekdays, d) {
			return w, &ValidationError{Field: "activeDays", Message: fmt.Sprintf("unknown day %q", d)}
		}
		if !slices.Contains(days, d) {
			days = append(days, d)
		}
	}
	if w.Enabled && len(days) == 0 {
		return w, &ValidationError{Field: "activeDays", Message: "select at least one day"}
	}
	slices.SortFunc(days, func(a, b string) int {
		return slices.Index(models.Weekdays, a) - slices.Index(models.Weekdays, b)
	})

	out := w
	out.ActiveDays = days
	return out, nil
}

func validatePin(pin string) error {
	if len(pin) < minPinLength || len(pin) > maxPinLength {
		return ErrPinTooShort
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrPinTooShort
		}
	}
	return nil
}
