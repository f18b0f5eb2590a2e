package timer

import (
	"fmt"
	"reelsd/internal/models"
	"reelsd/internal/tracker"
	"time"
)

var ErrInvalidInterval = &tracker.ValidationError{
	Field:   "interval",
	Message: fmt.Sprintf("must be between %d and %d seconds", models.MinInterval, models.MaxInterval),
}

func updateCounter(tracking bool, interval int) models.Message {
	msg := models.Message{Type: models.MessageUpdateCounter, Tracking: tracking}
	if tracking {
		msg.Interval = interval
	}
	return msg
}

func backgroundUpdate(at time.Time) models.Message {
	return models.Message{Type: models.MessageBackgroundUpdate, Timestamp: at.UTC().Format(time.RFC3339)}
}
