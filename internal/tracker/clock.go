package tracker

import (
	"reelsd/internal/structures"
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// NewClock returns the wall clock in the configured tracking location.
// Day buckets and focus windows are evaluated in that location.
func NewClock(conf *structures.Config) (Clock, error) {
	name := conf.Tracking.Location
	if name == "" {
		name = "Local"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	return &systemClock{loc: loc}, nil
}
