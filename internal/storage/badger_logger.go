package storage

import (
	"fmt"
	"reelsd/internal/providers"
)

// BadgerLogger routes badger's internal messages to the app log.
type BadgerLogger struct {
	logger providers.Logger
}

func NewBadgerLogger(logger providers.Logger) *BadgerLogger {
	return &BadgerLogger{logger: logger}
}

func (b *BadgerLogger) Errorf(msg string, args ...interface{}) {
	b.logger.Errorf(providers.TypeApp, "badger: %s", fmt.Sprintf(msg, args...))
}

func (b *BadgerLogger) Warningf(msg string, args ...interface{}) {
	b.logger.Warnf(providers.TypeApp, "badger: %s", fmt.Sprintf(msg, args...))
}

func (b *BadgerLogger) Infof(msg string, args ...interface{}) {
	b.logger.Infof(providers.TypeApp, "badger: %s", fmt.Sprintf(msg, args...))
}

func (b *BadgerLogger) Debugf(msg string, args ...interface{}) {
	b.logger.Debugf(providers.TypeApp, "badger: %s", fmt.Sprintf(msg, args...))
}
