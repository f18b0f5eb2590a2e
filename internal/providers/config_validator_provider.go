package providers

import (
	"errors"
	"fmt"
	"reelsd/internal/structures"
	"time"

	"github.com/gookit/validate"
)

type CnfValidatorInterface interface {
	Validate() error
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) CnfValidatorInterface {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	for name, section := range map[string]interface{}{
		"webServer": &cv.conf.WebServer,
		"storage":   &cv.conf.Storage,
		"logger":    &cv.conf.Logger,
		"tracking":  &cv.conf.Tracking,
	} {
		v := validate.Struct(section)
		if !v.Validate() {
			return fmt.Errorf("invalid %s config: %s", name, v.Errors.One())
		}
	}

	if !cv.conf.Storage.InMemory && cv.conf.Storage.Dir == "" {
		return errors.New("invalid storage config: dir is required unless inMemory is set")
	}
	if cv.conf.Tracking.Location != "" {
		if _, err := time.LoadLocation(cv.conf.Tracking.Location); err != nil {
			return fmt.Errorf("invalid tracking config: %w", err)
		}
	}
	if cv.conf.Cache.Enabled && cv.conf.Cache.Size <= 0 {
		return errors.New("invalid cache config: size must be positive when enabled")
	}
	return nil
}
