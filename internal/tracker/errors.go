package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrBlocked     = errors.New("recording is blocked by focus mode")
	ErrLocked      = errors.New("settings are locked, pin required")
	ErrPinMismatch = errors.New("incorrect pin")
)

// ValidationError rejects input before any state is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	ErrPinTooShort     = &ValidationError{Field: "pin", Message: "use 4 to 6 digits"}
	ErrPinConfirmation = &ValidationError{Field: "confirm", Message: "pins don't match"}
)

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
