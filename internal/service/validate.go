package service

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
)

var validate = validator.New()

// ValidationError marks input rejected before it reaches the store.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// parseDate accepts an empty string as "no date".
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(internal.DateLayout, s)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	return &d, nil
}
