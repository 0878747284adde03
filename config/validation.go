package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks a configuration for completeness. Missing credentials are
// a fatal configuration fault and must surface before any network attempt.
func Validate(cfg *Config) error {
	v := validator.New()

	if err := v.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return newValidationError(validationErrors)
		}
		return err
	}
	return nil
}

// ValidationError aggregates field-level configuration failures
type ValidationError struct {
	Fields []string
}

func newValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fieldMessage(fe))
	}
	return &ValidationError{Fields: fields}
}

func (ve *ValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "invalid configuration"
	}
	return fmt.Sprintf("invalid configuration: %s", strings.Join(ve.Fields, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", fe.Field())
	default:
		return fmt.Sprintf("%s failed validation", fe.Field())
	}
}
