// Package validation fills struct defaults and runs tag-based validation.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid value")

var validate = validator.New()

// SetDefaults applies `default:"..."` tags to zero-valued fields of ptr.
func SetDefaults(ptr any) error {
	if err := defaults.Set(ptr); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}
	return nil
}

// Struct validates v against its `validate` tags and returns a readable error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, message(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Var validates a single value against a tag, e.g. "email".
func Var(name string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalid, messageFor(name, fieldErrs[0]))
		}
		return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
	}
	return nil
}

func message(fe validator.FieldError) string {
	return messageFor(strings.ToLower(fe.Namespace()), fe)
}

func messageFor(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
