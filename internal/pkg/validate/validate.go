package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var instance = validator.New(validator.WithRequiredStructEnabled())

// Struct checks the `validate` tags on a decoded request body and returns
// a caller-presentable message naming the first offending field.
func Struct(target any) error {
	err := instance.Struct(target)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("validate: %w", err)
	}

	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		first := fields[0]
		return fmt.Errorf("field %s failed %q validation", fieldName(first), first.Tag())
	}
	return err
}

func fieldName(fe validator.FieldError) string {
	// Namespace is Struct.Field; report just the field in snake-ish form.
	parts := strings.Split(fe.Namespace(), ".")
	return strings.ToLower(parts[len(parts)-1])
}
