package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/sakashimaa/shop-api/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrUnauthorized = errors.New("not authorized")
var ErrForbidden = errors.New("access denied")
var ErrValidation = errors.New("validation failed")

// ValidationError carries per-field messages keyed by json field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func validate(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		return &ValidationError{Fields: utils.FormatValidationError(err)}
	}
	return nil
}
