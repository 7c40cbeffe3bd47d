package server

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator for per-field directive validation.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator ready for directive evaluation.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// CheckField evaluates a single value against a validator tag expression
// (e.g. "required,max=64"). It returns nil when the value passes.
func (v *Validator) CheckField(field string, value any, tag string) *FieldError {
	if tag == "" {
		return nil
	}
	if err := v.validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		msg := fmt.Sprintf("%s failed validation", field)
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msg = fmt.Sprintf("%s failed %q validation", field, verrs[0].Tag())
		}
		return &FieldError{Field: field, Message: msg, Value: fmt.Sprintf("%v", value)}
	}
	return nil
}

// ValidationError is the structured validation failure consumed by the
// classifier: an ordered collection of per-field errors.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError is a validation error scoped to a single parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
	default:
		return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
	}
}
