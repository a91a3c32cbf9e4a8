package serrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Base is a coded error surfaced to API consumers. Code is stable and
// machine-readable; Message is safe to show to a user.
type Base struct {
	Code    string
	Message string
	Field   string
}

func (e *Base) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message, field string) *Base {
	return &Base{Code: code, Message: message, Field: field}
}

func Unauthorized(message string) *Base {
	if message == "" {
		message = "no organization resolved for the current principal"
	}
	return NewError("UNAUTHORIZED", message, "")
}

func NotFound(entity string) *Base {
	return NewError("NOT_FOUND", fmt.Sprintf("%s not found", entity), "")
}

func Conflict(message, field string) *Base {
	return NewError("CONFLICT", message, field)
}

func Validation(message, field string) *Base {
	return NewError("VALIDATION", message, field)
}

func Store(err error) *Base {
	return NewError("STORE", err.Error(), "")
}

// HTTPStatus maps a coded error to a response status. Unknown errors map to
// 500 so store failures never leak as client faults.
func HTTPStatus(err error) int {
	var base *Base
	if !errors.As(err, &base) {
		return http.StatusInternalServerError
	}
	switch base.Code {
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	case "NOT_FOUND":
		return http.StatusNotFound
	case "VALIDATION":
		return http.StatusUnprocessableEntity
	case "CONFLICT":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	for field, msg := range v {
		return fmt.Sprintf("validation failed: %s %s", field, msg)
	}
	return "validation failed"
}

// FromValidate converts a validator.Struct result into per-field messages.
// A nil error yields an empty, non-nil map so callers can add their own
// checks before testing emptiness.
func FromValidate(err error) ValidationErrors {
	if err == nil {
		return ValidationErrors{}
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ProcessValidatorErrors(ve)
	}
	return ValidationErrors{"": err.Error()}
}

// ProcessValidatorErrors flattens validator.ValidationErrors into per-field
// messages keyed by struct field name.
func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = messageForTag(fe)
	}
	return out
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
