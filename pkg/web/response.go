// Package web defines common components for a web application.
package web

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Response holds the common response type for all APIs.
type Response struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Error wraps a given err into json friendly response.
//
// Validation errors carry their kind and the values needed to rebuild the message.
func Error(err error) Response {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return Response{Error: ve.Error(), Kind: string(ve.Kind), Details: ve.Details()}
	}

	return Response{Error: err.Error()}
}

// BindingError converts a request binding error into a response.
func BindingError(err error) Response {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return Response{Error: field.Field() + GetErrorMsg(field)}
	}

	return Response{Error: err.Error()}
}

// GetErrorMsg returns a human readable suffix for a failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "uuid":
		return " must be a valid uuid"
	case "direction":
		return " must be DEBIT or CREDIT"
	case "max":
		return " must be at most " + fe.Param() + " characters"
	}

	return " is invalid"
}
