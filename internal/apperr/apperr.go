// Package apperr defines the closed failure taxonomy used by every domain service.
//
// Messages are user-facing (Portuguese defaults); codes are machine-facing and stable.
// Callers branch on Type for status selection and on Code for specific handling:
//
//	if res.IsFailure() && res.Err().Code == apperr.CodeConflictExists {
//	    // name already taken
//	}
package apperr

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
)

// Type is the category of a failure. Values mirror HTTP status codes.
type Type int

const (
	TypeNone                  Type = 0
	TypeValidation            Type = 400
	TypeUnauthorized          Type = 401
	TypeForbidden             Type = 403
	TypeNotFound              Type = 404
	TypeConflict              Type = 409
	TypeBusinessRuleViolation Type = 422
	TypeInternalServer        Type = 500
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeValidation:
		return "Validation"
	case TypeUnauthorized:
		return "Unauthorized"
	case TypeForbidden:
		return "Forbidden"
	case TypeNotFound:
		return "NotFound"
	case TypeConflict:
		return "Conflict"
	case TypeBusinessRuleViolation:
		return "BusinessRuleViolation"
	case TypeInternalServer:
		return "InternalServer"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// HTTPStatus returns the HTTP status code for the type.
func (t Type) HTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeBusinessRuleViolation:
		return http.StatusUnprocessableEntity
	case TypeNone:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// Error is an immutable failure description.
type Error struct {
	Type             Type              `json:"-"`
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// IsNone reports whether the error is the "no error" placeholder.
func (e *Error) IsNone() bool {
	return e == nil || e.Type == TypeNone
}

// WithField returns a copy of the error with an extra field-level message.
func (e *Error) WithField(field, message string) *Error {
	out := *e
	out.ValidationErrors = make(map[string]string, len(e.ValidationErrors)+1)
	maps.Copy(out.ValidationErrors, e.ValidationErrors)
	out.ValidationErrors[field] = message
	return &out
}

func newError(t Type, code, message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	return &Error{Type: t, Code: code, Message: message}
}

// None returns the placeholder used where no failure occurred.
func None() *Error {
	return &Error{Type: TypeNone, Code: CodeNone}
}

// NotFound creates a not-found failure.
func NotFound(code, message string) *Error {
	if code == "" {
		code = CodeNotFound
	}
	return newError(TypeNotFound, code, message, "O recurso solicitado não foi encontrado.")
}

// Validation creates an input validation failure.
func Validation(code, message string) *Error {
	if code == "" {
		code = CodeInputInvalid
	}
	return newError(TypeValidation, code, message, "Os dados informados são inválidos.")
}

// ValidationField creates a validation failure for a single field.
func ValidationField(field, message string) *Error {
	return Validation(CodeInputInvalid, message).WithField(field, message)
}

// Unauthorized creates an authentication failure.
func Unauthorized(code, message string) *Error {
	if code == "" {
		code = CodeAuthUnauthorized
	}
	return newError(TypeUnauthorized, code, message, "Usuário não autenticado.")
}

// Forbidden creates an authorization failure.
func Forbidden(code, message string) *Error {
	if code == "" {
		code = CodeAuthForbidden
	}
	return newError(TypeForbidden, code, message, "Você não tem permissão para realizar esta operação.")
}

// Conflict creates a state conflict failure.
func Conflict(code, message string) *Error {
	if code == "" {
		code = CodeConflictExists
	}
	return newError(TypeConflict, code, message, "O registro já existe.")
}

// BusinessRuleViolation creates a business rule failure.
func BusinessRuleViolation(code, message string) *Error {
	if code == "" {
		code = CodeBizRule
	}
	return newError(TypeBusinessRuleViolation, code, message, "A operação viola uma regra de negócio.")
}

// InternalServer creates an unexpected failure.
func InternalServer(code, message string) *Error {
	if code == "" {
		code = CodeServerInternal
	}
	return newError(TypeInternalServer, code, message, "Ocorreu um erro interno no servidor.")
}
