// Package errors defines the coded errors services return to the API layer.
//
// Services return an *Error built by one of the constructors. Callers test the kind with
// errors.Is against a sentinel (codes compare equal, messages do not matter) and read
// validation field messages with FieldErrors:
//
//	if errors.Is(err, domainerrors.ErrDuplicateRecord) { ... }
//	fields := domainerrors.FieldErrors(err) // nil unless VALIDATION
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error kind, sent to clients as the envelope's "code".
type Code string

const (
	CodeValidation         Code = "VALIDATION"
	CodeDuplicateRecord    Code = "DUPLICATE_RECORD"
	CodeNotFound           Code = "NOT_FOUND"
	CodeForbidden          Code = "FORBIDDEN"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus maps a code to its response status. Unknown codes are 500.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateRecord, CodeAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a code, a user-facing message and optional details.
// For VALIDATION the details are a map[string]string of field to message.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// HTTPStatus returns the response status for e's code.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy of e wrapping err. The cause is logged, never shown to clients.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

// Sentinels for errors.Is.
var (
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrDuplicateRecord    = &Error{Code: CodeDuplicateRecord, Message: "duplicate record"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists, Message: "already exists"}
)

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// FieldErrors returns the field messages of a VALIDATION error, or nil.
func FieldErrors(err error) map[string]string {
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeValidation {
		return nil
	}
	fields, _ := e.Details.(map[string]string)
	return fields
}

// ValidationWithDetails reports invalid input field by field.
func ValidationWithDetails(msg string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: fields}
}

// DuplicateRecord reports that a live record already holds the same slot.
func DuplicateRecord(msg string) *Error {
	return &Error{Code: CodeDuplicateRecord, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// InvalidCredentials is returned for every failed login, whatever the reason.
func InvalidCredentials(msg string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: msg}
}

// AlreadyExists reports a taken e-mail address.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}
