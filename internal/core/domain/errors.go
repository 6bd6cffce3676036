package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error kind.
type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeConflict     Code = "CONFLICT"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeInvalidToken Code = "INVALID_TOKEN"
	CodeTokenExpired Code = "TOKEN_EXPIRED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeUpload       Code = "UPLOAD_FAILED"
	CodeInternal     Code = "INTERNAL"
)

// HTTPStatus maps the code to the status written in the response envelope.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized, CodeInvalidToken, CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUpload:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error carrying a code, a client-safe message and
// optional details.
type Error struct {
	Code    Code
	Message string
	Details any
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

// Is matches any *Error with the same code, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

var (
	ErrValidation   = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrConflict     = &Error{Code: CodeConflict, Message: "conflict"}
	ErrUnauthorized = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrInvalidToken = &Error{Code: CodeInvalidToken, Message: "invalid token"}
	ErrTokenExpired = &Error{Code: CodeTokenExpired, Message: "token expired"}
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found"}
	ErrRateLimited  = &Error{Code: CodeRateLimited, Message: "too many requests"}
	ErrUpload       = &Error{Code: CodeUpload, Message: "upload failed"}
	ErrInternal     = &Error{Code: CodeInternal, Message: "internal server error"}

	ErrBookNotFound    = NotFound("Book not found")
	ErrUserNotFound    = Validation("User not found")
	ErrEmailTaken      = Conflict("User with email already exists")
	ErrInvalidStatus   = Validation("Invalid status value")
	ErrFieldsRequired  = Validation("All fields are required")
	ErrInvalidPassword = Unauthorized("Invalid credentials")
)

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func Upload(msg string) *Error {
	return &Error{Code: CodeUpload, Message: msg}
}

// AsError extracts the domain error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
