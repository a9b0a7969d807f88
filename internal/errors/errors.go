// Package errors carries the console's typed application errors. Services
// attach a Code; the HTTP layer turns the code into a status and the message
// into the response body.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "not_found"
	ErrCodeConflict     ErrorCode = "conflict"
	ErrCodeValidation   ErrorCode = "validation"
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodeForbidden    ErrorCode = "forbidden"
	// ErrCodeUnavailable covers ecosystem calls that failed at the transport
	// level or came back with a non-success status.
	ErrCodeUnavailable ErrorCode = "unavailable"
	// ErrCodeMalformedResponse is an ecosystem answer whose body did not decode.
	ErrCodeMalformedResponse ErrorCode = "malformed_response"
	ErrCodeInternal          ErrorCode = "internal"
	ErrCodeTimeout           ErrorCode = "timeout"
	ErrCodeCanceled          ErrorCode = "canceled"
)

// AppError is an error with a Code, a message safe to show to users, and an
// optional Field naming the offending input.
type AppError struct {
	Code    ErrorCode
	Message string
	Field   string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error { return e.Cause }

// New returns an AppError without a cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NotFound(message string) *AppError { return New(ErrCodeNotFound, message) }
func Validation(message string) *AppError { return New(ErrCodeValidation, message) }
func Unauthorized(message string) *AppError { return New(ErrCodeUnauthorized, message) }
func Forbidden(message string) *AppError { return New(ErrCodeForbidden, message) }
func Unavailable(message string) *AppError { return New(ErrCodeUnavailable, message) }

func NotFoundf(format string, args ...any) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// ValidationField reports invalid input for a named field.
func ValidationField(field, message string) *AppError {
	e := New(ErrCodeValidation, message)
	e.Field = field
	return e
}

// Wrap attaches code and message to err. It returns nil for a nil err so
// callers can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Is reports whether any AppError in err's chain carries code.
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

func IsNotFound(err error) bool { return Is(err, ErrCodeNotFound) }
func IsConflict(err error) bool { return Is(err, ErrCodeConflict) }
func IsValidation(err error) bool { return Is(err, ErrCodeValidation) }
func IsUnauthorized(err error) bool { return Is(err, ErrCodeUnauthorized) }
func IsForbidden(err error) bool { return Is(err, ErrCodeForbidden) }
func IsUnavailable(err error) bool { return Is(err, ErrCodeUnavailable) }
func IsCanceled(err error) bool { return Is(err, ErrCodeCanceled) }

// GetCode returns the code of the outermost AppError in err's chain, or "".
func GetCode(err error) ErrorCode {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field of the outermost AppError in err's chain, or "".
func GetField(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Field
	}
	return ""
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
