// Package errors provides standardized domain errors with codes for the Inkwell API.
//
// Usage:
//
//	// In services - return typed errors
//	if nameTaken {
//	    return errors.Conflict("tag name already in use")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrNotFound) {
//	    response.NotFound(w, err.Error(), logger)
//	    return
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeConflict:
//	        response.Conflict(w, domainErr.Message, logger)
//	    case errors.CodeForbidden:
//	        response.Forbidden(w, domainErr.Message, logger)
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	// CodeInvalidCredential covers every bearer-token failure mode:
	// malformed, bad signature, expired, or a subject that no longer
	// resolves to a live account. Callers can't tell which.
	CodeInvalidCredential Code = "INVALID_CREDENTIAL"

	// CodeInactiveAccount means the credential was valid but the
	// account's active flag is off.
	CodeInactiveAccount Code = "INACTIVE_ACCOUNT"

	// CodeInsufficientPrivilege means the operation requires superuser.
	CodeInsufficientPrivilege Code = "INSUFFICIENT_PRIVILEGE"

	// CodeForbidden means an ownership/policy check failed, distinct
	// from a missing privilege level.
	CodeForbidden Code = "FORBIDDEN"

	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeRateLimited     Code = "RATE_LIMITED"
	CodeInternal        Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidCredential, CodeInactiveAccount:
		return http.StatusUnauthorized
	case CodeInsufficientPrivilege, CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrInvalidCredential     = &Error{Code: CodeInvalidCredential, Message: "invalid credential"}
	ErrInactiveAccount       = &Error{Code: CodeInactiveAccount, Message: "inactive account"}
	ErrInsufficientPrivilege = &Error{Code: CodeInsufficientPrivilege, Message: "insufficient privilege"}
	ErrForbidden             = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrNotFound              = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict              = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInvalidArgument       = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrRateLimited           = &Error{Code: CodeRateLimited, Message: "rate limited"}
	ErrInternal              = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// InvalidCredential creates an invalid credential error.
func InvalidCredential(msg string) *Error {
	return &Error{Code: CodeInvalidCredential, Message: msg}
}

// InactiveAccount creates an inactive account error.
func InactiveAccount(msg string) *Error {
	return &Error{Code: CodeInactiveAccount, Message: msg}
}

// InsufficientPrivilege creates an insufficient privilege error.
func InsufficientPrivilege(msg string) *Error {
	return &Error{Code: CodeInsufficientPrivilege, Message: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// Forbiddenf creates a forbidden error with formatted message.
func Forbiddenf(format string, args ...any) *Error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Conflictf creates a conflict error with formatted message.
func Conflictf(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: msg}
}

// InvalidArgumentf creates an invalid argument error with formatted message.
func InvalidArgumentf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgumentWithDetails creates an invalid argument error with details.
func InvalidArgumentWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeInvalidArgument, Message: msg, Details: details}
}

// RateLimited creates a rate limited error.
func RateLimited(msg string) *Error {
	return &Error{Code: CodeRateLimited, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
