package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation     Kind = "VALIDATION_ERROR"
	KindAuthentication Kind = "UNAUTHORIZED"
	KindAuthorization  Kind = "FORBIDDEN"
	KindNotFound       Kind = "NOT_FOUND"
	KindBusinessRule   Kind = "BUSINESS_RULE"
	KindInvalidState   Kind = "INVALID_STATE"
	KindConflict       Kind = "CONFLICT"
	KindRateLimited    Kind = "RATE_LIMITED"
	KindUnexpected     Kind = "INTERNAL_ERROR"
)

// FieldIssue describes one rejected input field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Kind    Kind
	Message string
	Details []FieldIssue
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindBusinessRule, KindInvalidState:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string, details ...FieldIssue) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Details: details}
}

func Unauthenticated(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func BusinessRule(message string) *AppError {
	return &AppError{Kind: KindBusinessRule, Message: message}
}

func InvalidState(message string) *AppError {
	return &AppError{Kind: KindInvalidState, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func RateLimited(message string) *AppError {
	return &AppError{Kind: KindRateLimited, Message: message}
}

func Unexpected(message string, err error) *AppError {
	return &AppError{Kind: KindUnexpected, Message: message, Err: err}
}

// As extracts an *AppError from the chain. Anything else becomes an
// unexpected error with a generic message.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected("An unexpected error occurred", err)
}

// IsKind reports whether err carries an *AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
