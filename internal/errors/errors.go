package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., duplicate email).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"

	// ErrCodeConfiguration indicates required configuration is missing.
	ErrCodeConfiguration ErrorCode = "configuration"
	// ErrCodeInitialization indicates the identity service could not be brought up.
	ErrCodeInitialization ErrorCode = "initialization"
	// ErrCodeIdentityProvider tags any failure returned by the identity service.
	ErrCodeIdentityProvider ErrorCode = "identity_provider"
	// ErrCodeUnauthenticated indicates no authenticated user where one is required.
	ErrCodeUnauthenticated ErrorCode = "unauthenticated"
	// ErrCodeForbidden indicates the user is known but not allowed.
	ErrCodeForbidden ErrorCode = "forbidden"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError { return newError(ErrCodeNotFound, message) }

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError { return newError(ErrCodeConflict, message) }

// Validation creates a new Validation error.
func Validation(message string) *AppError { return newError(ErrCodeValidation, message) }

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError { return newError(ErrCodeInternal, message) }

// Configuration reports a missing or invalid configuration value.
func Configuration(message string) *AppError { return newError(ErrCodeConfiguration, message) }

// Unauthenticated creates a new Unauthenticated error.
func Unauthenticated(message string) *AppError { return newError(ErrCodeUnauthenticated, message) }

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError { return newError(ErrCodeForbidden, message) }

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Initialization wraps a failure raised while constructing the identity service.
func Initialization(err error, message string) *AppError {
	if err == nil {
		return newError(ErrCodeInitialization, message)
	}
	return Wrap(err, ErrCodeInitialization, message)
}

// IdentityProvider tags an error returned by the identity service.
// The cause is kept intact so HTTPStatus can still see a conflict or an
// unauthenticated error underneath the tag.
func IdentityProvider(err error, op string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, ErrCodeIdentityProvider, op)
}

// isCode checks if any AppError in the chain has the given code.
func isCode(err error, code ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsConfiguration checks if an error is a Configuration error.
func IsConfiguration(err error) bool { return isCode(err, ErrCodeConfiguration) }

// IsInitialization checks if an error is an Initialization error.
func IsInitialization(err error) bool { return isCode(err, ErrCodeInitialization) }

// IsIdentityProvider checks if an error came back from the identity service.
func IsIdentityProvider(err error) bool { return isCode(err, ErrCodeIdentityProvider) }

// IsUnauthenticated checks if an error is an Unauthenticated error.
func IsUnauthenticated(err error) bool { return isCode(err, ErrCodeUnauthenticated) }

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool { return isCode(err, ErrCodeForbidden) }

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool { return isCode(err, ErrCodeTimeout) }

// GetCode returns the ErrorCode of the outermost AppError, or empty string if there is none.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// statusByCode is consulted innermost-last: the first code in the chain with a
// specific status wins, so an identity_provider tag never hides a conflict.
//
//nolint:gochecknoglobals // static read-only lookup table
var statusByCode = map[ErrorCode]int{
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeUnauthenticated: http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeCanceled:        499,
}

// HTTPStatus maps an error to the HTTP status code it should surface as.
func HTTPStatus(err error) int {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			break
		}
		if status, ok := statusByCode[appErr.Code]; ok {
			return status
		}
		err = appErr.Cause
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message of the most specific AppError in the chain,
// without the causes. Handlers use it so store internals do not leak to clients.
func PublicMessage(err error) string {
	msg := http.StatusText(http.StatusInternalServerError)
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			break
		}
		if _, ok := statusByCode[appErr.Code]; ok {
			return appErr.Message
		}
		if appErr.Code != ErrCodeIdentityProvider && appErr.Code != ErrCodeInternal {
			msg = appErr.Message
		}
		err = appErr.Cause
	}
	return msg
}
