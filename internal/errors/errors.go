// Package errors holds the typed application error shared by the data,
// service and HTTP layers. The HTTP layer maps Code to a status and echoes
// Field and Reason to the client.
package errors

import "errors"

type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "not_found"
	ErrCodeConflict     ErrorCode = "conflict"
	ErrCodeValidation   ErrorCode = "validation"
	ErrCodeForeignKey   ErrorCode = "foreign_key"
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodeForbidden    ErrorCode = "forbidden"
	ErrCodeInternal     ErrorCode = "internal"
	ErrCodeTimeout      ErrorCode = "timeout"
	ErrCodeCanceled     ErrorCode = "canceled"
	ErrCodeTooLarge     ErrorCode = "too_large"
)

// AppError carries a user-facing Message. Cause is kept for logs and
// errors.Is but never shown to clients.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the offending input for validation and conflict errors.
	Field string
	// Reason refines Code, e.g. "employer_not_verified".
	Reason string
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithReason returns a copy; e is left untouched.
func (e *AppError) WithReason(reason string) *AppError {
	cp := *e
	cp.Reason = reason
	return &cp
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NotFound(message string) *AppError { return New(ErrCodeNotFound, message) }
func Conflict(message string) *AppError { return New(ErrCodeConflict, message) }
func Validation(message string) *AppError { return New(ErrCodeValidation, message) }
func ForeignKey(message string) *AppError { return New(ErrCodeForeignKey, message) }
func Unauthorized(message string) *AppError { return New(ErrCodeUnauthorized, message) }
func Forbidden(message string) *AppError { return New(ErrCodeForbidden, message) }

// TooLarge reports an input over a size limit.
func TooLarge(field, message string) *AppError {
	return &AppError{Code: ErrCodeTooLarge, Message: message, Field: field}
}

func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Wrap returns nil for a nil err so callers can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func find(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Is reports whether any AppError in err's chain has code.
func Is(err error, code ErrorCode) bool {
	e := find(err)
	return e != nil && e.Code == code
}

func IsNotFound(err error) bool { return Is(err, ErrCodeNotFound) }
func IsConflict(err error) bool { return Is(err, ErrCodeConflict) }
func IsValidation(err error) bool { return Is(err, ErrCodeValidation) }
func IsForeignKey(err error) bool { return Is(err, ErrCodeForeignKey) }
func IsUnauthorized(err error) bool { return Is(err, ErrCodeUnauthorized) }
func IsForbidden(err error) bool { return Is(err, ErrCodeForbidden) }
func IsTooLarge(err error) bool { return Is(err, ErrCodeTooLarge) }

// GetCode, GetField and GetReason return "" for errors without an AppError.
func GetCode(err error) ErrorCode {
	if e := find(err); e != nil {
		return e.Code
	}
	return ""
}

func GetField(err error) string {
	if e := find(err); e != nil {
		return e.Field
	}
	return ""
}

func GetReason(err error) string {
	if e := find(err); e != nil {
		return e.Reason
	}
	return ""
}

// Message is the AppError's user-facing text, or err.Error() otherwise.
func Message(err error) string {
	if e := find(err); e != nil {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
