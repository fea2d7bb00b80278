package utils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies engine failures for callers and for the HTTP layer.
type ErrorKind string

const (
	KindValidation            ErrorKind = "validation"
	KindNotFound              ErrorKind = "notFound"
	KindDependencyUnavailable ErrorKind = "dependencyUnavailable"
	KindPartialFailure        ErrorKind = "partialComputationFailure"
)

// AppError carries a kind, a caller-safe message and, for validation, the offending fields.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  []string
	Err     error
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if len(e.Fields) > 0 {
		msg += " [" + strings.Join(e.Fields, ", ") + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports missing or malformed input fields.
func NewValidationError(message string, fields ...string) error {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

// NewNotFoundError reports an unknown entity.
func NewNotFoundError(message string) error {
	return &AppError{Kind: KindNotFound, Message: message}
}

// NewDependencyError reports an unreachable store. Operations returning it must not guess a result.
func NewDependencyError(message string, err error) error {
	return &AppError{Kind: KindDependencyUnavailable, Message: message, Err: err}
}

// NewPartialFailure reports a per-item failure that the caller tolerates.
func NewPartialFailure(message string, err error) error {
	return &AppError{Kind: KindPartialFailure, Message: message, Err: err}
}

// AsAppError extracts the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
