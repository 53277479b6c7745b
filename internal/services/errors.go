package services

import (
	"errors"
	"fmt"
)

const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeConflict   = "CONFLICT"
)

// DomainError is a failure the caller caused and can be told about.
// Anything that is not a DomainError is treated as internal.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

func NewValidationError(format string, args ...any) error {
	return &DomainError{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(resource string) error {
	return &DomainError{Code: ErrCodeNotFound, Message: resource + " not found"}
}

func NewConflictError(format string, args ...any) error {
	return &DomainError{Code: ErrCodeConflict, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the domain code of err, or "" for internal errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func IsValidation(err error) bool { return CodeOf(err) == ErrCodeValidation }
func IsNotFound(err error) bool   { return CodeOf(err) == ErrCodeNotFound }
func IsConflict(err error) bool   { return CodeOf(err) == ErrCodeConflict }
