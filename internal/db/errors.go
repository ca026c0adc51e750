package db

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Code classifies a data-access failure.
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
)

// Sentinels for errors.Is checks against *Error values.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// Error is a deterministic rejection raised by the data-access layer.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Code == CodeValidation
	case ErrNotFound:
		return e.Code == CodeNotFound
	}
	return false
}

// NewValidationError returns a validation error with a formatted message.
func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a missing row of the named resource.
func NewNotFoundError(resource string, id interface{}) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

// Classify maps SQLite constraint violations raised while writing resource
// to the error taxonomy. Other errors are returned unchanged.
func Classify(err error, resource string) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return &Error{Code: CodeValidation, Message: fmt.Sprintf("%s already exists", resource), Err: err}
	case sqlite3.ErrConstraintForeignKey:
		return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s references a record that does not exist", resource), Err: err}
	default:
		return &Error{Code: CodeValidation, Message: fmt.Sprintf("invalid %s", resource), Err: err}
	}
}

// ClassifyDelete is Classify for deletes, where a foreign key failure means
// other rows still reference the one being removed.
func ClassifyDelete(err error, resource string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return &Error{Code: CodeValidation, Message: fmt.Sprintf("%s is still referenced by other records", resource), Err: err}
	}
	return Classify(err, resource)
}
