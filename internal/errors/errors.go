package errors

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypePartialWrite ErrorType = "PARTIAL_WRITE"
	ErrTypeInternal     ErrorType = "INTERNAL"
	ErrTypeUnavailable  ErrorType = "UNAVAILABLE"
)

type DomainError struct {
	Type    ErrorType
	Message string
	// Fields holds per-field validation messages for ErrTypeValidation.
	Fields map[string]string
	Err    error
	Stack  []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

// Validation carries per-field messages so the caller can surface them
// inline. No write is ever attempted once one is returned.
func Validation(message string, fields map[string]string) *DomainError {
	e := New(ErrTypeValidation, message, nil)
	e.Fields = fields
	return e
}

// PartialWrite marks a multi-insert sequence that failed after an earlier
// step succeeded. The store is left consistent but incomplete.
func PartialWrite(message string, err error) *DomainError {
	return New(ErrTypePartialWrite, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

func Unavailable(message string, err error) *DomainError {
	return New(ErrTypeUnavailable, message, err)
}

// TypeOf reports the DomainError type of err, or ErrTypeInternal when err is
// not a DomainError.
func TypeOf(err error) ErrorType {
	if derr, ok := err.(*DomainError); ok {
		return derr.Type
	}
	return ErrTypeInternal
}

func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}
