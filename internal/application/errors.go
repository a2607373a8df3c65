package application

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by EmployeeService matches exactly one
// of these through errors.Is, except unclassified internal failures.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrRateLimited         = errors.New("rate limited")
)

// Error carries a kind, the client-facing message and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func notFound(id string) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("Employee not found with id: %s", id)}
}

func invalidInput(msg string) error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func providerUnavailable(provider string, err error) error {
	return &Error{
		Kind:    ErrProviderUnavailable,
		Message: fmt.Sprintf("Third-party %s validation is unavailable", provider),
		Err:     err,
	}
}
