package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the request carried no token.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")

	// ErrInvalidCredential covers unknown tokens and failed logins.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrIDSpaceExhausted is returned when every suffix of a project id base is taken.
	ErrIDSpaceExhausted = errors.New("project id space exhausted")
)

// ValidationError is a request the service refuses to act on. Message is
// safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
