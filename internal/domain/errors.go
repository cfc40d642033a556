// Package domain holds the pure core of the bridge: connection states,
// message transformation, phone normalization and the error taxonomy.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced instance, user or contact
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned on tenant mismatch or missing/invalid
	// credentials. It always interrupts request handling.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInstanceNotConnected is returned when a send is attempted on an
	// instance whose state is not authorized.
	ErrInstanceNotConnected = errors.New("instance is not connected")

	// ErrAlreadyExists is returned when creating an instance whose gateway
	// identifier is already registered.
	ErrAlreadyExists = errors.New("already exists")
)

// IntegrationError indicates that a remote platform rejected or mishandled a
// well-formed request after the bounded retries were exhausted.
type IntegrationError struct {
	Op     string
	Detail string
	Err    error
}

func (e *IntegrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("integration error in %s: %s: %v", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("integration error in %s: %s", e.Op, e.Detail)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}

// NewIntegrationError creates an IntegrationError for the given operation.
func NewIntegrationError(op, detail string, err error) *IntegrationError {
	return &IntegrationError{Op: op, Detail: detail, Err: err}
}

// IsIntegrationError reports whether err is or wraps an IntegrationError.
func IsIntegrationError(err error) bool {
	var ie *IntegrationError
	return errors.As(err, &ie)
}
