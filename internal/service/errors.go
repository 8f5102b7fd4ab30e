package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when a login does not match the configured user.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthenticated is returned when no session exists for the given id.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrNoDocuments is returned when the documents directory yields no indexable text.
	ErrNoDocuments = errors.New("no documents found")
	// ErrDocumentParse is returned when a document cannot be parsed and the build is aborted.
	ErrDocumentParse = errors.New("failed to parse document")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
	// ErrNotIndexed is returned when a question arrives before the index is built.
	ErrNotIndexed = errors.New("index not built")
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents a validation error with a field name.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
