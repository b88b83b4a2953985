package comment

import (
	"errors"
	"fmt"
)

// Error categories surfaced by the ingestion pipeline; match with errors.Is.
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrMissingField     = errors.New("missing field")
	ErrConfiguration    = errors.New("configuration error")
	ErrPersistence      = errors.New("persistence error")
	ErrArchive          = errors.New("archive error")
)

// MissingFieldError names the required payload field that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field: %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// NewMissingFieldError creates a MissingFieldError for field.
func NewMissingFieldError(field string) *MissingFieldError {
	return &MissingFieldError{Field: field}
}
