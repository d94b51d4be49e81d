package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for local validation and store outcomes. These never
// wrap an external-service failure.
var (
	ErrImageTooLarge     = errors.New("image exceeds the maximum allowed size")
	ErrUnsupportedFormat = errors.New("image format not supported: use JPEG, PNG or WebP")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrNotConfigured     = errors.New("service is not configured: missing API credential")
)

// RecognitionServiceError reports a transport or parse failure while
// talking to the vision capability. Retryable signals whether a
// user-initiated retry has a chance of succeeding.
type RecognitionServiceError struct {
	Retryable bool
	Err       error
}

func (e *RecognitionServiceError) Error() string {
	return fmt.Sprintf("recognition service error (retryable=%t): %v", e.Retryable, e.Err)
}

func (e *RecognitionServiceError) Unwrap() error {
	return e.Err
}

// GenerationServiceError reports a transport or parse failure of the
// text-generation capability. A recipe-count shortfall is never an
// error and never produces one of these.
type GenerationServiceError struct {
	Err error
}

func (e *GenerationServiceError) Error() string {
	return fmt.Sprintf("generation service error: %v", e.Err)
}

func (e *GenerationServiceError) Unwrap() error {
	return e.Err
}

// SchemaViolation reports the first field that failed recipe schema
// validation. Violations are filtered per candidate, never propagated
// across a batch.
type SchemaViolation struct {
	Field  string
	Detail string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation on %q: %s", e.Field, e.Detail)
}
