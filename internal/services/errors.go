package services

import "errors"

var (
	// ErrSessionNotFound is returned for ids that were never issued or have expired
	ErrSessionNotFound = errors.New("session not found")
	// ErrProviderNotConfigured is returned when no upstream credential is set
	ErrProviderNotConfigured = errors.New("upstream API key is not configured")
	// ErrUpstreamTimeout is returned when the model does not answer within the configured timeout
	ErrUpstreamTimeout = errors.New("upstream model timed out")
)

// ValidationError is a caller mistake; Message is safe to show to the client.
type ValidationError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
