package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on with errors.Is.
var (
	// ErrNoQuote is the total acquisition failure: every source in the
	// fallback chain came up empty.
	ErrNoQuote = errors.New("no quote available from any source")

	// ErrRateLimited indicates an upstream provider rejected the request
	// because of request volume.
	ErrRateLimited = errors.New("rate limited by upstream provider")

	// ErrAcquisitionInFlight indicates an acquisition was dropped because
	// another one is already running.
	ErrAcquisitionInFlight = errors.New("acquisition already in flight")

	// ErrNotFound indicates a requested resource does not exist.
	ErrNotFound = errors.New("not found")
)

// NotFoundError reports a missing resource with enough context to log.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExternalServiceError wraps a failure from an upstream dependency so the
// provider name survives error chains.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a missing-resource condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is a rejected-input condition.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRateLimited reports whether err originated from upstream throttling.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
