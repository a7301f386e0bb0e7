package clients

import "errors"

// Client errors represent infrastructure failures in the HTTP client layer.
// Calling code translates them into domain errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and the
	// upstream is considered unhealthy.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded is returned after all attempts are exhausted.
	// The last attempt's error is wrapped for context.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
