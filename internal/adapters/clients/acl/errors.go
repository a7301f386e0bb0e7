package acl

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jsamuelsen/quotedeck/internal/adapters/clients"
	"github.com/jsamuelsen/quotedeck/internal/domain"
)

// MapHTTPError maps an HTTP failure to a domain error. Either resp or
// clientErr may be nil; clientErr wins when both are set.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return &domain.ExternalServiceError{
			Service: serviceName,
			Err:     fmt.Errorf("%s: no response received", operation),
		}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &domain.ExternalServiceError{Service: serviceName, Err: domain.ErrRateLimited}
	case resp.StatusCode == http.StatusNotFound:
		return &domain.NotFoundError{Resource: serviceName}
	case resp.StatusCode >= http.StatusBadRequest:
		return &domain.ExternalServiceError{
			Service: serviceName,
			Err:     fmt.Errorf("%s: HTTP %d", operation, resp.StatusCode),
		}
	default:
		return nil
	}
}

// mapClientError translates client-level errors to domain errors.
func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return &domain.ExternalServiceError{
			Service: serviceName,
			Err:     fmt.Errorf("circuit breaker open during %s", operation),
		}

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return &domain.ExternalServiceError{
			Service: serviceName,
			Err:     fmt.Errorf("attempts exhausted during %s: %w", operation, err),
		}

	default:
		return &domain.ExternalServiceError{
			Service: serviceName,
			Err:     fmt.Errorf("%s failed: %w", operation, err),
		}
	}
}
