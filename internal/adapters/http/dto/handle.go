package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotedeck/internal/domain"
	"github.com/jsamuelsen/quotedeck/internal/platform/logging"
)

// GetTraceID extracts the OpenTelemetry trace ID from the request context,
// or returns an empty string when no span is recording.
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case errors.Is(err, domain.ErrAcquisitionInFlight):
		return http.StatusConflict, NewErrorResponse(
			ErrorCodeConflict,
			"a quote acquisition is already in progress",
		)

	case errors.Is(err, domain.ErrNoQuote):
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable,
			"no quote could be produced",
		)

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(
			ErrorCodeNotFound,
			err.Error(),
		)

	case domain.IsValidation(err):
		resp := NewErrorResponse(
			ErrorCodeValidation,
			err.Error(),
		)
		// Extract field details if available
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Reason,
			}
		}

		return http.StatusBadRequest, resp

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// HandleError writes an error response to the gin.Context.
// It maps domain errors to HTTP responses and includes the trace ID if available.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	// Log internal errors with full details
	if status == http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}

// HandleBindingError writes a response for a binding or validation failure.
// Validation failures get a 400 with field-level details; malformed bodies
// get a generic bad request.
func HandleBindingError(c *gin.Context, err error) {
	if IsValidationError(err) {
		errResp := NewErrorResponseWithDetails(
			ErrorCodeValidation,
			"request validation failed",
			ValidationErrors(err),
		)
		errResp.TraceID = GetTraceID(c)
		c.JSON(http.StatusBadRequest, errResp)

		return
	}

	errResp := NewErrorResponse(ErrorCodeBadRequest, "malformed request")
	errResp.TraceID = GetTraceID(c)
	c.JSON(http.StatusBadRequest, errResp)
}
