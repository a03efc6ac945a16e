package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/jonathan/resume-analyzer/internal/inference"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/skills"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emptyInput  *skills.ErrEmptyInput
		unsupported *ingestion.UnsupportedTypeError
		extraction  *ingestion.ExtractionError
		schemaErr   *schemas.ValidationError
		validation  *ErrValidation
		tooLarge    *http.MaxBytesError
		retryable   *inference.RetryableError
		fatal       *inference.FatalError
	)

	switch {
	case errors.As(err, &emptyInput),
		errors.As(err, &unsupported),
		errors.As(err, &extraction),
		errors.As(err, &schemaErr),
		errors.As(err, &validation),
		errors.Is(err, ingestion.ErrNoText):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &retryable):
		if retryable.RateLimited {
			return http.StatusTooManyRequests
		}
		return http.StatusServiceUnavailable
	case errors.As(err, &fatal):
		if fatal.Status >= 400 && fatal.Status < 600 {
			return fatal.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage is the error text returned in a response body. Internal
// errors are not described to the client.
func clientMessage(err error) string {
	var (
		unsupported *ingestion.UnsupportedTypeError
		schemaErr   *schemas.ValidationError
		validation  *ErrValidation
		tooLarge    *http.MaxBytesError
		retryable   *inference.RetryableError
	)

	switch {
	case errors.As(err, &unsupported):
		return ingestion.UnsupportedTypeMessage
	case errors.Is(err, ingestion.ErrNoText):
		return "No text found in the document"
	case errors.As(err, &schemaErr):
		return schemaErr.Summary()
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)
	case errors.As(err, &retryable):
		if retryable.RateLimited {
			return "Inference provider rate limit reached, please retry later"
		}
		return "Inference model is loading, please retry later"
	}

	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

// retryAfterSeconds returns the Retry-After value for err, or 0 when none applies.
func retryAfterSeconds(err error) int {
	var retryable *inference.RetryableError
	if !errors.As(err, &retryable) {
		return 0
	}
	if retryable.RetryAfter <= 0 {
		return 1
	}
	return int(math.Ceil(retryable.RetryAfter.Seconds()))
}

// secondsUntil rounds a positive duration up to whole seconds.
func secondsUntil(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
