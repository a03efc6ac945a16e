// Package inference provides adapters over the remote entity-recognition and
// text-embedding capabilities, including endpoint fallback and failure classification.
package inference

import (
	"errors"
	"fmt"
	"time"
)

// ErrAllEndpointsUnavailable is returned when every configured endpoint reported
// the capability as gone. Callers are expected to switch to a fallback strategy.
var ErrAllEndpointsUnavailable = errors.New("inference: all endpoints unavailable")

// RetryableError indicates the provider is warming up or rate limiting.
// The whole operation may be retried later; it must not fail over.
type RetryableError struct {
	Endpoint    string
	Status      int
	RateLimited bool
	RetryAfter  time.Duration
	Message     string
}

func (e *RetryableError) Error() string {
	kind := "model loading"
	if e.RateLimited {
		kind = "rate limited"
	}
	if e.Message != "" {
		return fmt.Sprintf("inference %s (status %d): %s", kind, e.Status, e.Message)
	}
	return fmt.Sprintf("inference %s (status %d)", kind, e.Status)
}

// FatalError is a non-recoverable provider failure on the last endpoint tried
type FatalError struct {
	Endpoint string
	Status   int // 0 when the request never produced a response
	Message  string
	Cause    error
}

func (e *FatalError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("inference error for %s: %s: %v", e.Endpoint, msg, e.Cause)
	}
	return fmt.Sprintf("inference error for %s: %s", e.Endpoint, msg)
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}

// DecodeError represents a provider payload that matched none of the known shapes
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err carries a RetryableError
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
