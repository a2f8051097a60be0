package llm

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// StatusError is a non-200 reply from a chat completions endpoint
type StatusError struct {
	Model      string
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Model, e.StatusCode, e.Body)
}

// Retryable reports whether the same request may succeed later
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// ResponseError is a 200 reply that carried no usable content
type ResponseError struct {
	Message string
	Cause   error
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid llm response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid llm response: %s", e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}

// UnavailableError is returned when every backend failed or had an open circuit
type UnavailableError struct {
	Attempted []string
	Cause     error
}

func (e *UnavailableError) Error() string {
	if len(e.Attempted) == 0 {
		return "all llm backends unavailable"
	}
	msg := fmt.Sprintf("all llm backends failed (tried %s)", strings.Join(e.Attempted, ", "))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
