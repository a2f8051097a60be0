// Package server provides the HTTP API for scoring, planning and tailoring resumes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-ats/internal/jobs"
	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/regeneration"
	"github.com/jonathan/resume-ats/internal/scoring"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnavailable indicates a feature that is not configured on this server
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not enabled on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation     *ErrValidation
		fieldErrors    validator.ValidationErrors
		requestErr     *jobs.RequestError
		parseInput     *parsing.ValidationError
		configErr      *regeneration.ConfigError
		scoringInput   *scoring.InputError
		notFound       *ErrNotFound
		jobNotFound    *jobs.NotFoundError
		unavailable    *ErrUnavailable
		llmUnavailable *llm.UnavailableError
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &fieldErrors), errors.As(err, &requestErr),
		errors.As(err, &parseInput), errors.As(err, &configErr), errors.As(err, &scoringInput):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &jobNotFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &llmUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
