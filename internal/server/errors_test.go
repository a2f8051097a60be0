package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ats/internal/jobs"
	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/regeneration"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation error: resume - resume is required", (&ErrValidation{Field: "resume", Message: "resume is required"}).Error())
	assert.Equal(t, "run not found: abc", (&ErrNotFound{Resource: "run", ID: "abc"}).Error())
	assert.Equal(t, "run history is not enabled on this server", (&ErrUnavailable{Feature: "run history"}).Error())
}

func TestHTTPStatus(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}
	fieldErr := validator.New().Struct(payload{})
	require.Error(t, fieldErr)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "resume"}, http.StatusBadRequest},
		{"struct tags", fieldErr, http.StatusBadRequest},
		{"tailor request", &jobs.RequestError{Field: "profile"}, http.StatusBadRequest},
		{"job text", &parsing.ValidationError{Field: "job_text"}, http.StatusBadRequest},
		{"generation config", &regeneration.ConfigError{Message: "bad"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("decode: %w", &ErrValidation{}), http.StatusBadRequest},
		{"not found", &ErrNotFound{Resource: "run"}, http.StatusNotFound},
		{"job not found", &jobs.NotFoundError{ID: uuid.New()}, http.StatusNotFound},
		{"unavailable", &ErrUnavailable{Feature: "run history"}, http.StatusServiceUnavailable},
		{"llm down", &llm.UnavailableError{Attempted: []string{"gemini"}}, http.StatusBadGateway},
		{"deadline", fmt.Errorf("score: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
