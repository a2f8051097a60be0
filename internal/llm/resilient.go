package llm

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

// Backend is one named client in a failover chain
type Backend struct {
	Name   string
	Client Client
}

// ResilientOptions tunes retries and circuit breaking. Zero values take the defaults.
type ResilientOptions struct {
	MaxTries         uint
	InitialInterval  time.Duration
	MaxInterval      time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

func (o ResilientOptions) withDefaults() ResilientOptions {
	if o.MaxTries == 0 {
		o.MaxTries = 3
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = 2 * time.Second
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = 10 * time.Second
	}
	return o
}

type backend struct {
	Backend
	breaker *CircuitBreaker
}

// ResilientClient tries its backends in order. Each backend call is retried
// with exponential backoff and guarded by its own circuit breaker; a backend
// whose circuit is open is skipped.
type ResilientClient struct {
	backends []*backend
	opts     ResilientOptions
	logger   zerolog.Logger
	requests atomic.Int64
	failed   atomic.Int64
}

// NewResilientClient wraps backends, highest priority first
func NewResilientClient(backends []Backend, opts ResilientOptions, logger zerolog.Logger) *ResilientClient {
	opts = opts.withDefaults()
	rc := &ResilientClient{opts: opts, logger: logger}
	for _, b := range backends {
		if b.Client == nil {
			continue
		}
		rc.backends = append(rc.backends, &backend{
			Backend: b,
			breaker: NewCircuitBreaker(opts.FailureThreshold, opts.Cooldown),
		})
	}
	return rc
}

// GenerateContent generates text with the first backend that succeeds
func (r *ResilientClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return r.do(ctx, func(ctx context.Context, c Client) (string, error) {
		return c.GenerateContent(ctx, prompt, tier)
	})
}

// GenerateJSON generates JSON with the first backend that succeeds
func (r *ResilientClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return r.do(ctx, func(ctx context.Context, c Client) (string, error) {
		return c.GenerateJSON(ctx, prompt, tier)
	})
}

// GetModel returns the model of the first backend whose circuit is not open
func (r *ResilientClient) GetModel(tier ModelTier) string {
	for _, b := range r.backends {
		if state, _ := b.breaker.State(); state != CircuitOpen {
			return b.Client.GetModel(tier)
		}
	}
	return ""
}

// Close closes every backend
func (r *ResilientClient) Close() error {
	var errs []error
	for _, b := range r.backends {
		if err := b.Client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *ResilientClient) do(ctx context.Context, call func(context.Context, Client) (string, error)) (string, error) {
	r.requests.Add(1)

	var attempted []string
	var lastErr error
	for i, b := range r.backends {
		if !b.breaker.Allow() {
			continue
		}
		attempted = append(attempted, b.Name)

		out, err := backoff.Retry(ctx, func() (string, error) {
			out, err := call(ctx, b.Client)
			if err != nil {
				b.breaker.RecordFailure()
				return "", retryClass(err)
			}
			b.breaker.RecordSuccess()
			return out, nil
		}, backoff.WithBackOff(r.newBackOff()), backoff.WithMaxTries(r.opts.MaxTries))
		if err == nil {
			if i > 0 {
				r.logger.Info().Str("backend", b.Name).Msg("llm request served by fallback backend")
			}
			return out, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		r.logger.Warn().Err(err).Str("backend", b.Name).Msg("llm backend failed")
	}

	r.failed.Add(1)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return "", &UnavailableError{Attempted: attempted, Cause: lastErr}
}

func (r *ResilientClient) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.opts.InitialInterval
	b.MaxInterval = r.opts.MaxInterval
	return b
}

// retryClass marks errors that retrying cannot fix as permanent and honors
// Retry-After on rate limits
func retryClass(err error) error {
	var status *StatusError
	if errors.As(err, &status) {
		if !status.Retryable() {
			return backoff.Permanent(err)
		}
		if status.RetryAfter > 0 {
			return backoff.RetryAfter(int(status.RetryAfter / time.Second))
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return backoff.Permanent(err)
}

// BackendHealth is the breaker state of one backend
type BackendHealth struct {
	Name     string       `json:"name"`
	State    CircuitState `json:"status"`
	Failures int          `json:"failures"`
}

// Health summarizes backend state and request counters
type Health struct {
	Backends       []BackendHealth `json:"backends"`
	TotalRequests  int64           `json:"total_requests"`
	FailedRequests int64           `json:"failed_requests"`
}

// Health reports the state of every backend
func (r *ResilientClient) Health() Health {
	h := Health{
		TotalRequests:  r.requests.Load(),
		FailedRequests: r.failed.Load(),
	}
	for _, b := range r.backends {
		state, failures := b.breaker.State()
		h.Backends = append(h.Backends, BackendHealth{Name: b.Name, State: state, Failures: failures})
	}
	return h
}

// Available reports whether any backend may currently be called
func (r *ResilientClient) Available() bool {
	for _, b := range r.backends {
		if state, _ := b.breaker.State(); state != CircuitOpen {
			return true
		}
	}
	return false
}
