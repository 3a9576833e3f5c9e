// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// StatusError is returned when a request still fails with a retryable
// status after all retries.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Options configure a Client. Zero values select defaults.
type Options struct {
	// Name labels the circuit breaker in logs (e.g. "openalex").
	Name string

	Timeout   time.Duration
	UserAgent string

	// RequestsPerSecond limits the request rate. Zero disables limiting.
	RequestsPerSecond float64

	// MaxRetries is passed to DoWithRetry.
	MaxRetries int

	// BreakerFailures is the number of consecutive failures that opens the
	// breaker (default 5). BreakerTimeout is how long it stays open
	// (default 30s).
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	// HTTPClient replaces the underlying client. Tests pass httptest clients.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// Client is a rate-limited, retrying HTTP client guarded by a circuit
// breaker. It is safe for concurrent use.
type Client struct {
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	userAgent  string
	maxRetries int
}

// NewClient builds a client from opts.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	// Every attempt, retries included, takes a token.
	limited := *hc
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	limited.Transport = &limitedTransport{base: base, limiter: limiter}

	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	openFor := opts.BreakerTimeout
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	name := opts.Name
	if name == "" {
		name = "http"
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Client{
		http:       &limited,
		breaker:    gobreaker.NewCircuitBreaker[*http.Response](settings),
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
	}
}

// Do sends req through the breaker with retries. Each attempt waits for the
// rate limiter. A response that still carries a retryable status after the last
// retry is closed and reported as a *StatusError. Other non-2xx responses
// are returned to the caller.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.breaker.Execute(func() (*http.Response, error) {
		resp, err := DoWithRetry(ctx, c.http, req, c.maxRetries)
		if err != nil {
			return nil, err
		}
		if Retryable(resp.StatusCode) {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, &StatusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})
}

type limitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// GetJSON fetches url and decodes a 200 response body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.DoJSON(ctx, req, v)
}

// DoJSON sends req and decodes a 200 response body into v.
func (c *Client) DoJSON(ctx context.Context, req *http.Request, v any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// State returns the breaker state name: closed, half-open or open.
func (c *Client) State() string {
	return c.breaker.State().String()
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
