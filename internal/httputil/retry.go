// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP plumbing shared by the bibliographic
// sources: retry with backoff, request rate limiting and a circuit breaker.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

// MaxRetryDelay caps a single backoff wait, including Retry-After hints.
var MaxRetryDelay = 60 * time.Second

const defaultMaxRetries = 3

// Retryable reports whether an HTTP status is worth retrying: 429 and the
// transient 5xx codes.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry executes an HTTP request and retries retryable statuses with
// exponential backoff starting at RetryBaseDelay and doubling each attempt.
// A numeric Retry-After header replaces the computed delay.
//
// When maxRetries is 0 the default (3) is used. The body of each retried
// response is drained and closed before sleeping. If the context is
// cancelled during a backoff wait the function returns ctx.Err(). After
// exhausting retries the last response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		backoff := backoffFor(resp, attempt)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func backoffFor(resp *http.Response, attempt int) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
			d = time.Duration(secs) * time.Second
		}
	}
	return min(d, MaxRetryDelay)
}
