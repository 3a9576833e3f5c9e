// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetJSON(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"phm"}`))
	}))
	defer ts.Close()

	c := NewClient(Options{HTTPClient: ts.Client(), UserAgent: "phm-curator/test"})
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.GetJSON(context.Background(), ts.URL, &v))
	assert.Equal(t, "phm", v.Name)
	assert.Equal(t, "phm-curator/test", gotUA)
}

func TestClientNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(Options{HTTPClient: ts.Client()})
	err := c.GetJSON(context.Background(), ts.URL, &struct{}{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "closed", c.State(), "client errors do not trip the breaker")
}

func TestClientBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewClient(Options{
		Name:            "test",
		HTTPClient:      ts.Client(),
		MaxRetries:      1,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	})

	for i := 0; i < 2; i++ {
		err := c.GetJSON(context.Background(), ts.URL, &struct{}{})
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	}
	assert.Equal(t, "open", c.State())

	before := atomic.LoadInt32(&calls)
	err := c.GetJSON(context.Background(), ts.URL, &struct{}{})
	assert.True(t, IsCircuitOpen(err))
	assert.Equal(t, before, atomic.LoadInt32(&calls), "open breaker must not reach the server")
}

func TestClientRateLimitHonorsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := NewClient(Options{HTTPClient: ts.Client(), RequestsPerSecond: 0.01})
	require.NoError(t, c.GetJSON(context.Background(), ts.URL, &struct{}{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.GetJSON(ctx, ts.URL, &struct{}{})
	assert.Error(t, err, "second request must wait for a token and hit the deadline")
}

func TestClientRateLimitsRetries(t *testing.T) {
	var mu sync.Mutex
	var hits []time.Time
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		hits = append(hits, time.Now())
		n := len(hits)
		mu.Unlock()
		if n < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := NewClient(Options{HTTPClient: ts.Client(), RequestsPerSecond: 10, MaxRetries: 3})
	require.NoError(t, c.GetJSON(context.Background(), ts.URL, &struct{}{}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hits, 3)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i].Sub(hits[i-1]), 80*time.Millisecond,
			"retry %d ran ahead of the rate limit", i)
	}
}

func TestRetryable(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		assert.True(t, Retryable(code), "%d", code)
	}
	for _, code := range []int{200, 301, 400, 401, 404} {
		assert.False(t, Retryable(code), "%d", code)
	}
}
