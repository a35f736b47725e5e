package http

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/http/ratelimit"
)

func fastRetryConfig(maxRetries int) ratelimit.Config {
	return ratelimit.Config{
		MaxRetries:       maxRetries,
		InitialBackoffMs: 1,
		MaxBackoffMs:     5,
	}
}

// TestClientRetriesServerErrors tests that 5xx responses are retried
// until a success arrives
func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(nethttp.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	client := NewClient(fastRetryConfig(3), 5*time.Second)

	var out map[string]string
	err := client.GetJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, int32(3), calls.Load())
}

// TestClientExhaustsRetries tests the typed error after the retry budget
// runs out
func TestClientExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(fastRetryConfig(2), 5*time.Second)

	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var retryErr *ratelimit.FetchRetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, 3, retryErr.Attempts)
	assert.Equal(t, nethttp.StatusBadGateway, retryErr.LastStatus)
	assert.Equal(t, int32(3), calls.Load())
}

// TestClientDoesNotRetryClientErrors tests that a 404 fails on the first
// attempt
func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(fastRetryConfig(3), 5*time.Second)

	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var retryErr *ratelimit.FetchRetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, 1, retryErr.Attempts)
	assert.Equal(t, int32(1), calls.Load())
}

// TestClientReplaysBodyOnRetry tests that the request body is resent on
// every attempt
func TestClientReplaysBodyOnRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 7, body["value"])
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		if calls.Add(1) < 2 {
			w.WriteHeader(nethttp.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"value": 8})
	}))
	defer srv.Close()

	client := NewClient(fastRetryConfig(2), 5*time.Second)

	var out map[string]int
	err := client.DoJSON(context.Background(), nethttp.MethodPost, srv.URL, map[string]int{"value": 7}, &out)
	require.NoError(t, err)
	assert.Equal(t, 8, out["value"])
	assert.Equal(t, int32(2), calls.Load())
}

// TestClientSetsUserAgent tests the identifying request headers
func TestClientSetsUserAgent(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "RestockAgent/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	client := NewClient(fastRetryConfig(0), 5*time.Second)
	var out map[string]any
	require.NoError(t, client.GetJSON(context.Background(), srv.URL, &out))
}

// TestClientContextCancellation tests that cancellation interrupts the
// backoff sleep
func TestClientContextCancellation(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ratelimit.Config{
		MaxRetries:       5,
		InitialBackoffMs: 10000,
		MaxBackoffMs:     30000,
	}, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Get(ctx, srv.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
