package csrf

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func TestCache_FetchesOnceWhileFresh(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprintf(w, `{"csrfToken":"tok-%d","expiresIn":3600}`, calls.Load())
	}))
	defer srv.Close()

	cache := NewCache(srv.URL)

	tok1, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok1)

	tok2, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok2, "second call served from cache")
	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_RefreshesBeforeExpiry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprintf(w, `{"csrfToken":"tok-%d","expiresIn":60}`, calls.Load())
	}))
	defer srv.Close()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	cache := NewCache(srv.URL).WithClock(func() time.Time { return now }, noSleep)

	tok, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// 20s in: expiry is 40s away, beyond the 30s skew — still cached.
	now = now.Add(20 * time.Second)
	tok, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// 35s in: within the skew window — refreshed even though not expired.
	now = now.Add(15 * time.Second)
	tok, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
}

func TestCache_RetriesWithBackoff(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"csrfToken":"tok","expiresIn":3600}`)
	}))
	defer srv.Close()

	var slept []time.Duration
	sleep := func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	cache := NewCache(srv.URL).
		WithRetry(3, 100*time.Millisecond, time.Second).
		WithClock(time.Now, sleep)

	tok, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, slept, "exponential backoff")
}

func TestCache_GivesUpAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cache := NewCache(srv.URL).
		WithRetry(2, time.Millisecond, time.Millisecond).
		WithClock(time.Now, noSleep)

	_, err := cache.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestCache_Invalidate(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprintf(w, `{"csrfToken":"tok-%d","expiresIn":3600}`, calls.Load())
	}))
	defer srv.Close()

	cache := NewCache(srv.URL)

	tok, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	cache.Invalidate()

	tok, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
}

func TestCache_BackoffRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache := NewCache(srv.URL).WithRetry(3, time.Hour, time.Hour)

	_, err := cache.Token(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
