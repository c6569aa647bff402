package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = `<?xml version="1.0"?><yml_catalog><shop/></yml_catalog>`

func testClient(maxRetries int) *Client {
	return NewClient(Config{
		RequestsPerSecond: 1000,
		MaxRetries:        maxRetries,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		MaxSize:           1024,
	}, zerolog.Nop())
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultConfig().UserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	doc, err := testClient(0).Fetch(context.Background(), srv.URL+"/exports/shop.xml")
	require.NoError(t, err)
	assert.Equal(t, feed, string(doc.Content))
	assert.Equal(t, "shop.xml", doc.Filename)
	assert.Equal(t, "application/xml", doc.ContentType)
}

func TestFetchContentDispositionName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="../catalog.xml"`)
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	doc, err := testClient(0).Fetch(context.Background(), srv.URL+"/download?id=1")
	require.NoError(t, err)
	assert.Equal(t, "catalog.xml", doc.Filename)
}

func TestFetchRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.Write([]byte(feed))
		}
	}))
	defer srv.Close()

	doc, err := testClient(3).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, feed, string(doc.Content))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "feed.xml", doc.Filename)
}

func TestFetchErrors(t *testing.T) {
	t.Run("non-retryable status", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := testClient(3).Fetch(context.Background(), srv.URL)
		var retryErr *RetryError
		require.ErrorAs(t, err, &retryErr)
		assert.Equal(t, http.StatusNotFound, retryErr.LastStatus)
		assert.Equal(t, 1, retryErr.Attempts)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries exhausted", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := testClient(2).Fetch(context.Background(), srv.URL)
		var retryErr *RetryError
		require.ErrorAs(t, err, &retryErr)
		assert.Equal(t, 3, retryErr.Attempts)
		assert.Contains(t, err.Error(), "HTTP 502")
	})

	t.Run("too large", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(strings.Repeat("x", 2048)))
		}))
		defer srv.Close()

		_, err := testClient(3).Fetch(context.Background(), srv.URL)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("invalid url", func(t *testing.T) {
		for _, u := range []string{"ftp://example.com/feed.xml", "not a url", "http://"} {
			_, err := testClient(0).Fetch(context.Background(), u)
			assert.Error(t, err, u)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := testClient(0).Fetch(ctx, "http://example.com/feed.xml")
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestBackoff(t *testing.T) {
	cfg := Config{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second}

	tests := []struct {
		attempt int
		min     time.Duration
		max     time.Duration
	}{
		{0, 100 * time.Millisecond, 125 * time.Millisecond},
		{2, 400 * time.Millisecond, 500 * time.Millisecond},
		{10, time.Second, 1250 * time.Millisecond},
	}
	for _, tt := range tests {
		d := Backoff(tt.attempt, cfg)
		assert.GreaterOrEqual(t, d, tt.min, "attempt %d", tt.attempt)
		assert.LessOrEqual(t, d, tt.max, "attempt %d", tt.attempt)
	}

	d := RateLimitBackoff(0, cfg, "2")
	assert.GreaterOrEqual(t, d, 2*time.Second)
	assert.Less(t, d, 3*time.Second)

	d = RateLimitBackoff(1, cfg, "soon")
	assert.GreaterOrEqual(t, d, 300*time.Millisecond)
	assert.LessOrEqual(t, d, 375*time.Millisecond)
}

func TestIsRetryableStatus(t *testing.T) {
	for status, want := range map[int]bool{
		200: false, 400: false, 404: false,
		429: true, 500: true, 503: true, 599: true,
	} {
		assert.Equal(t, want, IsRetryableStatus(status), "status %d", status)
	}
}
