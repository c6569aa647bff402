package fetch

import (
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// RetryError is returned when a feed could not be fetched
type RetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *RetryError) Error() string {
	msg := fmt.Sprintf("failed to fetch %s after %d attempts", e.URL, e.Attempts)
	if e.LastStatus != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.LastStatus)
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *RetryError) Unwrap() error {
	return e.LastError
}

// IsRetryableStatus reports whether a response status is worth retrying:
// 429 and all 5xx
func IsRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// Backoff is the exponential delay before retry attempt+1, capped at
// MaxBackoff, with up to 25% jitter
func Backoff(attempt int, cfg Config) time.Duration {
	return backoff(attempt, 2, cfg)
}

// RateLimitBackoff is the delay after a 429. A positive Retry-After in
// seconds wins; otherwise the delay grows by 3x per attempt.
func RateLimitBackoff(attempt int, cfg Config, retryAfter string) time.Duration {
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds)*time.Second + time.Duration(rand.Int63n(int64(time.Second)))
	}
	return backoff(attempt, 3, cfg)
}

func backoff(attempt int, factor float64, cfg Config) time.Duration {
	delay := float64(cfg.InitialBackoff) * math.Pow(factor, float64(attempt))
	delay = math.Min(delay, float64(cfg.MaxBackoff))
	return time.Duration(delay + rand.Float64()*0.25*delay)
}
