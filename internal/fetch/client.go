package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// ErrTooLarge is returned when a feed exceeds Config.MaxSize
var ErrTooLarge = errors.New("feed exceeds size limit")

// Config tunes a Client
type Config struct {
	RequestsPerSecond float64
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	Timeout           time.Duration
	MaxSize           int64
	UserAgent         string
}

// DefaultConfig returns the default fetch configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 2,
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		Timeout:           60 * time.Second,
		MaxSize:           64 << 20,
		UserAgent:         "Kosarica-FeedService/1.0",
	}
}

// Document is a downloaded feed
type Document struct {
	URL         string
	Filename    string
	ContentType string
	Content     []byte
}

// Client downloads feeds with a shared rate limit and retries
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	config     Config
	logger     zerolog.Logger
}

// NewClient creates a Client. Unset fields other than MaxRetries take
// their defaults.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	def := DefaultConfig()
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		config:     cfg,
		logger:     logger.With().Str("component", "fetch").Logger(),
	}
}

// Config returns the effective configuration
func (c *Client) Config() Config {
	return c.config
}

var tracer = otel.Tracer("github.com/kosarica/feed-service/internal/fetch")

// Fetch downloads the feed at rawURL, retrying 429 and 5xx responses
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	ctx, span := tracer.Start(ctx, "fetch.Fetch", trace.WithAttributes(attribute.String("url.full", rawURL)))
	defer span.End()

	doc, err := c.download(ctx, rawURL)
	if err != nil {
		var retryErr *RetryError
		if errors.As(err, &retryErr) {
			span.SetAttributes(
				attribute.Int("fetch.attempts", retryErr.Attempts),
				attribute.Int("http.response.status_code", retryErr.LastStatus),
			)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("fetch.bytes", len(doc.Content)))
	return doc, nil
}

func (c *Client) download(ctx context.Context, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid feed url %q", rawURL)
	}

	var lastStatus int
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		doc, status, retryAfter, err := c.get(ctx, rawURL)
		if err == nil {
			c.logger.Info().
				Str("url", rawURL).
				Int("bytes", len(doc.Content)).
				Int("attempt", attempt+1).
				Msg("Fetched feed")
			return doc, nil
		}
		lastStatus, lastErr = status, err

		retryable := status == 0 || IsRetryableStatus(status)
		if errors.Is(err, ErrTooLarge) || ctx.Err() != nil || !retryable || attempt == c.config.MaxRetries {
			return nil, &RetryError{URL: rawURL, Attempts: attempt + 1, LastStatus: lastStatus, LastError: lastErr}
		}

		delay := Backoff(attempt, c.config)
		if status == http.StatusTooManyRequests {
			delay = RateLimitBackoff(attempt, c.config, retryAfter)
		}
		c.logger.Warn().
			Err(err).
			Str("url", rawURL).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("Feed fetch failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, &RetryError{URL: rawURL, Attempts: c.config.MaxRetries + 1, LastStatus: lastStatus, LastError: lastErr}
}

// get performs one attempt. status is 0 when no response was received.
func (c *Client) get(ctx context.Context, rawURL string) (*Document, int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, "", err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/xml, text/xml, */*")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, resp.Header.Get("Retry-After"), fmt.Errorf("unexpected status %s", resp.Status)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxSize+1))
	if err != nil {
		return nil, resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(content)) > c.config.MaxSize {
		return nil, resp.StatusCode, "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.config.MaxSize)
	}

	return &Document{
		URL:         rawURL,
		Filename:    filenameFor(resp),
		ContentType: resp.Header.Get("Content-Type"),
		Content:     content,
	}, resp.StatusCode, "", nil
}

// filenameFor prefers the Content-Disposition filename and falls back to the
// last path segment of the final request URL
func filenameFor(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			return path.Base(params["filename"])
		}
	}
	if resp.Request != nil && resp.Request.URL != nil {
		if base := path.Base(resp.Request.URL.Path); base != "/" && base != "." {
			return base
		}
	}
	return "feed.xml"
}
