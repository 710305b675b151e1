// Package fetch retrieves season pages politely: requests are spaced by a token bucket,
// retried on throttling and server errors, sanitized, and cached by URL.
package fetch

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/markup"
	"github.com/huangsam/almanac/internal/metrics"
)

// cacheVersion is bumped whenever the sanitize policy changes what gets stored.
const cacheVersion = 1

// Options configures a Client.
type Options struct {
	Rate      float64 // requests per second
	Burst     int
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
	UserAgent string
	CacheTTL  time.Duration
}

// OptionsFromConfig maps the validated runtime config onto fetch options.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{
		Rate:      cfg.Rate,
		Burst:     cfg.Burst,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		UserAgent: cfg.UserAgent,
		CacheTTL:  cfg.CacheTTL,
	}
}

// Client fetches pages over HTTP through an optional page cache.
type Client struct {
	http    *resty.Client
	cache   contract.CacheStore
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Manager
	now     func() time.Time
}

var _ contract.PageFetcher = &Client{} // Compile-time check

// New builds a client. cache and m may be nil.
func New(opts Options, cache contract.CacheStore, m *metrics.Manager, logger *slog.Logger) *Client {
	if opts.Rate <= 0 {
		opts.Rate = contract.DefaultRate
	}
	if opts.Burst <= 0 {
		opts.Burst = contract.DefaultBurst
	}
	if opts.Timeout <= 0 {
		opts.Timeout = contract.DefaultTimeout
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = 2 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = contract.DefaultUserAgent
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = contract.DefaultCacheTTL
	}

	httpClient := resty.New()
	httpClient.SetHeader("User-Agent", opts.UserAgent)
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetRetryCount(opts.Retries)
	httpClient.SetRetryWaitTime(opts.RetryWait)
	httpClient.SetRetryMaxWaitTime(opts.RetryWait * 8)
	httpClient.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}
		return Retryable(resp.StatusCode())
	})

	limiter := rate.NewLimiter(rate.Limit(opts.Rate), opts.Burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{
		http:    httpClient,
		cache:   cache,
		ttl:     opts.CacheTTL,
		logger:  contract.OrDiscard(logger),
		metrics: m,
		now:     time.Now,
	}
}

// Retryable reports whether a status code is worth another attempt.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// CacheKey returns the page cache key of a URL.
func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// FetchPage returns the sanitized markup of url, from the cache when a fresh copy exists.
func (c *Client) FetchPage(ctx context.Context, url string) ([]byte, error) {
	key := CacheKey(url)
	if body, ok := c.cached(key, url); ok {
		c.metrics.RecordFetch(metrics.FetchCached, 0)
		return body, nil
	}

	start := c.now()
	resp, err := c.http.R().SetContext(ctx).Get(url)
	elapsed := c.now().Sub(start)
	if err != nil {
		c.metrics.RecordFetch(metrics.FetchFailed, elapsed)
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.IsError() {
		c.metrics.RecordFetch(metrics.FetchFailed, elapsed)
		return nil, fmt.Errorf("failed to fetch %s: HTTP %d", url, resp.StatusCode())
	}
	c.metrics.RecordFetch(metrics.FetchOK, elapsed)
	c.logger.Info("fetched page", "url", url, "status", resp.StatusCode(), "bytes", len(resp.Body()), "elapsed", elapsed)

	body := markup.Sanitize(resp.Body())
	if c.cache != nil {
		if err := c.cache.Set(key, body, cacheVersion, c.now().Unix()); err != nil {
			c.logger.Warn("failed to cache page", "url", url, "err", err)
		}
	}
	return body, nil
}

// cached returns a fresh cache entry for key.
func (c *Client) cached(key, url string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, version, ts, err := c.cache.Get(key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Warn("failed to read page cache", "url", url, "err", err)
		}
		return nil, false
	}
	if version != cacheVersion {
		c.logger.Debug("cache entry outdated", "url", url, "version", version)
		return nil, false
	}
	if age := c.now().Sub(time.Unix(ts, 0)); age > c.ttl {
		c.logger.Debug("cache entry expired", "url", url, "age", age)
		return nil, false
	}
	c.logger.Debug("cache hit", "url", url)
	return body, true
}
