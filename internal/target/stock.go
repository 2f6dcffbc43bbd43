package target

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/1TapDev/Target-Monitor/internal/metrics"
	domain "github.com/1TapDev/Target-Monitor/pkg/types"
)

const (
	defaultStockURL   = "https://api.snormax.com/stock/target"
	defaultMaxRetries = 3
)

// StockClient implements Client against the Target stock lookup endpoint.
type StockClient struct {
	stockURL     string
	client       *http.Client
	rateLimiter  *RateLimiter
	maxRetries   int
	cacheBusting bool
	nowFunc      func() time.Time
}

// StockOption configures the StockClient.
type StockOption func(*StockClient)

// WithStockURL overrides the default stock endpoint.
func WithStockURL(u string) StockOption {
	return func(c *StockClient) {
		c.stockURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) StockOption {
	return func(c *StockClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a limiter that paces outbound calls and enforces
// the daily budget. When set, every FetchStock attempt goes through Wait()
// first.
func WithRateLimiter(r *RateLimiter) StockOption {
	return func(c *StockClient) {
		c.rateLimiter = r
	}
}

// WithMaxRetries bounds the attempts per fetch (including the first).
func WithMaxRetries(n int) StockOption {
	return func(c *StockClient) {
		c.maxRetries = n
	}
}

// WithCacheBusting adds no-cache headers and throwaway query parameters so
// intermediate caches don't serve stale availability.
func WithCacheBusting(enabled bool) StockOption {
	return func(c *StockClient) {
		c.cacheBusting = enabled
	}
}

// NewStockClient creates a stock API client with a bounded request timeout.
func NewStockClient(opts ...StockOption) *StockClient {
	c := &StockClient{
		stockURL:   defaultStockURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		maxRetries: defaultMaxRetries,
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchStock implements Client. Transient failures are retried with
// exponential backoff up to the configured attempt budget; malformed
// payloads and daily-limit exhaustion are surfaced immediately.
func (c *StockClient) FetchStock(
	ctx context.Context,
	sku, zip string,
) (domain.Snapshot, error) {
	backoffCfg := backoff.NewExponentialBackOff()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			sleep := backoffCfg.NextBackOff()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(sleep):
			}
		}

		snapshot, err := c.fetchOnce(ctx, sku, zip)
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, ErrTransient) {
			return nil, err
		}
		lastErr = err
	}

	metrics.FetchFailuresTotal.Inc()
	return nil, fmt.Errorf("fetching stock for %s/%s after %d attempts: %w",
		sku, zip, c.maxRetries, lastErr)
}

func (c *StockClient) fetchOnce(ctx context.Context, sku, zip string) (domain.Snapshot, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.DailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.DailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}
	metrics.FetchesTotal.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(sku, zip), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", "https://www.snormax.com")
	req.Header.Set("Referer", "https://www.snormax.com/")
	if c.cacheBusting {
		req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		req.Header.Set("Pragma", "no-cache")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: requesting stock for %s/%s: %w", ErrTransient, sku, zip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: stock API returned %d for %s/%s",
			ErrTransient, resp.StatusCode, sku, zip)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading stock response: %w", ErrTransient, err)
	}

	var payload stockResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		// Undecodable payloads are handled like any other transient failure.
		return nil, fmt.Errorf("%w: %w: decoding stock response: %w",
			ErrTransient, ErrMalformedResponse, err)
	}

	snapshot, err := toSnapshot(sku, &payload, c.nowFunc().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return snapshot, nil
}

func (c *StockClient) buildURL(sku, zip string) string {
	params := url.Values{}
	params.Set("sku", sku)
	params.Set("zip", zip)

	if c.cacheBusting {
		params.Set("_t", strconv.FormatInt(c.nowFunc().UnixMilli(), 10))
		params.Set("_r", strconv.Itoa(1000+rand.Intn(9000))) //nolint:gosec // not security sensitive
	}

	return c.stockURL + "?" + params.Encode()
}
