package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"capitol-monitor/internal/api"
	"capitol-monitor/internal/logger"
)

// Fixed market-context labels. Every failure path degrades to
// contextUnavailable; the news capability can never fail a cycle.
const (
	contextPrefix      = "Market Context: "
	contextNoNews      = "Market Context: No major recent news found."
	contextUnavailable = "Market Context: Could not fetch news at this time."
)

// NewsProvider supplies a market-context line for a ticker. Implementations
// must degrade internally: MarketContext never returns an error.
type NewsProvider interface {
	MarketContext(ctx context.Context, ticker string) string
}

// NewsAPIClient fetches the most recent headline for a ticker from the
// NewsAPI "everything" endpoint. Lookups are cached per ticker so one
// cycle does not refetch the same symbol.
type NewsAPIClient struct {
	client *api.Client
	apiKey string
	cache  *contextCache
}

type newsResponse struct {
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// NewNewsAPIClient creates a client against the given base URL (the real
// service or a test server).
func NewNewsAPIClient(baseURL, apiKey string, timeout, cacheTTL time.Duration) *NewsAPIClient {
	return &NewsAPIClient{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(timeout),
			// NewsAPI rejects requests that carry no User-Agent.
			api.WithHeader("User-Agent", "capitol-monitor/1.0"),
			api.WithLogging(true),
		),
		apiKey: apiKey,
		cache:  newContextCache(cacheTTL),
	}
}

// MarketContext returns the labelled most-recent headline for the ticker.
// Transport errors, non-2xx responses and malformed bodies all degrade to
// the unavailable label.
func (n *NewsAPIClient) MarketContext(ctx context.Context, ticker string) string {
	if cached, ok := n.cache.get(ticker); ok {
		return cached
	}

	path := fmt.Sprintf("/v2/everything?q=%s&sortBy=publishedAt&apiKey=%s",
		url.QueryEscape(ticker), url.QueryEscape(n.apiKey))

	resp, err := n.client.DoWithRetry(
		api.NewRequest(http.MethodGet, path).WithContext(ctx),
		&api.RetryConfig{MaxAttempts: 2, InitialWait: 200 * time.Millisecond, MaxWait: time.Second},
	)
	if err != nil {
		logger.Warn(ctx, "News fetch failed", "ticker", ticker, "error", err)
		return contextUnavailable
	}

	var parsed newsResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		logger.Warn(ctx, "News response malformed", "ticker", ticker, "error", err)
		return contextUnavailable
	}

	result := contextNoNews
	if len(parsed.Articles) > 0 {
		result = contextPrefix + parsed.Articles[0].Title
	}

	n.cache.set(ticker, result)
	return result
}

// contextCache stores market-context lines temporarily.
type contextCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	value     string
	timestamp time.Time
}

func newContextCache(ttl time.Duration) *contextCache {
	return &contextCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}
}

func (c *contextCache) get(ticker string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[ticker]
	if !exists {
		return "", false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return "", false
	}
	return entry.value, true
}

func (c *contextCache) set(ticker, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[ticker] = &cacheEntry{value: value, timestamp: time.Now()}
}
