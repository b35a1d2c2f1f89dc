// Package client provides the HTTP transport for the Steam community
// inventory endpoint, with per-request proxies, metrics and error
// classification.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/steam-inventory-client/pkg/inventory"
)

// DefaultBaseURL is the community inventory endpoint.
const DefaultBaseURL = "https://steamcommunity.com/inventory/"

// DefaultMaxProxies is the number of proxy transports kept open at once.
const DefaultMaxProxies = 8

// maxBodySize caps a page body. A full 5000-asset page is a few MB.
const maxBodySize = 32 << 20

// Prometheus metrics for Steam client operations.
var (
	steamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steam_requests_total",
		Help: "Total Steam inventory requests by status",
	}, []string{"status"})

	steamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "steam_request_duration_seconds",
		Help:    "Steam inventory request duration in seconds by route",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"route"})

	steamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steam_errors_total",
		Help: "Total Steam inventory errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors, including private
	// inventories (403).
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Client fetches raw inventory pages. It implements inventory.PageFetcher.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger

	mu      sync.Mutex
	proxied *lru.Cache[string, *http.Client]
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the inventory endpoint; the path
	// {account}/{app}/{context} is appended to it.
	BaseURL string

	// User-Agent header sent with every request.
	UserAgent string

	// Timeout bounds a single request including redirects and body.
	Timeout time.Duration

	// MaxProxies bounds the cached proxy transports. The least recently
	// used one is closed when a new proxy would exceed it.
	MaxProxies int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent:  userAgent,
		Timeout:    30 * time.Second,
		MaxProxies: DefaultMaxProxies,
	}
}

// New creates a new Steam inventory client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %s)", cfg.Timeout)
	}

	if cfg.MaxProxies <= 0 {
		cfg.MaxProxies = DefaultMaxProxies
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	// Initialize logger
	logger := log.With().Str("component", "steam-client").Logger()

	proxied, err := lru.NewWithEvict(cfg.MaxProxies, func(proxy string, hc *http.Client) {
		hc.CloseIdleConnections()
		logger.Debug().Str("proxy", redactProxy(proxy)).Msg("Evicted proxy transport")
	})
	if err != nil {
		return nil, fmt.Errorf("create proxy cache: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config:  cfg,
		logger:  logger,
		proxied: proxied,
	}, nil
}

// PageURL builds the request URL for one inventory page. start_assetid is
// only present when the request carries a cursor.
func (c *Client) PageURL(req inventory.PageRequest) string {
	query := url.Values{}
	query.Set("l", req.Language)
	query.Set("count", strconv.Itoa(req.Count))
	if req.Cursor != "" {
		query.Set("start_assetid", req.Cursor)
	}

	return c.config.BaseURL +
		url.PathEscape(req.AccountID) + "/" +
		url.PathEscape(req.AppID) + "/" +
		url.PathEscape(req.ContextID) +
		"?" + query.Encode()
}

// FetchPage requests one inventory page and returns its body. Any
// non-200 status is returned as a *RequestError.
func (c *Client) FetchPage(ctx context.Context, req inventory.PageRequest) ([]byte, error) {
	route := "direct"
	if req.Proxy != "" {
		route = "proxy"
	}

	// Start request timing
	startTime := time.Now()
	defer func() {
		steamRequestDuration.WithLabelValues(route).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Select transport
	httpClient, err := c.clientFor(req.Proxy)
	if err != nil {
		return nil, err
	}

	// Step 2: Build request
	pageURL := c.PageURL(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("Accept", "application/json")

	logger := c.logger.With().
		Str("account_id", req.AccountID).
		Str("app_id", req.AppID).
		Str("context_id", req.ContextID).
		Str("route", route).
		Logger()

	logger.Debug().
		Int("count", req.Count).
		Str("cursor", req.Cursor).
		Msg("Executing inventory request")

	// Step 3: Execute HTTP request
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		errClass := c.classifyError(nil, err)
		steamErrorsTotal.WithLabelValues(string(errClass)).Inc()
		steamRequestsTotal.WithLabelValues("network_error").Inc()
		logger.Error().Err(err).Msg("HTTP request failed")
		return nil, &RequestError{
			ErrorClass: errClass,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	// Step 4: Handle HTTP errors
	if resp.StatusCode != http.StatusOK {
		errClass := c.classifyError(resp, nil)
		steamErrorsTotal.WithLabelValues(string(errClass)).Inc()
		steamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

		logger.Warn().
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Steam request error")

		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	// Step 5: Read body
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		steamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		steamRequestsTotal.WithLabelValues("network_error").Inc()
		logger.Error().Err(err).Msg("Reading response body failed")
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read body",
			Err:        err,
		}
	}

	steamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	logger.Debug().
		Int("bytes", len(body)).
		Dur("duration", time.Since(startTime)).
		Msg("Inventory request complete")

	return body, nil
}

// clientFor returns the HTTP client for a proxy URL, building and caching
// one transport per distinct proxy, at most MaxProxies of them. An empty
// proxy uses the direct client.
func (c *Client) clientFor(proxy string) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if proxy == "" {
		return c.httpClient, nil
	}
	if hc, ok := c.proxied.Get(proxy); ok {
		return hc, nil
	}

	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("parse proxy: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(proxyURL)

	hc := &http.Client{
		Transport: transport,
		Timeout:   c.config.Timeout,
	}
	c.proxied.Add(proxy, hc)

	c.logger.Debug().Str("proxy", proxyURL.Redacted()).Msg("Created proxy transport")
	return hc, nil
}

// classifyError categorizes an error for observability and handling.
func (c *Client) classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		c.logger.Debug().Str("class", string(ErrorClassNetwork)).Msg("Error classified")
		return ErrorClassNetwork
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Debug().Str("class", string(ErrorClassRateLimit)).Msg("Error classified")
		return ErrorClassRateLimit
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		c.logger.Debug().Str("class", string(ErrorClassClient)).Msg("Error classified")
		return ErrorClassClient
	case resp.StatusCode >= 500:
		c.logger.Debug().Str("class", string(ErrorClassServer)).Msg("Error classified")
		return ErrorClassServer
	default:
		return ""
	}
}

// Close releases idle connections of every transport.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.httpClient.CloseIdleConnections()
	c.proxied.Purge()
	return nil
}

func redactProxy(proxy string) string {
	u, err := url.Parse(proxy)
	if err != nil {
		return ""
	}
	return u.Redacted()
}

// SetHTTPClient sets a custom HTTP client for direct requests (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpClient = client
}
