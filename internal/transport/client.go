// Package transport provides the pooled, retrying, rate-limited HTTP
// client shared by the auth and vendor API layers.
package transport

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// retryableStatus is the fixed set of HTTP statuses worth retrying.
// Anything else — including other 4xx and all 2xx — short-circuits.
var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:     true,
	http.StatusTooManyRequests:    true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// Config tunes one Client instance.
type Config struct {
	UserAgent     string
	RequestTimeout time.Duration
	RetryCount    int
	BackoffFactor time.Duration
	RateLimitRPS  float64
	RateLimitBurst int
}

// APIError wraps a final, non-retryable (or retry-exhausted) HTTP
// failure, carrying the status code for callers that branch on it.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status %d): %s", e.Status, e.StatusCode, e.Body)
}

// Client is a connection-pooled http.Client wrapper that retries a
// fixed set of transient statuses with exponential backoff and throttles
// every request through a token-bucket limiter.
type Client struct {
	http    *http.Client
	cfg     Config
	limiter *rate.Limiter
}

// New builds a Client with a tuned transport (mirroring the connection
// pool settings used by the vendor API clients this was grounded on)
// and the given rate limit.
func New(cfg Config) *Client {
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 1
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 1
	}
	transport := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
	}
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}
}

// NewAuthClient returns a Client preset for the SSO/OAuth host group:
// a mobile-app user agent and a longer timeout (the SSO form flow is
// slower and less latency-sensitive than the data API).
func NewAuthClient() *Client {
	return New(Config{
		UserAgent:      "com.vendor.android/4.99 (Linux; Android 14)",
		RequestTimeout: 15 * time.Second,
		RetryCount:     3,
		BackoffFactor:  time.Second,
		RateLimitRPS:   2,
		RateLimitBurst: 4,
	})
}

// NewAPIClient returns a Client preset for the main data API host group.
func NewAPIClient(rps float64, burst int) *Client {
	return New(Config{
		UserAgent:      "vitalsync/1.0",
		RequestTimeout: 10 * time.Second,
		RetryCount:     3,
		BackoffFactor:  500 * time.Millisecond,
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	})
}

// RequestFunc builds a fresh *http.Request for one attempt. It is
// called once per attempt (not once total) because an *http.Request's
// body reader is consumed after the first send.
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Do executes a request with retry/backoff, waiting on the rate limiter
// before every attempt (including retries). The caller is responsible
// for closing the returned response body.
func (c *Client) Do(ctx context.Context, build RequestFunc) (*http.Response, error) {
	var lastErr error
	var lastResp *http.Response

	for attempt := 0; attempt <= c.cfg.RetryCount; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		if req.Header.Get("User-Agent") == "" && c.cfg.UserAgent != "" {
			req.Header.Set("User-Agent", c.cfg.UserAgent)
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.cfg.RetryCount {
				c.sleepBackoff(ctx, attempt)
				continue
			}
			return nil, fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
		}

		if !retryableStatus[resp.StatusCode] {
			return resp, nil
		}

		lastResp = resp
		if attempt < c.cfg.RetryCount {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			lastErr = &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
			c.sleepBackoff(ctx, attempt)
			continue
		}
	}

	if lastResp != nil {
		body, _ := io.ReadAll(io.LimitReader(lastResp.Body, 4096))
		lastResp.Body.Close()
		return nil, &APIError{StatusCode: lastResp.StatusCode, Status: lastResp.Status, Body: string(body)}
	}
	return nil, lastErr
}

func (c *Client) sleepBackoff(ctx context.Context, attempt int) {
	delay := c.cfg.BackoffFactor * time.Duration(math.Pow(2, float64(attempt)))
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
