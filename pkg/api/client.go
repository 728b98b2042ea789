package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"igboard/pkg/errors"
	"igboard/pkg/logger"
	"igboard/pkg/ratelimit"
)

// Client is the backend REST API client. It performs no retries and holds no
// shared state; retry is the caller's responsibility.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    ratelimit.Limiter
	logger     logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimiter paces requests through the given limiter
func WithRateLimiter(l ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a new backend API client
func NewClient(baseURL string, timeout time.Duration, log logger.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.GetLogger()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    ratelimit.Unlimited{},
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend host
func (c *Client) BaseURL() string {
	return c.baseURL
}

// getJSON performs a GET request and decodes the JSON response into target
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	return c.doJSON(ctx, http.MethodGet, url, nil, target)
}

// postJSON performs a POST request with an optional JSON body and decodes the response
func (c *Client) postJSON(ctx context.Context, url string, body, target interface{}) error {
	return c.doJSON(ctx, http.MethodPost, url, body, target)
}

func (c *Client) doJSON(ctx context.Context, method, url string, body, target interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.NewParsingError(0, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return errors.NewNetworkError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.limiter.Wait()

	start := time.Now()
	c.logger.DebugWithFields("sending API request", map[string]interface{}{
		"method": method,
		"url":    url,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("API request failed", map[string]interface{}{
			"method":   method,
			"url":      url,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return errors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError(err)
	}

	c.logger.DebugWithFields("API request completed", map[string]interface{}{
		"method":   method,
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := errors.FromResponse(resp.StatusCode, respBody)
		c.logger.WarnWithFields("API returned error status", map[string]interface{}{
			"method": method,
			"url":    url,
			"status": resp.StatusCode,
			"error":  apiErr.Message,
		})
		return apiErr
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, target); err != nil {
		preview := string(respBody)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse API response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return errors.NewParsingError(resp.StatusCode, err)
	}

	return nil
}
