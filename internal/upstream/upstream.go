// Package upstream is the HTTP client for the moving-company business API.
// The console owns no business data; rosters, delivery requests, hour
// entries, awards and payment rows all live behind this API and are fetched
// fresh on every page load.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config carries the connection settings for the business API.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is a resty-backed client for the business API.
type Client struct {
	http *resty.Client
}

// New builds a Client from the configuration. The API key travels as a
// bearer token on every request.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	rc := resty.New()
	rc.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if cfg.APIKey != "" {
		rc.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &Client{http: rc}
}

// APIError is a non-2xx response from the business API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream api: status %d: %s", e.StatusCode, e.Message)
}

// errorPayload is the error body the API returns alongside a non-2xx status.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (p errorPayload) text() string {
	if p.Message != "" {
		return p.Message
	}
	return p.Error
}

// checkStatus converts a non-2xx response into an *APIError.
func checkStatus(resp *resty.Response, apiErr *errorPayload) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.text()}
}

// Ping checks that the business API is reachable and answering.
func (c *Client) Ping(ctx context.Context) error {
	apiErr := new(errorPayload)
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(apiErr).
		Get("/api/ping")
	if err != nil {
		return fmt.Errorf("ping upstream: %w", err)
	}
	return checkStatus(resp, apiErr)
}
