// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the assistant backend.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout is the default timeout for API requests. Message sends
	// wait on assistant generation, so this is generous.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// Client-side politeness limit on message sends. The backend enforces
	// its own limits; this just keeps a stuck key from flooding it.
	sendRatePerSecond = 2
	sendBurst         = 4
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client with connection pooling for all backend requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// TokenSource supplies the current bearer token, or "" when logged out.
// It is read per-request so a login or logout takes effect immediately.
type TokenSource func() string

// Client is the HTTP client for the assistant backend. All requests carry
// the current bearer token; any 401 response fires the OnUnauthorized hook.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenSource    TokenSource
	onUnauthorized func()
	sendLimiter    *rate.Limiter
	userAgent      string
	debug          bool
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  sharedHTTPClient,
		sendLimiter: rate.NewLimiter(rate.Limit(sendRatePerSecond), sendBurst),
		userAgent:   "converse-tui/" + Version,
	}
}

// WithBaseURL sets a custom base URL.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// WithHTTPClient sets a custom HTTP client (used by tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTokenSource sets the function that supplies the bearer token.
func (c *Client) WithTokenSource(src TokenSource) *Client {
	c.tokenSource = src
	return c
}

// WithDebug enables request/response logging. Bodies and the Authorization
// header are never logged.
func (c *Client) WithDebug(enabled bool) *Client {
	c.debug = enabled
	return c
}

// OnUnauthorized registers the hook fired when any endpoint returns 401.
func (c *Client) OnUnauthorized(fn func()) *Client {
	c.onUnauthorized = fn
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setHeaders sets the headers common to every request.
func (c *Client) setHeaders(req *http.Request) {
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
}

// logRequest logs an API request without exposing sensitive data.
func (c *Client) logRequest(req *http.Request) {
	if c.debug {
		log.Printf("API Request: %s %s", req.Method, req.URL.Path)
	}
}

// logResponse logs only status and duration, never the body.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	if c.debug {
		log.Printf("API Response: %d (%v)", resp.StatusCode, duration)
	}
}

// doJSON issues a request with an optional JSON body and returns the
// envelope's data payload.
func (c *Client) doJSON(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

// multipartFile describes one file part of a multipart request.
type multipartFile struct {
	Field       string
	Path        string
	ContentType string
}

// doMultipart issues a multipart/form-data request with the given fields and
// optional file, returning the envelope's data payload.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, file *multipartFile) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	if file != nil {
		f, err := os.Open(file.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
			file.Field, filepath.Base(file.Path)))
		header.Set("Content-Type", file.ContentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create form part: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, fmt.Errorf("failed to copy upload: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req)
}

// send performs the request, reads the bounded body, and decodes the
// envelope. Error statuses are mapped to sentinels; 401 additionally fires
// the OnUnauthorized hook.
func (c *Client) send(req *http.Request) (json.RawMessage, error) {
	c.setHeaders(req)
	c.logRequest(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// Drop the Authorization header from the request object once sent so a
	// caller logging the request cannot leak the token.
	req.Header.Del("Authorization")

	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return env.Data, nil
}

// readResponse reads the response body with a size limit.
// SECURITY: prevents memory exhaustion from an oversized response.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts an HTTP error status to a sentinel-wrapped
// APIError carrying the backend's message when one was supplied.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var env envelope
	message := ""
	if err := json.Unmarshal(body, &env); err == nil {
		message = env.Message
	}

	// Global, unscoped reaction: a stale token anywhere invalidates the
	// whole session.
	if statusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	apiErr := &APIError{Status: statusCode, Message: message}

	switch {
	case statusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	case statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, apiErr)
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, apiErr)
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %w", ErrInvalidInput, apiErr)
	case statusCode >= 500:
		return fmt.Errorf("%w: %w", ErrServerError, apiErr)
	default:
		return apiErr
	}
}

// pageQuery builds the ?page&limit query string, omitting unset values.
func pageQuery(page, limit int) string {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
