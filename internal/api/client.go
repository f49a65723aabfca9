// Package api is a thin JSON-over-HTTP client whose error hook turns
// validation failures into user-facing errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/riordanpawley/teafoundation/internal/domain"
)

// APIError is a non-2xx response
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	// Body is the decoded JSON body, or the raw text when it isn't JSON
	Body any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// RequestOptions describes one call
type RequestOptions struct {
	Method string
	Path   string
	Body   any
	Header http.Header
}

// ErrorHook may observe or replace a request error. Returning nil keeps err.
type ErrorHook func(err error, req RequestOptions) error

// ClientOptions configures a Client
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Header     http.Header
	OnError    ErrorHook
	Logger     *slog.Logger
}

// Client sends JSON requests
type Client struct {
	baseURL string
	client  *http.Client
	header  http.Header
	onError ErrorHook
	logger  *slog.Logger
}

// Configure creates a client whose error hook rewrites 422 responses that
// carry {"error": "..."} into *domain.UserError before the caller's hook runs
func Configure(opts ClientOptions) *Client {
	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  opts.HTTPClient,
		header:  opts.Header.Clone(),
		logger:  opts.Logger,
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	hook := opts.OnError
	c.onError = func(err error, req RequestOptions) error {
		err = TranslateError(err)
		if hook != nil {
			if replaced := hook(err, req); replaced != nil {
				return replaced
			}
		}
		return err
	}
	return c
}

// TranslateError converts a 422 APIError with a string "error" field into
// a UserError. Other errors are returned unchanged.
func TranslateError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
		return err
	}
	body, ok := apiErr.Body.(map[string]any)
	if !ok {
		return err
	}
	msg, ok := body["error"].(string)
	if !ok {
		return err
	}
	return &domain.UserError{Message: msg, Err: err}
}

// Do sends req and decodes a JSON response into out (which may be nil).
// Failures pass through the error hook.
func (c *Client) Do(ctx context.Context, req RequestOptions, out any) error {
	if err := c.do(ctx, req, out); err != nil {
		return c.onError(err, req)
	}
	return nil
}

// Get is Do with GET
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, RequestOptions{Method: http.MethodGet, Path: path}, out)
}

// Post is Do with POST
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, RequestOptions{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) do(ctx context.Context, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	url := c.baseURL + "/" + strings.TrimLeft(opts.Path, "/")

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range c.header {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range opts.Header {
		req.Header[k] = append([]string(nil), vs...)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.logger.Debug("api request", "method", method, "url", url, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, URL: url, StatusCode: resp.StatusCode}
		var decoded any
		if json.Unmarshal(data, &decoded) == nil {
			apiErr.Body = decoded
		} else {
			apiErr.Body = string(data)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
