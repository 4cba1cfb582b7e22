package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned for 404 responses. Callers decide whether a missing
// resource is an error (package detail) or expected (background overrides).
var ErrNotFound = errors.New("resource not found")

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// ServerMessage returns the message the backend attached to a failed call,
// or "" when err carries none.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// Config holds configuration for the backend client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the booking backend REST API
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

// NewClient creates a new backend API client
func NewClient(config Config, logger *logrus.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the configured backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the error envelope the backend uses
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// request describes a single backend call
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	token       string
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": r.method,
			"path":   r.path,
		}).WithError(err).Warn("Backend request failed")
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":     r.method,
		"path":       r.path,
		"status":     resp.StatusCode,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("Backend request completed")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		message := eb.Message
		if message == "" {
			message = eb.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, request{method: http.MethodGet, path: path}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path, token string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		body:        bytes.NewReader(data),
		contentType: "application/json",
		token:       token,
	}, out)
}

func (c *Client) sendForm(ctx context.Context, method, path, token string, form *Form, out interface{}) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode multipart form: %w", err)
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		body:        body,
		contentType: contentType,
		token:       token,
	}, out)
}

// escape quotes a single path segment
func escape(segment string) string {
	return url.PathEscape(segment)
}
