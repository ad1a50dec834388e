// Package transport issues the JSON-over-HTTP requests the clone protocol
// is made of and classifies each response as success or failure.
//
// There is no retry and no timeout policy: a failure surfaces to the
// caller immediately as a *Error. Cancellation comes only from the
// caller's context.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Transport performs requests against one coordination server.
type Transport struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.httpClient = c
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a Transport for the given absolute http(s) base URL.
func New(baseURL string, opts ...Option) (*Transport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: must be an absolute http or https URL", baseURL)
	}

	t := &Transport{
		baseURL: u,
		httpClient: &http.Client{
			// One request per process; nothing to reuse.
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// BaseURL returns the server address requests are sent to.
func (t *Transport) BaseURL() string {
	return t.baseURL.String()
}

// Response is a successful (2xx) server reply.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

// Text returns the body as received.
func (r *Response) Text() string {
	return string(r.Body)
}

// DecodeJSON unmarshals the body into v. A malformed body is reported as a
// KindDecode *Error.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &Error{
			Kind:   KindDecode,
			Method: r.Method,
			Path:   r.Path,
			Body:   string(r.Body),
			Err:    fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// Get issues a GET with optional query parameters.
func (t *Transport) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return t.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST with body encoded as JSON.
func (t *Transport) Post(ctx context.Context, path string, body any) (*Response, error) {
	return t.Do(ctx, http.MethodPost, path, nil, body)
}

// Do performs one request. A nil body sends no payload; otherwise the body
// is JSON encoded. Any non-2xx status is returned as a KindStatus *Error
// carrying the raw response text.
func (t *Transport) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	target := t.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, text/plain")
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	log := t.logger.With(
		zap.String("req", reqID),
		zap.String("method", method),
		zap.String("path", path),
	)
	start := time.Now()

	resp, err := t.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, &Error{Kind: KindUnreachable, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug("response read failed", zap.Error(err))
		return nil, &Error{Kind: KindUnreachable, Method: method, Path: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       KindStatus,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	return &Response{Method: method, Path: path, StatusCode: resp.StatusCode, Body: data}, nil
}
