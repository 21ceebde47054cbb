// Package apiclient wraps outbound calls to the clinical REST backend: base
// URL normalization, JSON headers, cookie forwarding, and mapping of non-2xx
// responses to *APIError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const DefaultBaseURL = "http://localhost:8000/api"

type Client struct {
	baseURL string
	http    *http.Client
	headers http.Header
	logger  zerolog.Logger
	metrics *Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHeader adds a header sent on every request. Caller headers win over
// the JSON defaults.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client for baseURL. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		headers: make(http.Header),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins the base URL and endpoint with exactly one slash between them.
func (c *Client) URL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

// Request issues method against endpoint. body, when non-nil, is sent as
// JSON. On success the response body is decoded into out unchanged; pass a
// *json.RawMessage to keep it raw. Envelopes are the caller's concern.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any) error {
	url := c.URL(endpoint)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range c.headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	creds := CredentialsFrom(ctx)
	if creds != nil {
		creds.apply(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(method, endpoint, 0, time.Since(start))
		c.logger.Error().Err(err).Str("method", method).Str("url", url).Msg("api request failed")
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	c.metrics.observe(method, endpoint, resp.StatusCode, time.Since(start))

	if creds != nil {
		creds.absorb(resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusText := http.StatusText(resp.StatusCode)
		var errBody map[string]any
		if err := json.Unmarshal(payload, &errBody); err != nil || errBody == nil {
			errBody = map[string]any{
				"error":   "Unknown error",
				"message": statusText,
			}
		}
		apiErr := newAPIError(resp.StatusCode, statusText, url, errBody)
		c.logger.Error().
			Int("status", apiErr.Status).
			Str("status_text", apiErr.StatusText).
			Str("url", url).
			Interface("error", errBody).
			Msg("api error response")
		return apiErr
	}

	c.logger.Debug().Str("method", method).Str("url", url).Int("status", resp.StatusCode).Msg("api response")

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, out)
}

// GetList fetches endpoint and unwraps an enveloped list.
func GetList[T any](ctx context.Context, c *Client, endpoint string) (*List[T], error) {
	var raw json.RawMessage
	if err := c.Get(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	return UnwrapList[T](endpoint, raw)
}

// Send issues method with body and unwraps an enveloped record.
func Send[T any](ctx context.Context, c *Client, method, endpoint string, body any) (*T, error) {
	var raw json.RawMessage
	if err := c.Request(ctx, method, endpoint, body, &raw); err != nil {
		return nil, err
	}
	return UnwrapOne[T](endpoint, raw)
}
