package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ufscompras/internal/domain"
	"ufscompras/internal/observability"
)

const maxErrorBody = 64 << 10

// APIError reports a non-2xx response from a write endpoint together with
// the backend's {message}, which may be empty.
type APIError struct {
	Status  int
	Message string
	URL     string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("%s: %d %s", e.URL, e.Status, e.Message)
}

// Client handles requests to the UFSCompras REST backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new backend client. baseURL already includes the /api
// prefix; a trailing slash is ignored.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON fetches path with query and decodes the body into out. A non-2xx
// response yields *domain.FetchError.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.url(path, query)

	resp, err := c.do(ctx, http.MethodGet, path, target, "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return &domain.FetchError{Status: resp.StatusCode, URL: target}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", target, err)
	}
	return nil
}

// DoJSON sends payload as JSON with an optional bearer token and decodes a
// 2xx body into out when out is not nil. A non-2xx response yields *APIError.
func (c *Client) DoJSON(ctx context.Context, method, path, token string, payload, out any) (int, error) {
	target := c.url(path, nil)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.do(ctx, method, path, target, token, body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Message string `json:"message"`
		}
		// Best effort: a body that is not JSON leaves the message empty.
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&errBody)
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: errBody.Message, URL: target}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response from %s: %w", target, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, method, path, target, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	requestID := observability.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	endpoint := endpointLabel(path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	observability.BackendRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
	observability.BackendRequestsTotal.WithLabelValues(method, endpoint, status).Inc()

	logger := observability.FromContext(ctx).With(
		slog.String("method", method),
		slog.String("url", target),
		slog.Duration("latency", duration),
	)

	if err != nil {
		logger.Warn("backend request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to call %s %s: %w", method, target, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		logger.Debug("backend request", slog.Int("status", resp.StatusCode))
	} else {
		logger.Warn("backend request rejected", slog.Int("status", resp.StatusCode))
	}

	return resp, nil
}

func (c *Client) url(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}

// staticSegments are path segments that name a resource rather than an id.
var staticSegments = map[string]bool{
	"featured":        true,
	"login":           true,
	"sales":           true,
	"stock-movements": true,
	"top-products":    true,
}

// endpointLabel turns a concrete path into its template so ids never become
// metric labels: /products/abc123 becomes /products/{id}.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := 1; i < len(segments); i++ {
		if !staticSegments[segments[i]] {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

// Ping checks that the backend answers its category listing, the cheapest
// read every storefront page depends on.
func (c *Client) Ping(ctx context.Context) error {
	var discard json.RawMessage
	return c.GetJSON(ctx, "/categories", nil, &discard)
}
