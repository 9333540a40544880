package supadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Supadata API endpoint used unless WithBaseURL is given.
const DefaultBaseURL = "https://api.supadata.ai/v1"

const minAPIKeyLength = 8

// Client represents a Supadata API client
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	logger     zerolog.Logger

	// YouTube groups the YouTube transcript and metadata endpoints.
	YouTube *YouTubeService
	// Web groups the web scraping endpoints.
	Web *WebService
}

// NewClient creates a new Supadata client. No request is made; an API key
// shorter than 8 characters (runes, after trimming) fails with an invalid-request *Error.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if utf8.RuneCountInString(strings.TrimSpace(apiKey)) < minAPIKeyLength {
		return nil, gatewayError(http.StatusForbidden, "Invalid API key format")
	}

	headers := make(http.Header)
	headers.Set("x-api-key", apiKey)
	headers.Set("Accept", "application/json")

	c := &Client{
		baseURL: DefaultBaseURL,
		headers: headers,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.YouTube = &YouTubeService{client: c}
	c.Web = &WebService{client: c}

	return c, nil
}

// BaseURL returns the prefix prepended to every request path
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs an authenticated request against baseURL+path and returns
// the JSON response with every object key converted to snake_case.
//
// Failures are returned as *Error when the response can be classified
// (gateway rejections, transcript 206 responses, JSON error bodies) and as
// *HTTPError otherwise. A successful response with an empty body yields nil.
func (c *Client) Request(ctx context.Context, method, path string, opts ...RequestOption) (any, error) {
	o := &requestOptions{
		query:   url.Values{},
		headers: make(http.Header),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
	}

	requestURL := c.baseURL + path
	if len(o.query) > 0 {
		sep := "?"
		if strings.Contains(requestURL, "?") {
			sep = "&"
		}
		requestURL += sep + o.query.Encode()
	}

	var body io.Reader
	if o.body != nil {
		body = bytes.NewReader(o.body)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range o.headers {
		req.Header[k] = append([]string(nil), vs...)
	}

	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Supadata API request")

	return handleResponse(method, requestURL, path, resp, data)
}

// handleResponse classifies a completed exchange. Order matters: gateway
// rejections first, then transcript partial content, then generic status handling.
func handleResponse(method, requestURL, path string, resp *http.Response, body []byte) (any, error) {
	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusNotFound, http.StatusTooManyRequests:
		if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
			return nil, gatewayError(resp.StatusCode, string(body))
		}
	}

	if resp.StatusCode == http.StatusPartialContent && strings.Contains(path, "/transcript") {
		return nil, transcriptError(body)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		httpErr := &HTTPError{
			Method:     method,
			URL:        requestURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}

		payload, ok := decodeObject(body)
		if !ok {
			return nil, httpErr
		}
		apiErr, ok := errorFromPayload(payload)
		if !ok {
			return nil, httpErr
		}
		apiErr.cause = httpErr
		return nil, apiErr
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return NormalizeKeys(v), nil
}

// transcriptError builds the error for a 206 response on a transcript path
func transcriptError(body []byte) *Error {
	payload, ok := decodeObject(body)
	if !ok {
		return transcriptUnavailable()
	}

	raw, ok := payload["error"]
	if !ok || raw == nil {
		return transcriptUnavailable()
	}
	if m, ok := raw.(map[string]any); ok {
		if apiErr, ok := extractError(m); ok {
			return apiErr
		}
	}

	e := transcriptUnavailable()
	e.Description = describe(raw)
	return e
}

// decodeObject parses body as a JSON object and normalizes its keys
func decodeObject(body []byte) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, false
	}
	m, ok := NormalizeKeys(v).(map[string]any)
	return m, ok
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
