package supadata

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger enables debug tracing of requests.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return WithHeader("User-Agent", userAgent)
}

// RequestOption configures a single request.
type RequestOption func(*requestOptions) error

type requestOptions struct {
	query   url.Values
	headers http.Header
	body    []byte
}

// WithQuery adds query parameters to the request URL.
func WithQuery(params url.Values) RequestOption {
	return func(o *requestOptions) error {
		for k, vs := range params {
			for _, v := range vs {
				o.query.Add(k, v)
			}
		}
		return nil
	}
}

// WithRequestHeader sets a header for this request only, overriding the defaults.
func WithRequestHeader(key, value string) RequestOption {
	return func(o *requestOptions) error {
		o.headers.Set(key, value)
		return nil
	}
}

// WithJSONBody encodes v as the JSON request body.
func WithJSONBody(v any) RequestOption {
	return func(o *requestOptions) error {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			return err
		}
		o.body = buf.Bytes()
		o.headers.Set("Content-Type", "application/json")
		return nil
	}
}
