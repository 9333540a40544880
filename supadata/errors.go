package supadata

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned by the service or synthesized by the client
const (
	CodeInvalidRequest        = "invalid-request"
	CodeLimitExceeded         = "limit-exceeded"
	CodeTranscriptUnavailable = "transcript-unavailable"
)

// ErrTranscriptUnavailable is the cause of the error returned when a
// transcript request answers 206 without a usable error object.
var ErrTranscriptUnavailable = errors.New("no transcript available")

// Error is a structured Supadata error with a symbolic code.
type Error struct {
	Code             string
	Title            string
	Description      string
	DocumentationURL string

	cause error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("supadata: %s: %s", e.Code, e.Title)
	}
	return fmt.Sprintf("supadata: %s: %s: %s", e.Code, e.Title, e.Description)
}

// Unwrap returns the transport error or sentinel the structured error was built from, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsInvalidRequest reports whether the error is an invalid-request error
func (e *Error) IsInvalidRequest() bool {
	return e.Code == CodeInvalidRequest
}

// IsLimitExceeded reports whether the server rejected the request for rate or quota limits
func (e *Error) IsLimitExceeded() bool {
	return e.Code == CodeLimitExceeded
}

// HTTPError is an unstructured transport error for a 4xx/5xx response.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("supadata: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// gatewayError maps a status code rejected by the API gateway to a structured error.
// It returns nil for statuses outside the gateway table.
func gatewayError(statusCode int, text string) *Error {
	fallback := func(def string) string {
		if text != "" {
			return text
		}
		return def
	}

	switch statusCode {
	case http.StatusForbidden:
		return &Error{
			Code:        CodeInvalidRequest,
			Title:       "Invalid or missing API key",
			Description: fallback("Please ensure you have provided a valid API key"),
		}
	case http.StatusNotFound:
		return &Error{
			Code:        CodeInvalidRequest,
			Title:       "Endpoint does not exist",
			Description: fallback("The API endpoint you are trying to access does not exist"),
		}
	case http.StatusTooManyRequests:
		return &Error{
			Code:        CodeLimitExceeded,
			Title:       "Limit exceeded",
			Description: fallback("You have exceeded the allowed request rate or quota limits"),
		}
	}
	return nil
}

// invalidRequest builds a client-side invalid-request error
func invalidRequest(title, description string) *Error {
	return &Error{
		Code:        CodeInvalidRequest,
		Title:       title,
		Description: description,
	}
}

// transcriptUnavailable returns the generic error for a 206 transcript response
func transcriptUnavailable() *Error {
	return &Error{
		Code:        CodeTranscriptUnavailable,
		Title:       "Transcript unavailable",
		Description: "No transcript available",
		cause:       ErrTranscriptUnavailable,
	}
}

// errorFromPayload extracts a structured error from a normalized JSON object.
// The fields are read from the top level, or from a nested "error" object when
// the top level does not carry them. ok is false when code, title or
// description is missing or not a string.
func errorFromPayload(payload map[string]any) (*Error, bool) {
	if e, ok := extractError(payload); ok {
		return e, true
	}
	if nested, ok := payload["error"].(map[string]any); ok {
		return extractError(nested)
	}
	return nil, false
}

func extractError(m map[string]any) (*Error, bool) {
	code, ok := m["code"].(string)
	if !ok {
		return nil, false
	}
	title, ok := m["title"].(string)
	if !ok {
		return nil, false
	}
	description, ok := m["description"].(string)
	if !ok {
		return nil, false
	}

	e := &Error{
		Code:        code,
		Title:       title,
		Description: description,
	}
	if docURL, ok := m["documentation_url"].(string); ok {
		e.DocumentationURL = docURL
	}
	return e, true
}

// IsLimitExceeded reports whether err carries a limit-exceeded structured error
func IsLimitExceeded(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsLimitExceeded()
}

// IsInvalidRequest reports whether err carries an invalid-request structured error
func IsInvalidRequest(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsInvalidRequest()
}
