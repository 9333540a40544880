// Package supadata provides a client for the Supadata content extraction API.
//
// Supadata extracts transcripts and metadata from YouTube and turns web pages
// into Markdown. This package authenticates requests with an API key, sends
// them, converts every JSON key in the response from camelCase to snake_case,
// and classifies failures into typed errors.
//
// # Usage
//
//	client, err := supadata.NewClient(
//		"your-api-key",
//		supadata.WithTimeout(30*time.Second),
//		supadata.WithLogger(logger),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	transcript, err := client.YouTube.Transcript(ctx, supadata.TranscriptParams{
//		URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
//	})
//
// Endpoints without a helper can be called directly; the result is the
// normalized JSON body:
//
//	resp, err := client.Request(ctx, http.MethodGet, "/youtube/video",
//		supadata.WithQuery(url.Values{"id": {"dQw4w9WgXcQ"}}))
//
// # Error Handling
//
// Errors the client can classify are returned as *Error, carrying the
// service's code, title and description:
//
//   - invalid-request: bad or missing API key, unknown endpoint, bad input
//   - limit-exceeded: rate or quota limit reached
//   - transcript-unavailable: the video has no transcript
//
// Any other 4xx/5xx response whose body is not a JSON error is returned as
// *HTTPError. When a JSON error body was parsed, the *Error wraps the
// *HTTPError, so errors.As finds either:
//
//	var apiErr *supadata.Error
//	if errors.As(err, &apiErr) && apiErr.IsLimitExceeded() {
//		// back off
//	}
//
// The client never retries.
package supadata
