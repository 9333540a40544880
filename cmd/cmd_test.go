package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/supadata-go/query"
	"github.com/s0up4200/supadata-go/supadata"
)

// useTestClient points the package client at handler for the duration of the test
func useTestClient(t *testing.T, handler http.HandlerFunc) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := supadata.NewClient("test-api-key", supadata.WithBaseURL(server.URL))
	require.NoError(t, err)

	prevClient, prevLogger := client, logger
	client, logger = c, zerolog.Nop()
	t.Cleanup(func() {
		client, logger = prevClient, prevLogger
	})
}

func TestRender(t *testing.T) {
	transcript := &supadata.Transcript{
		Content: []supadata.TranscriptChunk{
			{Text: "Hello", Offset: 0, Duration: 1500, Lang: "en"},
			{Text: "world", Offset: 1500, Duration: 900, Lang: "en"},
		},
		Lang:           "en",
		AvailableLangs: []string{"en"},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, "json", query.NewCompiler(), "", transcript))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "en", got["lang"])
		assert.Len(t, got["content"], 2)
		assert.NotContains(t, got, "text")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, "yaml", query.NewCompiler(), "", &supadata.SiteMap{URLs: []string{"https://a.example"}}))
		assert.True(t, strings.HasPrefix(buf.String(), "urls:\n"))

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, []any{"https://a.example"}, got["urls"])
	})

	t.Run("query string result is printed raw", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, "json", query.NewCompiler(), "text(content)", transcript))
		assert.Equal(t, "Hello world\n", buf.String())
	})

	t.Run("query reduces result", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, "json", query.NewCompiler(), "map(content, .duration)", transcript))
		assert.JSONEq(t, `[1500, 900]`, buf.String())
	})

	t.Run("invalid query", func(t *testing.T) {
		var buf bytes.Buffer
		err := render(&buf, "json", query.NewCompiler(), "len(", transcript)
		var compErr *query.CompilationError
		assert.ErrorAs(t, err, &compErr)
		assert.Empty(t, buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		err := render(io.Discard, "xml", query.NewCompiler(), "", map[string]any{})
		assert.EqualError(t, err, "unknown output format: xml")
	})
}

func TestToGeneric(t *testing.T) {
	raw := map[string]any{"a": 1.0}
	got, err := toGeneric(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = toGeneric(&supadata.CrawlJob{JobID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"job_id": "job-1"}, got)
}

func TestRawRequestOptions(t *testing.T) {
	var gotQuery, gotHeader, gotBody string
	useTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotHeader = r.Header.Get("X-Trace")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	opts, err := rawRequestOptions(
		[]string{"videoId=abc", "text=true", "videoId=def"},
		[]string{"X-Trace=1"},
		`{"url":"https://example.com"}`,
	)
	require.NoError(t, err)

	_, err = client.Request(context.Background(), http.MethodPost, "/web/crawl", opts...)
	require.NoError(t, err)

	assert.Equal(t, "text=true&videoId=abc&videoId=def", gotQuery)
	assert.Equal(t, "1", gotHeader)
	assert.JSONEq(t, `{"url":"https://example.com"}`, gotBody)

	_, err = rawRequestOptions([]string{"novalue"}, nil, "")
	assert.ErrorContains(t, err, "invalid --param")

	_, err = rawRequestOptions(nil, []string{"=x"}, "")
	assert.ErrorContains(t, err, "invalid --header")

	_, err = rawRequestOptions(nil, nil, "{not json")
	assert.ErrorContains(t, err, "invalid --data")
}

func TestTranscriptParams(t *testing.T) {
	prevLang, prevText := transcriptLang, transcriptText
	t.Cleanup(func() { transcriptLang, transcriptText = prevLang, prevText })
	transcriptLang, transcriptText = "de", true

	tests := []struct {
		source  string
		wantURL bool
	}{
		{source: "dQw4w9WgXcQ", wantURL: false},
		{source: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", wantURL: true},
		{source: "youtu.be/dQw4w9WgXcQ", wantURL: true},
		{source: "youtube.com/watch?v=dQw4w9WgXcQ", wantURL: true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			params := transcriptParams(tt.source)
			assert.Equal(t, "de", params.Lang)
			assert.True(t, params.Text)
			if tt.wantURL {
				assert.Equal(t, tt.source, params.URL)
				assert.Empty(t, params.VideoID)
			} else {
				assert.Equal(t, tt.source, params.VideoID)
				assert.Empty(t, params.URL)
			}
		})
	}
}

func TestFetchTranscripts(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	useTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)

		id := r.URL.Query().Get("videoId")
		if id == "missing" {
			w.WriteHeader(http.StatusPartialContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":"transcript of ` + id + `","lang":"en","availableLangs":["en"]}`))
	})

	sources := []string{"a", "missing", "c", "d", "e"}
	results := fetchTranscripts(context.Background(), sources, 2)

	require.Len(t, results, len(sources))
	for i, r := range results {
		assert.Equal(t, sources[i], r.Source)
	}

	assert.Equal(t, "transcript of a", results[0].Transcript.Text)
	assert.Equal(t, []string{"en"}, results[0].Transcript.AvailableLangs)
	assert.Nil(t, results[1].Transcript)
	assert.True(t, strings.Contains(results[1].Error, "transcript-unavailable"), results[1].Error)
	assert.Equal(t, "transcript of e", results[4].Transcript.Text)
	assert.LessOrEqual(t, maxInFlight.Load(), int32(2))
}

func TestWaitForCrawl(t *testing.T) {
	var polls atomic.Int32
	useTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("skip") {
		case "":
			if polls.Add(1) < 3 {
				_, _ = w.Write([]byte(`{"status":"scraping","pages":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"status":"completed","pages":[{"url":"https://a.example","content":"# A"}],"next":"cursor-1"}`))
		case "cursor-1":
			_, _ = w.Write([]byte(`{"status":"completed","pages":[{"url":"https://b.example","content":"# B","countCharacters":3}]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	results, err := waitForCrawl(context.Background(), client.Web, "job-1", time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, int32(3), polls.Load())
	assert.Equal(t, supadata.CrawlCompleted, results.Status)
	require.Len(t, results.Pages, 2)
	assert.Equal(t, "https://a.example", results.Pages[0].URL)
	assert.Equal(t, 3, results.Pages[1].CountCharacters)
	assert.Empty(t, results.Next)
}

func TestWaitForCrawl_Failed(t *testing.T) {
	useTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"failed","error":"robots.txt disallows crawling"}`))
	})

	_, err := waitForCrawl(context.Background(), client.Web, "job-2", time.Millisecond)
	assert.EqualError(t, err, "crawl job-2 failed: robots.txt disallows crawling")
}

func TestWaitForCrawl_Cancelled(t *testing.T) {
	useTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"scraping"}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := waitForCrawl(ctx, client.Web, "job-3", 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitForCrawl_RepeatedCursor(t *testing.T) {
	var pages atomic.Int32
	useTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("skip") == "" {
			_, _ = w.Write([]byte(`{"status":"completed","pages":[{"url":"https://a.example"}],"next":"cursor-1"}`))
			return
		}
		pages.Add(1)
		_, _ = w.Write([]byte(`{"status":"completed","pages":[{"url":"https://b.example"}],"next":"cursor-1"}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := waitForCrawl(ctx, client.Web, "job-4", time.Millisecond)
	assert.EqualError(t, err, `crawl job-4: results cursor "cursor-1" repeated`)
	assert.Equal(t, int32(1), pages.Load())
}
