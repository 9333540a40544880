package supadata

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeb_Scrape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/web/scrape", r.URL.Path)
		assert.Equal(t, "https://example.com/post", r.URL.Query().Get("url"))
		assert.Equal(t, "true", r.URL.Query().Get("noLinks"))
		writeJSON(w, http.StatusOK, `{
			"url": "https://example.com/post",
			"content": "# Post",
			"name": "Post",
			"ogUrl": "https://example.com/og.png",
			"countCharacters": 6,
			"urls": ["https://example.com/"]
		}`)
	})

	scrape, err := client.Web.Scrape(context.Background(), "https://example.com/post", ScrapeParams{NoLinks: true})
	require.NoError(t, err)
	assert.Equal(t, "# Post", scrape.Content)
	assert.Equal(t, "https://example.com/og.png", scrape.OgURL)
	assert.Equal(t, 6, scrape.CountCharacters)
	assert.Equal(t, []string{"https://example.com/"}, scrape.URLs)

	_, err = client.Web.Scrape(context.Background(), "", ScrapeParams{})
	assert.True(t, IsInvalidRequest(err))
}

func TestWeb_Map(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/web/map", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"urls": ["https://example.com/a", "https://example.com/b"]}`)
	})

	siteMap, err := client.Web.Map(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Len(t, siteMap.URLs, 2)
}

func TestWeb_Crawl(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/web/crawl":
			var req CrawlRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, CrawlRequest{URL: "https://example.com", Limit: 20}, req)
			writeJSON(w, http.StatusOK, `{"jobId": "job-123"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/web/crawl/job-123":
			if r.URL.Query().Get("skip") == "" {
				writeJSON(w, http.StatusOK, `{"status": "scraping", "pages": [{"url": "https://example.com", "content": "home"}], "next": "1"}`)
				return
			}
			assert.Equal(t, "1", r.URL.Query().Get("skip"))
			writeJSON(w, http.StatusOK, `{"status": "completed", "pages": []}`)
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	job, err := client.Web.Crawl(ctx, CrawlRequest{URL: "https://example.com", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "job-123", job.JobID)

	results, err := client.Web.CrawlResults(ctx, job.JobID, "")
	require.NoError(t, err)
	assert.Equal(t, CrawlScraping, results.Status)
	assert.False(t, results.Status.IsDone())
	require.Len(t, results.Pages, 1)
	assert.Equal(t, "home", results.Pages[0].Content)
	assert.Equal(t, "1", results.Next)

	results, err = client.Web.CrawlResults(ctx, job.JobID, results.Next)
	require.NoError(t, err)
	assert.True(t, results.Status.IsDone())
	assert.Empty(t, results.Next)
}

func TestWeb_CrawlValidation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Web.Crawl(context.Background(), CrawlRequest{})
	assert.True(t, IsInvalidRequest(err))

	_, err = client.Web.CrawlResults(context.Background(), "", "")
	assert.True(t, IsInvalidRequest(err))

	_, err = client.Web.Map(context.Background(), "")
	assert.True(t, IsInvalidRequest(err))
}
