package supadata

import (
	"context"
	"net/http"
	"net/url"
)

// WebService wraps the /web endpoints
type WebService struct {
	client *Client
}

// ScrapeParams tunes a scrape. NoLinks drops links from the Markdown output.
type ScrapeParams struct {
	NoLinks bool
	Lang    string
}

// CrawlRequest starts a crawl of up to Limit pages below URL
type CrawlRequest struct {
	URL   string `json:"url"`
	Limit int    `json:"limit,omitempty"`
}

// Scrape fetches a web page and returns its content as Markdown
func (s *WebService) Scrape(ctx context.Context, pageURL string, params ScrapeParams) (*Scrape, error) {
	if pageURL == "" {
		return nil, invalidRequest("Missing URL", "A URL is required")
	}

	query := url.Values{"url": {pageURL}}
	if params.NoLinks {
		query.Set("noLinks", "true")
	}
	if params.Lang != "" {
		query.Set("lang", params.Lang)
	}

	resp, err := s.client.Request(ctx, http.MethodGet, "/web/scrape", WithQuery(query))
	if err != nil {
		return nil, err
	}

	var scrape Scrape
	if err := decode(resp, &scrape); err != nil {
		return nil, err
	}
	return &scrape, nil
}

// Map lists the URLs found on a website
func (s *WebService) Map(ctx context.Context, siteURL string) (*SiteMap, error) {
	if siteURL == "" {
		return nil, invalidRequest("Missing URL", "A URL is required")
	}

	resp, err := s.client.Request(ctx, http.MethodGet, "/web/map", WithQuery(url.Values{"url": {siteURL}}))
	if err != nil {
		return nil, err
	}

	var siteMap SiteMap
	if err := decode(resp, &siteMap); err != nil {
		return nil, err
	}
	return &siteMap, nil
}

// Crawl starts an asynchronous crawl. Poll CrawlResults with the returned job ID.
func (s *WebService) Crawl(ctx context.Context, req CrawlRequest) (*CrawlJob, error) {
	if req.URL == "" {
		return nil, invalidRequest("Missing URL", "A URL is required")
	}

	resp, err := s.client.Request(ctx, http.MethodPost, "/web/crawl", WithJSONBody(req))
	if err != nil {
		return nil, err
	}

	var job CrawlJob
	if err := decode(resp, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CrawlResults fetches the status and the pages collected so far for a crawl job.
// Pass the Next cursor of a previous result as skip to page through the results.
func (s *WebService) CrawlResults(ctx context.Context, jobID, skip string) (*CrawlResults, error) {
	if jobID == "" {
		return nil, invalidRequest("Missing job", "A crawl job ID is required")
	}

	var opts []RequestOption
	if skip != "" {
		opts = append(opts, WithQuery(url.Values{"skip": {skip}}))
	}

	resp, err := s.client.Request(ctx, http.MethodGet, "/web/crawl/"+url.PathEscape(jobID), opts...)
	if err != nil {
		return nil, err
	}

	var results CrawlResults
	if err := decode(resp, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
