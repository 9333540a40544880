package supadata

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// TranscriptChunk is a timed segment of a transcript. Offset and Duration are milliseconds.
type TranscriptChunk struct {
	Text     string  `mapstructure:"text" json:"text"`
	Offset   float64 `mapstructure:"offset" json:"offset"`
	Duration float64 `mapstructure:"duration" json:"duration"`
	Lang     string  `mapstructure:"lang" json:"lang"`
}

// Transcript is a video transcript. Text is set when plain text was
// requested, Content otherwise.
type Transcript struct {
	Content        []TranscriptChunk `json:"content,omitempty"`
	Text           string            `json:"text,omitempty"`
	Lang           string            `json:"lang"`
	AvailableLangs []string          `json:"available_langs"`
}

// IsPlainText reports whether the transcript was returned as a single string
func (t *Transcript) IsPlainText() bool {
	return t.Content == nil
}

// ChannelRef identifies the channel a video or playlist belongs to
type ChannelRef struct {
	ID   string `mapstructure:"id" json:"id"`
	Name string `mapstructure:"name" json:"name"`
}

// Video contains YouTube video metadata
type Video struct {
	ID                  string     `mapstructure:"id" json:"id"`
	Title               string     `mapstructure:"title" json:"title"`
	Description         string     `mapstructure:"description" json:"description"`
	Duration            int        `mapstructure:"duration" json:"duration"`
	Channel             ChannelRef `mapstructure:"channel" json:"channel"`
	Tags                []string   `mapstructure:"tags" json:"tags"`
	Thumbnail           string     `mapstructure:"thumbnail" json:"thumbnail"`
	UploadDate          string     `mapstructure:"upload_date" json:"upload_date"`
	ViewCount           int64      `mapstructure:"view_count" json:"view_count"`
	LikeCount           int64      `mapstructure:"like_count" json:"like_count"`
	TranscriptLanguages []string   `mapstructure:"transcript_languages" json:"transcript_languages"`
}

// Channel contains YouTube channel metadata
type Channel struct {
	ID              string `mapstructure:"id" json:"id"`
	Name            string `mapstructure:"name" json:"name"`
	Handle          string `mapstructure:"handle" json:"handle"`
	Description     string `mapstructure:"description" json:"description"`
	SubscriberCount int64  `mapstructure:"subscriber_count" json:"subscriber_count"`
	VideoCount      int64  `mapstructure:"video_count" json:"video_count"`
	Thumbnail       string `mapstructure:"thumbnail" json:"thumbnail"`
	Banner          string `mapstructure:"banner" json:"banner"`
}

// Playlist contains YouTube playlist metadata
type Playlist struct {
	ID          string     `mapstructure:"id" json:"id"`
	Title       string     `mapstructure:"title" json:"title"`
	Description string     `mapstructure:"description" json:"description"`
	VideoCount  int64      `mapstructure:"video_count" json:"video_count"`
	ViewCount   int64      `mapstructure:"view_count" json:"view_count"`
	LastUpdated string     `mapstructure:"last_updated" json:"last_updated"`
	Channel     ChannelRef `mapstructure:"channel" json:"channel"`
}

// VideoIDs lists the videos of a channel or playlist, split by kind
type VideoIDs struct {
	VideoIDs []string `mapstructure:"video_ids" json:"video_ids"`
	ShortIDs []string `mapstructure:"short_ids" json:"short_ids"`
	LiveIDs  []string `mapstructure:"live_ids" json:"live_ids"`
}

// Scrape is the content of a scraped web page, as Markdown
type Scrape struct {
	URL             string   `mapstructure:"url" json:"url"`
	Content         string   `mapstructure:"content" json:"content"`
	Name            string   `mapstructure:"name" json:"name"`
	Description     string   `mapstructure:"description" json:"description"`
	OgURL           string   `mapstructure:"og_url" json:"og_url"`
	CountCharacters int      `mapstructure:"count_characters" json:"count_characters"`
	URLs            []string `mapstructure:"urls" json:"urls"`
}

// SiteMap lists the URLs discovered on a website
type SiteMap struct {
	URLs []string `mapstructure:"urls" json:"urls"`
}

// CrawlJob identifies a started crawl
type CrawlJob struct {
	JobID string `mapstructure:"job_id" json:"job_id"`
}

// CrawlStatus is the state of a crawl job
type CrawlStatus string

const (
	CrawlScraping  CrawlStatus = "scraping"
	CrawlCompleted CrawlStatus = "completed"
	CrawlFailed    CrawlStatus = "failed"
	CrawlCancelled CrawlStatus = "cancelled"
)

// IsDone reports whether the crawl has stopped
func (s CrawlStatus) IsDone() bool {
	return s == CrawlCompleted || s == CrawlFailed || s == CrawlCancelled
}

// CrawlResults is one page of crawl output. Next is the cursor for the
// following page and is empty on the last one.
type CrawlResults struct {
	Status CrawlStatus `mapstructure:"status" json:"status"`
	Pages  []Scrape    `mapstructure:"pages" json:"pages"`
	Next   string      `mapstructure:"next" json:"next"`
	Error  string      `mapstructure:"error" json:"error"`
}

// decode maps a normalized response onto out
func decode(v any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeTranscript handles both the chunked and the plain text shapes
func decodeTranscript(v any) (*Transcript, error) {
	var raw struct {
		Content        any      `mapstructure:"content"`
		Lang           string   `mapstructure:"lang"`
		AvailableLangs []string `mapstructure:"available_langs"`
	}
	if err := decode(v, &raw); err != nil {
		return nil, err
	}

	t := &Transcript{
		Lang:           raw.Lang,
		AvailableLangs: raw.AvailableLangs,
	}
	switch content := raw.Content.(type) {
	case string:
		t.Text = content
	case []any:
		t.Content = make([]TranscriptChunk, 0, len(content))
		if err := decode(content, &t.Content); err != nil {
			return nil, err
		}
	case nil:
		t.Content = []TranscriptChunk{}
	default:
		return nil, fmt.Errorf("failed to decode response: unexpected transcript content %T", content)
	}
	return t, nil
}
