package supadata

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// YouTubeService wraps the /youtube endpoints
type YouTubeService struct {
	client *Client
}

// TranscriptParams selects a video by URL or ID. Lang requests a specific
// transcript language; Text asks for plain text instead of timed chunks.
type TranscriptParams struct {
	URL     string
	VideoID string
	Lang    string
	Text    bool
}

func (p TranscriptParams) values() url.Values {
	params := url.Values{}
	if p.URL != "" {
		params.Set("url", p.URL)
	}
	if p.VideoID != "" {
		params.Set("videoId", p.VideoID)
	}
	if p.Lang != "" {
		params.Set("lang", p.Lang)
	}
	if p.Text {
		params.Set("text", "true")
	}
	return params
}

// TranslateParams selects a video and the target language for a translated transcript
type TranslateParams struct {
	URL     string
	VideoID string
	Lang    string
	Text    bool
}

// ChannelVideosParams limits and filters channel video listings.
// Type is one of "all", "video", "short" or "live".
type ChannelVideosParams struct {
	Limit int
	Type  string
}

// Transcript fetches the transcript of a YouTube video
func (s *YouTubeService) Transcript(ctx context.Context, params TranscriptParams) (*Transcript, error) {
	if params.URL == "" && params.VideoID == "" {
		return nil, invalidRequest("Missing video", "Either a video URL or a video ID is required")
	}

	resp, err := s.client.Request(ctx, http.MethodGet, "/youtube/transcript", WithQuery(params.values()))
	if err != nil {
		return nil, err
	}
	return decodeTranscript(resp)
}

// TranslateTranscript fetches a transcript translated into params.Lang
func (s *YouTubeService) TranslateTranscript(ctx context.Context, params TranslateParams) (*Transcript, error) {
	if params.URL == "" && params.VideoID == "" {
		return nil, invalidRequest("Missing video", "Either a video URL or a video ID is required")
	}
	if params.Lang == "" {
		return nil, invalidRequest("Missing language", "A target language is required for translation")
	}

	query := TranscriptParams(params).values()
	resp, err := s.client.Request(ctx, http.MethodGet, "/youtube/transcript/translate", WithQuery(query))
	if err != nil {
		return nil, err
	}
	return decodeTranscript(resp)
}

// Video fetches metadata for a video by ID or URL
func (s *YouTubeService) Video(ctx context.Context, id string) (*Video, error) {
	var video Video
	if err := s.getByID(ctx, "/youtube/video", id, nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// Channel fetches metadata for a channel by ID, handle or URL
func (s *YouTubeService) Channel(ctx context.Context, id string) (*Channel, error) {
	var channel Channel
	if err := s.getByID(ctx, "/youtube/channel", id, nil, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// Playlist fetches metadata for a playlist by ID or URL
func (s *YouTubeService) Playlist(ctx context.Context, id string) (*Playlist, error) {
	var playlist Playlist
	if err := s.getByID(ctx, "/youtube/playlist", id, nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// ChannelVideos lists the video IDs of a channel
func (s *YouTubeService) ChannelVideos(ctx context.Context, id string, params ChannelVideosParams) (*VideoIDs, error) {
	extra := url.Values{}
	if params.Limit > 0 {
		extra.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Type != "" {
		extra.Set("type", params.Type)
	}

	var ids VideoIDs
	if err := s.getByID(ctx, "/youtube/channel/videos", id, extra, &ids); err != nil {
		return nil, err
	}
	return &ids, nil
}

// PlaylistVideos lists the video IDs of a playlist
func (s *YouTubeService) PlaylistVideos(ctx context.Context, id string, limit int) (*VideoIDs, error) {
	extra := url.Values{}
	if limit > 0 {
		extra.Set("limit", strconv.Itoa(limit))
	}

	var ids VideoIDs
	if err := s.getByID(ctx, "/youtube/playlist/videos", id, extra, &ids); err != nil {
		return nil, err
	}
	return &ids, nil
}

func (s *YouTubeService) getByID(ctx context.Context, path, id string, extra url.Values, out any) error {
	if id == "" {
		return invalidRequest("Missing identifier", "An ID or URL is required")
	}

	params := url.Values{"id": {id}}
	for k, vs := range extra {
		params[k] = vs
	}

	resp, err := s.client.Request(ctx, http.MethodGet, path, WithQuery(params))
	if err != nil {
		return err
	}
	return decode(resp, out)
}
