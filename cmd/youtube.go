package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/supadata-go/supadata"
)

var (
	transcriptLang string
	transcriptText bool
	videoLimit     int
	videoType      string
)

// transcriptCmd represents the transcript command
var transcriptCmd = &cobra.Command{
	Use:   "transcript <url|video-id>...",
	Short: "Fetch YouTube transcripts",
	Long: `Fetch the transcript of one or more YouTube videos.

With several videos the transcripts are fetched concurrently (see the
concurrency setting) and printed as a list in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranscript,
}

// translateCmd represents the translate command
var translateCmd = &cobra.Command{
	Use:   "translate <url|video-id>",
	Short: "Fetch a YouTube transcript translated into another language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := supadata.TranslateParams(transcriptParams(args[0]))
		transcript, err := client.YouTube.TranslateTranscript(cmd.Context(), params)
		if err != nil {
			return err
		}
		return printResult(transcript)
	},
}

var videoCmd = &cobra.Command{
	Use:   "video <url|video-id>",
	Short: "Show YouTube video metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		video, err := client.YouTube.Video(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(video)
	},
}

var channelCmd = &cobra.Command{
	Use:   "channel <url|handle|channel-id>",
	Short: "Show YouTube channel metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := client.YouTube.Channel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(channel)
	},
}

var playlistCmd = &cobra.Command{
	Use:   "playlist <url|playlist-id>",
	Short: "Show YouTube playlist metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		playlist, err := client.YouTube.Playlist(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(playlist)
	},
}

var channelVideosCmd = &cobra.Command{
	Use:   "channel-videos <url|handle|channel-id>",
	Short: "List the video IDs of a YouTube channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := client.YouTube.ChannelVideos(cmd.Context(), args[0], supadata.ChannelVideosParams{
			Limit: videoLimit,
			Type:  videoType,
		})
		if err != nil {
			return err
		}
		return printResult(ids)
	},
}

var playlistVideosCmd = &cobra.Command{
	Use:   "playlist-videos <url|playlist-id>",
	Short: "List the video IDs of a YouTube playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := client.YouTube.PlaylistVideos(cmd.Context(), args[0], videoLimit)
		if err != nil {
			return err
		}
		return printResult(ids)
	},
}

func init() {
	for _, c := range []*cobra.Command{transcriptCmd, translateCmd} {
		c.Flags().StringVarP(&transcriptLang, "lang", "l", "", "transcript language (ISO 639-1)")
		c.Flags().BoolVarP(&transcriptText, "text", "t", false, "return plain text instead of timed chunks")
	}
	_ = translateCmd.MarkFlagRequired("lang")

	channelVideosCmd.Flags().IntVar(&videoLimit, "limit", 0, "maximum number of videos to list")
	channelVideosCmd.Flags().StringVar(&videoType, "type", "", "video type to list (all|video|short|live)")
	playlistVideosCmd.Flags().IntVar(&videoLimit, "limit", 0, "maximum number of videos to list")

	rootCmd.AddCommand(transcriptCmd, translateCmd, videoCmd, channelCmd, playlistCmd, channelVideosCmd, playlistVideosCmd)
}

// transcriptResult is one entry of a batch transcript run
type transcriptResult struct {
	Source     string               `json:"source"`
	Transcript *supadata.Transcript `json:"transcript,omitempty"`
	Error      string               `json:"error,omitempty"`
}

func runTranscript(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(args) == 1 {
		transcript, err := client.YouTube.Transcript(ctx, transcriptParams(args[0]))
		if err != nil {
			return err
		}
		return printResult(transcript)
	}

	results := fetchTranscripts(ctx, args, cfg.Concurrency)

	var failed int
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}

	if err := printResult(results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d transcripts failed", failed, len(results))
	}
	return nil
}

// fetchTranscripts fetches the transcripts of sources with at most limit
// requests in flight. Failures are recorded per entry; order follows sources.
func fetchTranscripts(ctx context.Context, sources []string, limit int) []transcriptResult {
	results := make([]transcriptResult, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, source := range sources {
		g.Go(func() error {
			results[i].Source = source

			transcript, err := client.YouTube.Transcript(ctx, transcriptParams(source))
			if err != nil {
				logger.Warn().Err(err).Str("source", source).Msg("Failed to fetch transcript")
				results[i].Error = err.Error()
				return nil
			}

			logger.Debug().Str("source", source).Str("lang", transcript.Lang).Msg("Fetched transcript")
			results[i].Transcript = transcript
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// transcriptParams treats arguments that look like URLs as URLs and
// everything else as a video ID
func transcriptParams(source string) supadata.TranscriptParams {
	params := supadata.TranscriptParams{
		Lang: transcriptLang,
		Text: transcriptText,
	}
	if isURL(source) {
		params.URL = source
	} else {
		params.VideoID = source
	}
	return params
}

func isURL(s string) bool {
	return strings.Contains(s, "://") ||
		strings.HasPrefix(s, "youtube.com/") ||
		strings.HasPrefix(s, "www.youtube.com/") ||
		strings.HasPrefix(s, "youtu.be/")
}
