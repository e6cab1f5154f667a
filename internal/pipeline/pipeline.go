// Package pipeline runs the fetch-transcript → summarize → optionally-save
// flow shared by the CLI and the MCP tool server.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oshea00/youtubesummary/internal/engine"
	"github.com/oshea00/youtubesummary/internal/engine/sources"
)

// Defaults for optional arguments, in both CLI and tool-call form.
const (
	DefaultModel      = "claude-sonnet-4-20250514"
	DefaultOutputFile = "transcript.md"
)

// ErrInvalidURL reports input the video ID extractor does not recognize.
var ErrInvalidURL = errors.New("invalid YouTube URL or video ID")

// Options configures a single run.
type Options struct {
	URL        string
	Model      string // default DefaultModel
	OutputFile string // default DefaultOutputFile
	SaveToFile bool   // default false
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.OutputFile == "" {
		o.OutputFile = DefaultOutputFile
	}
	return o
}

// SummaryResult is the outcome of a successful run.
type SummaryResult struct {
	VideoID     string `json:"video_id"`
	VideoURL    string `json:"video_url"`
	Title       string `json:"title,omitempty"`
	Transcript  string `json:"transcript"`
	Summary     string `json:"summary"`
	ModelUsed   string `json:"model_used"`
	SavedToFile bool   `json:"saved_to_file,omitempty"`
	OutputFile  string `json:"output_file,omitempty"`
}

// Run executes the pipeline for one video.
func Run(ctx context.Context, opts Options) (*SummaryResult, error) {
	opts = opts.withDefaults()

	videoID := sources.ExtractVideoID(opts.URL)
	if videoID == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, opts.URL)
	}

	transcript, err := sources.FetchTranscript(ctx, videoID, engine.Cfg.TranscriptLangs)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}

	summary, err := engine.Summarize(ctx, transcript, opts.Model)
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	result := &SummaryResult{
		VideoID:    videoID,
		VideoURL:   opts.URL,
		Transcript: transcript,
		Summary:    summary,
		ModelUsed:  opts.Model,
	}

	if opts.SaveToFile {
		if title, err := sources.FetchVideoTitle(ctx, videoID); err == nil {
			result.Title = title
		} else {
			slog.Debug("video title unavailable", slog.String("id", videoID), slog.Any("err", err))
		}

		path, err := engine.SaveMarkdown(engine.Document{
			Title:      result.Title,
			VideoURL:   result.VideoURL,
			Summary:    result.Summary,
			Transcript: result.Transcript,
			Model:      result.ModelUsed,
		}, opts.OutputFile)
		if err != nil {
			return nil, fmt.Errorf("save markdown: %w", err)
		}
		result.SavedToFile = true
		result.OutputFile = path
	}

	return result, nil
}
