package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oshea00/youtubesummary/internal/engine"
	"github.com/oshea00/youtubesummary/internal/engine/sources"
	"github.com/oshea00/youtubesummary/internal/pipeline"
)

var (
	outputFile string
	modelName  string
)

var rootCmd = &cobra.Command{
	Use:     "youtubesummary [url]",
	Short:   "Download a YouTube transcript and generate an AI summary",
	Version: version,
	Example: `  youtubesummary https://www.youtube.com/watch?v=dQw4w9WgXcQ
  youtubesummary -o summary.md -m gpt-4o https://youtu.be/dQw4w9WgXcQ
  youtubesummary --model claude-3-opus-20240229 dQw4w9WgXcQ`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := ""
		if len(args) > 0 {
			url = args[0]
		}
		if url == "" {
			var err error
			url, err = promptForURL(cmd)
			if err != nil {
				return err
			}
		}
		return runSummary(cmd, url)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", pipeline.DefaultOutputFile, "output markdown file")
	rootCmd.Flags().StringVarP(&modelName, "model", "m", pipeline.DefaultModel, "LLM model to use for the summary")
}

// promptForURL asks interactively when no URL argument was given.
func promptForURL(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Enter YouTube video URL: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read URL: %w", err)
	}
	url := strings.TrimSpace(line)
	if url == "" {
		return "", errors.New("no YouTube URL provided")
	}
	return url, nil
}

// runSummary executes the pipeline step by step so progress is visible.
func runSummary(cmd *cobra.Command, url string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	videoID := sources.ExtractVideoID(url)
	if videoID == "" {
		return fmt.Errorf("invalid YouTube URL or video ID: %q", url)
	}
	fmt.Fprintf(out, "Video ID: %s\n", videoID)

	fmt.Fprintln(out, "Downloading transcript...")
	transcript, err := sources.FetchTranscript(ctx, videoID, engine.Cfg.TranscriptLangs)
	if err != nil {
		return fmt.Errorf("download transcript: %w", err)
	}
	fmt.Fprintln(out, "Transcript downloaded successfully")

	fmt.Fprintf(out, "Generating summary using %s...\n", modelName)
	summary, err := engine.Summarize(ctx, transcript, modelName)
	if err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}
	fmt.Fprintln(out, "Summary generated successfully")

	title, err := sources.FetchVideoTitle(ctx, videoID)
	if err != nil {
		title = ""
	}

	path, err := engine.SaveMarkdown(engine.Document{
		Title:      title,
		VideoURL:   url,
		Summary:    summary,
		Transcript: transcript,
		Model:      modelName,
	}, outputFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Summary and transcript saved to: %s\n", path)
	return nil
}
