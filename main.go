// youtubesummary fetches YouTube transcripts and summarizes them with an LLM.
//
// Downloads a video transcript, generates an AI summary via an
// OpenAI-compatible LLM provider, and optionally writes both to a markdown
// file. Runs as a one-shot CLI, or as a stdio JSON-RPC tool server for
// AI-agent clients (`youtubesummary mcp`).
package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/oshea00/youtubesummary/internal/engine"
)

var version = "dev"

func main() {
	initLogging()
	initEngine()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initLogging routes structured logs to stderr so stdout stays clean for
// protocol output in mcp mode.
func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(env.Str("LOG_LEVEL", "info")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func initEngine() {
	engine.Init(engine.Config{
		AnthropicAPIKey:    env.Str("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:       env.Str("OPENAI_API_KEY", ""),
		GeminiAPIKey:       env.Str("GEMINI_API_KEY", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", ""),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 1000),
		LLMTimeout:         env.Duration("LLM_TIMEOUT", 120*time.Second),
		MaxTranscriptChars: env.Int("MAX_TRANSCRIPT_CHARS", 8000),
		TranscriptLangs:    env.List("TRANSCRIPT_LANGS", "en"),
		HTTPClient: &http.Client{
			Timeout: env.Duration("FETCH_TIMEOUT", 15*time.Second),
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	})
}
