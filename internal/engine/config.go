package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	AnthropicAPIKey    string
	OpenAIAPIKey       string
	GeminiAPIKey       string
	LLMAPIBase         string // overrides the OpenAI-provider base URL when set
	LLMTemperature     float64
	LLMMaxTokens       int
	LLMTimeout         time.Duration
	MaxTranscriptChars int // transcript chars sent to the LLM
	TranscriptLangs    []string
	HTTPClient         *http.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = 120 * time.Second
	}
	if c.MaxTranscriptChars <= 0 {
		c.MaxTranscriptChars = 8000
	}
	if c.LLMMaxTokens <= 0 {
		c.LLMMaxTokens = 1000
	}
	if len(c.TranscriptLangs) == 0 {
		c.TranscriptLangs = []string{"en"}
	}
	cfg = c
	Cfg = &cfg
}
