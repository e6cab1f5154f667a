package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Provider base URLs. All three expose an OpenAI-compatible
// chat-completions endpoint, so a single client type covers them.
const (
	anthropicAPIBase = "https://api.anthropic.com/v1"
	openaiAPIBase    = "https://api.openai.com/v1"
	geminiAPIBase    = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// ErrNoAPIKey reports a summary request against a provider whose API key
// is not configured.
var ErrNoAPIKey = errors.New("missing API key")

// provider is an LLM backend resolved from a model name.
type provider struct {
	Name   string
	Base   string
	EnvVar string
}

// resolveProvider maps a model name to its backend. Claude models go to
// Anthropic, Gemini models to Google, everything else to OpenAI.
func resolveProvider(model string) provider {
	switch {
	case strings.HasPrefix(model, "claude"):
		return provider{Name: "anthropic", Base: anthropicAPIBase, EnvVar: "ANTHROPIC_API_KEY"}
	case strings.HasPrefix(model, "gemini"):
		return provider{Name: "google", Base: geminiAPIBase, EnvVar: "GEMINI_API_KEY"}
	default:
		return provider{Name: "openai", Base: openaiAPIBase, EnvVar: "OPENAI_API_KEY"}
	}
}

func (p provider) apiKey() string {
	switch p.Name {
	case "anthropic":
		return cfg.AnthropicAPIKey
	case "google":
		return cfg.GeminiAPIKey
	default:
		return cfg.OpenAIAPIKey
	}
}

// newChatClient builds an OpenAI-compatible client for the given provider.
func newChatClient(p provider, key string) *openai.Client {
	cc := openai.DefaultConfig(key)
	cc.BaseURL = p.Base
	if p.Name == "openai" && cfg.LLMAPIBase != "" {
		cc.BaseURL = cfg.LLMAPIBase
	}
	cc.HTTPClient = &http.Client{Timeout: cfg.LLMTimeout}
	return openai.NewClientWithConfig(cc)
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Summarize generates a summary of the transcript using the given model.
// The transcript is truncated to MaxTranscriptChars before it is sent.
func Summarize(ctx context.Context, transcript, model string) (string, error) {
	p := resolveProvider(model)
	key := p.apiKey()
	if key == "" {
		return "", fmt.Errorf("%w for provider %s (set %s)", ErrNoAPIKey, p.Name, p.EnvVar)
	}

	prompt := fmt.Sprintf(summaryPrompt, TruncateRunes(transcript, cfg.MaxTranscriptChars, "..."))

	// The client omits a zero temperature from the request, letting the
	// provider default win; the smallest nonzero value keeps an explicit
	// 0 on the wire.
	temperature := float32(cfg.LLMTemperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	cli := newChatClient(p, key)
	resp, err := cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", p.Name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no completion choices", p.Name)
	}

	summary := stripFences(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("%s returned an empty summary", p.Name)
	}
	return summary, nil
}
