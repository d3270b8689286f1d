package llm

import (
	"context"
	"net/http"
	"strings"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropics"
	ProviderGemini    = "gemini"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens,omitempty"`
	Messages  []Message `json:"messages"`
}

type ChatResponse struct {
	Content      string
	Model        string
	FinishReason string
}

// Client performs a single, non-streaming chat completion. Implementations
// hold only immutable configuration and are safe for concurrent use.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

type Config struct {
	Provider   string
	BaseURL    string
	Token      string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
}

// NewClient builds the client for cfg.Provider; an empty provider means openai.
func NewClient(cfg Config) (Client, error) {
	switch strings.TrimSpace(cfg.Provider) {
	case "", ProviderOpenAI:
		client, err := NewOpenAIClient(OpenAIConfig{
			BaseURL:    cfg.BaseURL,
			Token:      cfg.Token,
			Model:      cfg.Model,
			MaxTokens:  cfg.MaxTokens,
			HTTPClient: cfg.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderAnthropic:
		client, err := NewAnthropicClient(AnthropicConfig{
			BaseURL:    cfg.BaseURL,
			Token:      cfg.Token,
			Model:      cfg.Model,
			MaxTokens:  cfg.MaxTokens,
			HTTPClient: cfg.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderGemini:
		client, err := NewGeminiClient(GeminiConfig{
			BaseURL:    cfg.BaseURL,
			Token:      cfg.Token,
			Model:      cfg.Model,
			MaxTokens:  cfg.MaxTokens,
			HTTPClient: cfg.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, invalidConfig("unsupported llm type: %s", cfg.Provider)
	}
}

func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}
