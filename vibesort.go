// Package vibesort orders lists of strings by asking a chat-completion model.
// The model decides the order; the reply is parsed line by line and returned
// as-is, so items may come back missing, duplicated or unsorted.
package vibesort

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"vibesort/internal/llm"
)

const (
	DefaultCriteria = "alphabetically"
	DefaultModel    = llm.DefaultOpenAIModel
	DefaultBaseURL  = llm.DefaultOpenAIURL
	MaxTokens       = 1000
)

type Config struct {
	// APIKey is required; a blank key fails New.
	APIKey string
	// Model defaults to DefaultModel for the openai provider.
	Model string
	// BaseURL is the full endpoint for the openai provider and defaults to
	// DefaultBaseURL. Other providers treat it as the API root.
	BaseURL string
	// Provider is "openai" (default), "anthropics" or "gemini".
	Provider   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Sorter is safe for concurrent use; it holds no mutable state.
type Sorter struct {
	client   llm.Client
	provider string
	model    string
	baseURL  string
	logger   *slog.Logger
}

func New(cfg Config) (*Sorter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: api key cannot be empty, set OPENAI_API_KEY or provide it directly", ErrInvalidConfiguration)
	}
	provider := strings.TrimSpace(cfg.Provider)
	if provider == "" {
		provider = llm.ProviderOpenAI
	}
	model := strings.TrimSpace(cfg.Model)
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if provider == llm.ProviderOpenAI {
		if model == "" {
			model = DefaultModel
		}
		if baseURL == "" {
			baseURL = DefaultBaseURL
		}
	}

	client, err := llm.NewClient(llm.Config{
		Provider:   provider,
		BaseURL:    baseURL,
		Token:      cfg.APIKey,
		Model:      model,
		MaxTokens:  MaxTokens,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sorter{
		client:   client,
		provider: provider,
		model:    model,
		baseURL:  baseURL,
		logger:   logger.With("component", "sorter"),
	}, nil
}

// Sort orders items alphabetically.
func (s *Sorter) Sort(ctx context.Context, items []string) ([]string, error) {
	return s.SortBy(ctx, items, DefaultCriteria)
}

// SortBy orders items by a free-text criteria such as "by length from
// shortest to longest". The criteria is inserted verbatim into the prompt;
// an empty criteria means DefaultCriteria. An empty items slice returns an
// empty result without contacting the model.
func (s *Sorter) SortBy(ctx context.Context, items []string, criteria string) ([]string, error) {
	if len(items) == 0 {
		return []string{}, nil
	}
	if strings.TrimSpace(criteria) == "" {
		criteria = DefaultCriteria
	}

	s.logger.Debug("sorting items", "provider", s.provider, "model", s.model, "base_url", s.baseURL, "items", len(items), "criteria", criteria)
	resp, err := s.client.Chat(ctx, llm.ChatRequest{
		MaxTokens: MaxTokens,
		Messages:  []llm.Message{llm.UserMessage(BuildPrompt(items, criteria))},
	})
	if err != nil {
		s.logger.Debug("sort request failed", "provider", s.provider, "error", err)
		return nil, err
	}

	sorted := ParseItems(resp.Content)
	if len(sorted) != len(items) {
		s.logger.Warn("model returned a different number of items", "sent", len(items), "received", len(sorted))
	}
	s.logger.Debug("sorted items", "items", len(sorted), "finish_reason", resp.FinishReason)
	return sorted, nil
}
