package llm

import (
	"context"
	"net/http"
	"strings"
)

const (
	DefaultAnthropicURL       = "https://api.anthropic.com"
	defaultAnthropicVersion   = "2023-06-01"
	defaultAnthropicMaxTokens = 1000
)

type AnthropicConfig struct {
	BaseURL    string
	Token      string
	Model      string
	Version    string
	MaxTokens  int
	HTTPClient *http.Client
}

type AnthropicClient struct {
	endpoint   string
	token      string
	model      string
	version    string
	maxTokens  int
	httpClient *http.Client
}

func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, invalidConfig("anthropic api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, invalidConfig("anthropic model is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultAnthropicURL
	}
	if _, err := parseBaseURL(ProviderAnthropic, baseURL); err != nil {
		return nil, err
	}
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = defaultAnthropicVersion
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	client := cfg.HTTPClient
	if client == nil {
		client = NewHTTPClient()
	}
	return &AnthropicClient{
		endpoint:   buildAnthropicEndpoint(baseURL),
		token:      cfg.Token,
		model:      model,
		version:    version,
		maxTokens:  maxTokens,
		httpClient: client,
	}, nil
}

func (c *AnthropicClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	messages, system := splitAnthropicMessages(req.Messages)
	payload := anthropicChatRequest{
		Model:     c.resolveModel(req.Model),
		Messages:  messages,
		System:    system,
		MaxTokens: c.resolveMaxTokens(req.MaxTokens),
	}
	headers := map[string]string{
		"x-api-key":         c.token,
		"anthropic-version": c.version,
	}

	var resp anthropicChatResponse
	if err := postJSON(ctx, c.httpClient, ProviderAnthropic, c.endpoint, headers, payload, &resp); err != nil {
		return ChatResponse{}, err
	}
	content, ok := flattenAnthropicContent(resp.Content)
	if !ok {
		return ChatResponse{}, malformed(ProviderAnthropic, "response has no text content")
	}
	return ChatResponse{
		Content:      content,
		Model:        resp.Model,
		FinishReason: resp.StopReason,
	}, nil
}

func (c *AnthropicClient) resolveModel(override string) string {
	if strings.TrimSpace(override) == "" {
		return c.model
	}
	return override
}

func (c *AnthropicClient) resolveMaxTokens(override int) int {
	if override <= 0 {
		return c.maxTokens
	}
	return override
}

func buildAnthropicEndpoint(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(base, "/messages") {
		return base
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/messages"
	}
	return base + "/v1/messages"
}

func splitAnthropicMessages(messages []Message) ([]Message, string) {
	if len(messages) == 0 {
		return messages, ""
	}
	first := messages[0]
	if first.Role != "system" {
		return messages, ""
	}
	return messages[1:], first.Content
}

func flattenAnthropicContent(blocks []anthropicContent) (string, bool) {
	var builder strings.Builder
	found := false
	for _, block := range blocks {
		if block.Type != "text" {
			continue
		}
		found = true
		builder.WriteString(block.Text)
	}
	return builder.String(), found
}

type anthropicChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	System    string    `json:"system,omitempty"`
	MaxTokens int       `json:"max_tokens"`
}

type anthropicChatResponse struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
