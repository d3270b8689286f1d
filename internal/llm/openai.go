package llm

import (
	"context"
	"net/http"
	"strings"
)

const (
	DefaultOpenAIURL       = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel     = "gpt-3.5-turbo"
	DefaultOpenAIMaxTokens = 1000
)

type OpenAIConfig struct {
	// BaseURL is the full chat-completions endpoint; requests are posted to it verbatim.
	BaseURL    string
	Token      string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
}

type OpenAIClient struct {
	baseURL    string
	// token is sent exactly as configured.
	token      string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, invalidConfig("openai api key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	if _, err := parseBaseURL(ProviderOpenAI, baseURL); err != nil {
		return nil, err
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultOpenAIMaxTokens
	}
	client := cfg.HTTPClient
	if client == nil {
		client = NewHTTPClient()
	}
	return &OpenAIClient{
		baseURL:    baseURL,
		token:      cfg.Token,
		model:      model,
		maxTokens:  maxTokens,
		httpClient: client,
	}, nil
}

func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	payload := ChatRequest{
		Model:     c.resolveModel(req.Model),
		MaxTokens: c.resolveMaxTokens(req.MaxTokens),
		Messages:  req.Messages,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.token}

	var resp openAIChatResponse
	if err := postJSON(ctx, c.httpClient, ProviderOpenAI, c.baseURL, headers, payload, &resp); err != nil {
		return ChatResponse{}, err
	}
	if len(resp.Choices) == 0 {
		if resp.Error != nil && resp.Error.Message != "" {
			return ChatResponse{}, malformed(ProviderOpenAI, "no choices: %s", resp.Error.Message)
		}
		return ChatResponse{}, malformed(ProviderOpenAI, "response has no choices")
	}
	choice := resp.Choices[0]
	if choice.Message == nil || choice.Message.Content == nil {
		return ChatResponse{}, malformed(ProviderOpenAI, "choices[0].message.content is missing")
	}
	return ChatResponse{
		Content:      *choice.Message.Content,
		Model:        resp.Model,
		FinishReason: choice.FinishReason,
	}, nil
}

func (c *OpenAIClient) resolveModel(override string) string {
	if strings.TrimSpace(override) == "" {
		return c.model
	}
	return override
}

func (c *OpenAIClient) resolveMaxTokens(override int) int {
	if override <= 0 {
		return c.maxTokens
	}
	return override
}

type openAIChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message *struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
