package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
)

const DefaultGeminiURL = "https://generativelanguage.googleapis.com"

type GeminiConfig struct {
	BaseURL    string
	Token      string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
}

type GeminiClient struct {
	baseURL    *url.URL
	token      string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, invalidConfig("gemini api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, invalidConfig("gemini model is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	u, err := parseBaseURL(ProviderGemini, baseURL)
	if err != nil {
		return nil, err
	}
	client := cfg.HTTPClient
	if client == nil {
		client = NewHTTPClient()
	}
	return &GeminiClient{
		baseURL:    u,
		token:      cfg.Token,
		model:      model,
		maxTokens:  cfg.MaxTokens,
		httpClient: client,
	}, nil
}

func (c *GeminiClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	contents, system := buildGeminiContents(req.Messages)
	payload := geminiGenerateContentRequest{
		Contents:          contents,
		SystemInstruction: system,
	}
	if maxTokens := c.resolveMaxTokens(req.MaxTokens); maxTokens > 0 {
		payload.GenerationConfig = &geminiGenerationConfig{MaxOutputTokens: maxTokens}
	}

	var resp geminiGenerateContentResponse
	endpoint := c.endpoint(c.resolveModel(req.Model))
	headers := map[string]string{"x-goog-api-key": c.token}
	if err := postJSON(ctx, c.httpClient, ProviderGemini, endpoint, headers, payload, &resp); err != nil {
		return ChatResponse{}, err
	}
	if len(resp.Candidates) == 0 {
		return ChatResponse{}, malformed(ProviderGemini, "response has no candidates")
	}
	content, ok := flattenGeminiContent(resp.Candidates[0].Content)
	if !ok {
		return ChatResponse{}, malformed(ProviderGemini, "candidates[0] has no text parts")
	}
	return ChatResponse{
		Content:      content,
		Model:        resp.ModelVersion,
		FinishReason: resp.Candidates[0].FinishReason,
	}, nil
}

func (c *GeminiClient) resolveModel(override string) string {
	if strings.TrimSpace(override) == "" {
		return c.model
	}
	return override
}

func (c *GeminiClient) resolveMaxTokens(override int) int {
	if override <= 0 {
		return c.maxTokens
	}
	return override
}

func (c *GeminiClient) endpoint(model string) string {
	u := *c.baseURL
	apiPath := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(apiPath, "/v1") && !strings.HasSuffix(apiPath, "/v1beta") {
		apiPath = path.Join(apiPath, "/v1beta")
	}
	u.Path = path.Join(apiPath, "models", fmt.Sprintf("%s:generateContent", model))
	return u.String()
}

func buildGeminiContents(messages []Message) ([]geminiContent, *geminiSystemInstruction) {
	if len(messages) == 0 {
		return nil, nil
	}
	var system *geminiSystemInstruction
	start := 0
	if messages[0].Role == "system" {
		system = &geminiSystemInstruction{
			Parts: []geminiPart{{Text: messages[0].Content}},
		}
		start = 1
	}
	contents := make([]geminiContent, 0, len(messages)-start)
	for _, message := range messages[start:] {
		role := message.Role
		if role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: message.Content}},
		})
	}
	return contents, system
}

func flattenGeminiContent(content geminiContent) (string, bool) {
	var builder strings.Builder
	found := false
	for _, part := range content.Parts {
		if part.Text == "" {
			continue
		}
		found = true
		builder.WriteString(part.Text)
	}
	return builder.String(), found
}

type geminiGenerateContentRequest struct {
	Contents          []geminiContent          `json:"contents"`
	SystemInstruction *geminiSystemInstruction `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig  `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates   []geminiCandidate `json:"candidates"`
	ModelVersion string            `json:"modelVersion,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiSystemInstruction struct {
	Parts []geminiPart `json:"parts"`
}
