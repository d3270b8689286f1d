package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/custom/completions", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"model":"gpt-test","max_tokens":1000,"messages":[{"role":"user","content":"hi"}]}`, string(body))
		_, _ = io.WriteString(w, `{"model":"gpt-test","choices":[{"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client, err := NewOpenAIClient(OpenAIConfig{
		BaseURL: server.URL + "/custom/completions",
		Token:   "token",
		Model:   "gpt-test",
	})
	require.NoError(t, err)

	resp, err := client.Chat(context.Background(), ChatRequest{
		Messages: []Message{UserMessage("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestOpenAIChatAPIError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"rate limited","type":"requests"}}`)
	}))
	defer server.Close()

	client, err := NewOpenAIClient(OpenAIConfig{BaseURL: server.URL, Token: "token"})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), ChatRequest{Messages: []Message{UserMessage("hi")}})
	require.ErrorIs(t, err, ErrAPICallFailed)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "Too Many Requests", apiErr.Status)
	assert.Equal(t, `{"error":{"message":"rate limited","type":"requests"}}`, apiErr.Body)
	assert.Equal(t, "rate limited", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIChatMalformed(t *testing.T) {
	cases := map[string]string{
		"no choices":        `{"id":"x"}`,
		"empty choices":     `{"choices":[]}`,
		"missing message":   `{"choices":[{"finish_reason":"stop"}]}`,
		"null content":      `{"choices":[{"message":{"role":"assistant","content":null}}]}`,
		"non-string":        `{"choices":[{"message":{"role":"assistant","content":42}}]}`,
		"not json":          `<html>oops</html>`,
		"error on success":  `{"error":{"message":"overloaded"}}`,
		"choices not array": `{"choices":{"message":{"content":"x"}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			defer server.Close()

			client, err := NewOpenAIClient(OpenAIConfig{BaseURL: server.URL, Token: "token"})
			require.NoError(t, err)
			_, err = client.Chat(context.Background(), ChatRequest{Messages: []Message{UserMessage("hi")}})
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestOpenAIChatTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client, err := NewOpenAIClient(OpenAIConfig{BaseURL: endpoint, Token: "token"})
	require.NoError(t, err)
	_, err = client.Chat(context.Background(), ChatRequest{Messages: []Message{UserMessage("hi")}})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestNewOpenAIClientDefaults(t *testing.T) {
	client, err := NewOpenAIClient(OpenAIConfig{Token: "valid-key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, client.model)
	assert.Equal(t, DefaultOpenAIURL, client.baseURL)
	assert.Equal(t, 1000, client.maxTokens)
}

func TestNewOpenAIClientKeepsTokenVerbatim(t *testing.T) {
	client, err := NewOpenAIClient(OpenAIConfig{Token: " sk-padded\t"})
	require.NoError(t, err)
	assert.Equal(t, " sk-padded\t", client.token)
}

func TestNewOpenAIClientRequiresToken(t *testing.T) {
	for _, token := range []string{"", "   ", "\t\n"} {
		_, err := NewOpenAIClient(OpenAIConfig{Token: token})
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "token %q", token)
	}
}

func TestNewOpenAIClientRejectsBadBaseURL(t *testing.T) {
	for _, baseURL := range []string{"://nope", "api.openai.com/v1/chat/completions", "http://[::1"} {
		_, err := NewOpenAIClient(OpenAIConfig{Token: "token", BaseURL: baseURL})
		assert.ErrorIs(t, err, ErrInvalidConfiguration, baseURL)
	}
}

func TestNewClientProviders(t *testing.T) {
	_, err := NewClient(Config{Token: "key"})
	assert.NoError(t, err, "default provider")
	_, err = NewClient(Config{Provider: ProviderAnthropic, Token: "key", Model: "claude-test"})
	assert.NoError(t, err, "anthropic provider")
	_, err = NewClient(Config{Provider: ProviderGemini, Token: "key", Model: "gemini-test"})
	assert.NoError(t, err, "gemini provider")

	_, err = NewClient(Config{Provider: "cohere", Token: "key"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
