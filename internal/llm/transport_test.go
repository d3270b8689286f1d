package llm

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClientTimeouts(t *testing.T) {
	client := NewHTTPClient()

	wrapped, ok := client.Transport.(*readTimeoutTransport)
	require.True(t, ok, "transport is %T", client.Transport)
	assert.Equal(t, 60*time.Second, wrapped.timeout)

	transport, ok := wrapped.base.(*http.Transport)
	require.True(t, ok, "base transport is %T", wrapped.base)
	assert.Equal(t, 30*time.Second, transport.TLSHandshakeTimeout)
	assert.Equal(t, 60*time.Second, transport.ResponseHeaderTimeout)
	assert.Zero(t, client.Timeout)
}

func TestHTTPClientConnectTimeoutAppliesToDial(t *testing.T) {
	client := newHTTPClient(50*time.Millisecond, time.Second)
	transport := client.Transport.(*readTimeoutTransport).base.(*http.Transport)

	// 192.0.2.0/24 is reserved for documentation and never answers.
	start := time.Now()
	_, err := transport.DialContext(context.Background(), "tcp", "192.0.2.1:81")
	require.Error(t, err)
	if netErr, ok := err.(net.Error); ok && !netErr.Timeout() {
		t.Skipf("network rejected the dial immediately: %v", err)
	}
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPostJSONStalledBodyIsTransportError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"a`)
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = io.WriteString(w, `"}}]}`)
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client, err := NewOpenAIClient(OpenAIConfig{
		BaseURL:    server.URL,
		Token:      "token",
		HTTPClient: newHTTPClient(time.Second, 200*time.Millisecond),
	})
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Chat(context.Background(), ChatRequest{Messages: []Message{UserMessage("hi")}})
	require.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, errReadTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPostJSONSlowButSteadyBodySucceeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunks := []string{`{"choices":[{"message":`, `{"content":`, `"done"}}]}`}
		for _, chunk := range chunks {
			_, _ = io.WriteString(w, chunk)
			w.(http.Flusher).Flush()
			time.Sleep(100 * time.Millisecond)
		}
	}))
	defer server.Close()

	client, err := NewOpenAIClient(OpenAIConfig{
		BaseURL:    server.URL,
		Token:      "token",
		HTTPClient: newHTTPClient(time.Second, 250*time.Millisecond),
	})
	require.NoError(t, err)

	resp, err := client.Chat(context.Background(), ChatRequest{Messages: []Message{UserMessage("hi")}})
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Content)
}

func TestStalledHeadersAreTransportError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client, err := NewOpenAIClient(OpenAIConfig{
		BaseURL:    server.URL,
		Token:      "token",
		HTTPClient: newHTTPClient(time.Second, 200*time.Millisecond),
	})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), ChatRequest{Messages: []Message{UserMessage("hi")}})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestParseBaseURL(t *testing.T) {
	for _, raw := range []string{"https://api.openai.com/v1/chat/completions", "http://127.0.0.1:8080"} {
		_, err := parseBaseURL(ProviderOpenAI, raw)
		assert.NoError(t, err, raw)
	}
	for _, raw := range []string{"://missing-scheme", "api.openai.com/v1", "ftp://example.test", "http://", "http://[::1"} {
		_, err := parseBaseURL(ProviderOpenAI, raw)
		assert.ErrorIs(t, err, ErrInvalidConfiguration, raw)
	}
}
