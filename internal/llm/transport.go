package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	ConnectTimeout = 30 * time.Second
	ReadTimeout    = 60 * time.Second
)

var errReadTimeout = errors.New("read timeout")

// NewHTTPClient returns a client whose dial and TLS handshake are bounded by
// ConnectTimeout. ReadTimeout bounds the wait for response headers and every
// gap between reads of the response body.
func NewHTTPClient() *http.Client {
	return newHTTPClient(ConnectTimeout, ReadTimeout)
}

func newHTTPClient(connectTimeout, readTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = connectTimeout
	transport.ResponseHeaderTimeout = readTimeout
	return &http.Client{Transport: &readTimeoutTransport{base: transport, timeout: readTimeout}}
}

// readTimeoutTransport cancels a request when its response body goes quiet
// for longer than timeout.
type readTimeoutTransport struct {
	base    http.RoundTripper
	timeout time.Duration
}

func (t *readTimeoutTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancelCause(req.Context())
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		cancel(nil)
		return nil, err
	}
	body := &idleTimeoutBody{
		body:    resp.Body,
		ctx:     ctx,
		cancel:  cancel,
		timeout: t.timeout,
	}
	body.timer = time.AfterFunc(t.timeout, func() { cancel(errReadTimeout) })
	resp.Body = body
	return resp, nil
}

type idleTimeoutBody struct {
	body    io.ReadCloser
	ctx     context.Context
	cancel  context.CancelCauseFunc
	timer   *time.Timer
	timeout time.Duration
}

func (b *idleTimeoutBody) Read(p []byte) (int, error) {
	n, err := b.body.Read(p)
	if err != nil && err != io.EOF && errors.Is(context.Cause(b.ctx), errReadTimeout) {
		return n, fmt.Errorf("%w: no data for %s", errReadTimeout, b.timeout)
	}
	b.timer.Reset(b.timeout)
	return n, err
}

func (b *idleTimeoutBody) Close() error {
	b.timer.Stop()
	err := b.body.Close()
	b.cancel(nil)
	return err
}

// parseBaseURL rejects endpoints that could never be dialed.
func parseBaseURL(provider, raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, invalidConfig("%s base url: %v", provider, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, invalidConfig("%s base url %q: scheme must be http or https", provider, raw)
	}
	if u.Host == "" {
		return nil, invalidConfig("%s base url %q: missing host", provider, raw)
	}
	return u, nil
}

// postJSON sends payload to endpoint and decodes a 2xx body into out.
func postJSON(ctx context.Context, client *http.Client, provider, endpoint string, headers map[string]string, payload, out any) error {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return invalidConfig("%s endpoint %q: %v", provider, endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s request: %w", ErrTransport, provider, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s read response: %w", ErrTransport, provider, err)
	}

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(provider, httpResp, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s decode response: %w", ErrMalformedResponse, provider, err)
	}
	return nil
}

func newAPIError(provider string, resp *http.Response, body []byte) *APIError {
	status := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if status == "" {
		status = http.StatusText(resp.StatusCode)
	}
	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &envelope)

	apiErr := &APIError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Status:     status,
		Body:       string(body),
	}
	if envelope.Error != nil {
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
