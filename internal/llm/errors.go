package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned by constructors; the client is unusable.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrAPICallFailed matches every *APIError.
	ErrAPICallFailed = errors.New("api call failed")
	// ErrTransport wraps network-level failures: dial, TLS, timeouts, resets.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse is returned when a 2xx body lacks the reply text.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx reply from the provider. Body is the raw response body.
type APIError struct {
	Provider   string
	StatusCode int
	Status     string
	Body       string
	// Message is the provider's error.message, when the body carried one.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s request failed: %d %s: %s. Response: %s", e.Provider, e.StatusCode, e.Status, e.Message, e.Body)
	}
	return fmt.Sprintf("%s request failed: %d %s. Response: %s", e.Provider, e.StatusCode, e.Status, e.Body)
}

func (e *APIError) Is(target error) bool {
	return target == ErrAPICallFailed
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

func malformed(provider, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedResponse, provider, fmt.Sprintf(format, args...))
}
