package vibesort

import "vibesort/internal/llm"

// Failures from New, Sort and SortBy match one of these with errors.Is.
var (
	ErrInvalidConfiguration = llm.ErrInvalidConfiguration
	ErrAPICallFailed        = llm.ErrAPICallFailed
	ErrTransport            = llm.ErrTransport
	ErrMalformedResponse    = llm.ErrMalformedResponse
)

// APIError carries the status and raw body of a non-2xx reply.
// Use errors.As to extract it.
type APIError = llm.APIError
