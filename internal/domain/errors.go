package domain

import "errors"

// Error kinds shared by the ingestion and query paths. Callers match them
// with errors.Is; the HTTP layer maps ErrInvalidInput to a client error and
// the other two to a server error.
var (
	// ErrInvalidInput marks client-side defects: empty upload, unsupported
	// format, no extractable text, empty query.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured marks a missing provider credential. Not retryable
	// without operator intervention.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrProvider marks a failed, timed out or malformed provider response.
	ErrProvider = errors.New("provider request failed")
)
