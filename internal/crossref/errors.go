package crossref

import (
	"errors"
	"fmt"
)

// Common errors returned by the CrossRef client.
var (
	// ErrAuth indicates the API rejected our credentials; the whole batch
	// must stop rather than degrade into per-record misses.
	ErrAuth = errors.New("CrossRef authentication error")

	// ErrRateLimited indicates the rate limit was exceeded.
	ErrRateLimited = errors.New("CrossRef rate limit exceeded")

	// ErrNetwork indicates a transport-level failure.
	ErrNetwork = errors.New("network error communicating with CrossRef")

	// ErrInvalidResponse indicates an unparseable API response.
	ErrInvalidResponse = errors.New("invalid response from CrossRef")
)

// APIError represents a non-transient error from the CrossRef REST API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CrossRef API error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuth) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
