package openalex

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the OpenAlex client.
var (
	// ErrNotFound indicates no work is registered for the DOI.
	ErrNotFound = errors.New("work not found in OpenAlex")

	// ErrRateLimited indicates retries were exhausted on HTTP 429.
	ErrRateLimited = errors.New("OpenAlex rate limit exceeded")

	// ErrInvalidResponse indicates an undecodable response body.
	ErrInvalidResponse = errors.New("invalid response from OpenAlex")
)

// APIError represents a non-success HTTP response from OpenAlex.
type APIError struct {
	StatusCode int
	Message    string
	DOI        string
}

func (e *APIError) Error() string {
	if e.DOI != "" {
		return fmt.Sprintf("OpenAlex API error (status %d): %s (doi: %s)", e.StatusCode, e.Message, e.DOI)
	}
	return fmt.Sprintf("OpenAlex API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap maps well-known statuses onto the sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return nil
	}
}

// IsNotFound returns true if the error indicates the work was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
