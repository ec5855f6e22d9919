package llm

import (
	"errors"
	"net/http"
)

// Sentinel errors classify provider failures at the gateway boundary.
// Callers branch on these with errors.Is; the underlying provider error is
// wrapped for logging but its detail never reaches users.
var (
	// ErrAuthentication indicates bad or missing provider credentials.
	ErrAuthentication = errors.New("llm: authentication failed")

	// ErrRateLimited indicates upstream throttling.
	ErrRateLimited = errors.New("llm: rate limited")

	// ErrUnavailable indicates a connectivity or generic service failure.
	ErrUnavailable = errors.New("llm: service unavailable")
)

// classifyStatus maps an upstream HTTP status onto a sentinel error.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrAuthentication
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUnavailable
	}
}
