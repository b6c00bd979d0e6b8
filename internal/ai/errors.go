package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

var ErrEmptyCompletion = errors.New("ai completion is empty")

// APIError is a non-2xx response from the generation service.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Header     http.Header
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// IsTransient reports whether err is worth retrying: rate limiting, server errors,
// DNS failures, connection resets and timeouts.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// responseHeader returns the response headers attached to err, if any.
func responseHeader(err error) http.Header {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Header
	}

	return nil
}

func statusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}
