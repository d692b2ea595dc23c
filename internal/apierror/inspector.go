package apierror

import (
	"strings"
)

// Kind names an error class. It is used as a structured log field.
type Kind string

const (
	KindUnknown   Kind = ""
	KindAuth      Kind = "auth"
	KindNotFound  Kind = "not_found"
	KindRateLimit Kind = "rate_limit"
	KindNetwork   Kind = "network"
)

// Inspector provides methods for analyzing API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a resource not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool

	// Classify returns the first matching Kind, checking rate limits before
	// auth since GitHub reports both as 403.
	Classify(err error) Kind
}

// StatusInspector implements Inspector by matching status codes and
// messages in the error text.
type StatusInspector struct{}

// NewInspector creates a new StatusInspector.
func NewInspector() Inspector {
	return &StatusInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *StatusInspector) IsAuthError(err error) bool {
	return containsAny(err,
		"401",
		"403",
		"unauthorized",
		"forbidden",
		"bad credentials",
		"incorrect api key",
		"invalid_api_key",
		"authentication")
}

// IsNotFoundError checks if the error is a not found error.
func (i *StatusInspector) IsNotFoundError(err error) bool {
	return containsAny(err,
		"404",
		"not found",
		"could not resolve to a repository")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *StatusInspector) IsRateLimitError(err error) bool {
	return containsAny(err,
		"rate limit",
		"429",
		"secondary rate limit")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *StatusInspector) IsNetworkError(err error) bool {
	return containsAny(err,
		"connection refused",
		"connection reset",
		"no such host",
		"timeout",
		"deadline exceeded",
		"temporary failure",
		"dial tcp",
		"tls handshake",
		"network is unreachable")
}

// Classify implements Inspector.
func (i *StatusInspector) Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case i.IsRateLimitError(err):
		return KindRateLimit
	case i.IsAuthError(err):
		return KindAuth
	case i.IsNotFoundError(err):
		return KindNotFound
	case i.IsNetworkError(err):
		return KindNetwork
	default:
		return KindUnknown
	}
}

func containsAny(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, n := range needles {
		if strings.Contains(errStr, n) {
			return true
		}
	}
	return false
}
