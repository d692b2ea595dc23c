package apierror

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestStatusInspector_IsAuthError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "graphql non-200 unauthorized",
			err:  errors.New("non-200 OK status code: 401 Unauthorized body: \"{\\\"message\\\":\\\"Bad credentials\\\"}\""),
			want: true,
		},
		{
			name: "openai api error",
			err:  errors.New("error, status code: 401, status: 401 Unauthorized, message: Incorrect API key provided"),
			want: true,
		},
		{
			name: "wrapped auth error",
			err:  fmt.Errorf("failed to search issues: %w", errors.New("403 Forbidden")),
			want: true,
		},
		{
			name: "not an auth error",
			err:  errors.New("something went wrong"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusInspector_IsNotFoundError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"404 status", errors.New("non-200 OK status code: 404 Not Found"), true},
		{"unresolvable repository", errors.New("Could not resolve to a Repository with the name 'octo/missing'."), true},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNotFoundError(tt.err); got != tt.want {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusInspector_IsRateLimitError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"429 status", errors.New("error, status code: 429, status: 429 Too Many Requests"), true},
		{"github message", errors.New("API rate limit exceeded for installation"), true},
		{"secondary", errors.New("You have exceeded a secondary rate limit"), true},
		{"other", errors.New("bad request"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusInspector_IsNetworkError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection refused", errors.New("dial tcp 127.0.0.1:443: connect: connection refused"), true},
		{"dns", errors.New("lookup api.openai.com: no such host"), true},
		{"context deadline", fmt.Errorf("request: %w", context.DeadlineExceeded), true},
		{"tls", errors.New("net/http: TLS handshake timeout"), true},
		{"other", errors.New("invalid character 'u' looking for beginning of value"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusInspector_Classify(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"rate limit reported as 403", errors.New("403 Forbidden: API rate limit exceeded"), KindRateLimit},
		{"auth", errors.New("401 Unauthorized"), KindAuth},
		{"not found", errors.New("404 Not Found"), KindNotFound},
		{"network", errors.New("connection reset by peer"), KindNetwork},
		{"unknown", errors.New("500 Internal Server Error"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
