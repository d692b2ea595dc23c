// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil provides common test helpers for model-watch
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// ModelsServer is a mock OpenAI-compatible listing API serving GET
// /v1/models.
type ModelsServer struct {
	*httptest.Server

	mu       sync.Mutex
	listing  map[string]interface{}
	lastAuth string
	requests int32
}

// NewModelsServer creates a listing server returning listing. The server is
// closed when the test ends.
func NewModelsServer(t *testing.T, listing map[string]interface{}) *ModelsServer {
	t.Helper()

	mock := &ModelsServer{listing: listing}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&mock.requests, 1)

		mock.mu.Lock()
		mock.lastAuth = r.Header.Get("Authorization")
		body := mock.listing
		mock.mu.Unlock()

		if r.Method != http.MethodGet || r.URL.Path != "/v1/models" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"unknown route","type":"invalid_request_error"}}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(mock.Close)

	return mock
}

// BaseURL returns the API root to configure clients with.
func (s *ModelsServer) BaseURL() string {
	return s.URL + "/v1"
}

// SetListing replaces the served listing.
func (s *ModelsServer) SetListing(listing map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listing = listing
}

// LastAuthorization returns the Authorization header of the last request.
func (s *ModelsServer) LastAuthorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

// RequestCount returns how many requests were served.
func (s *ModelsServer) RequestCount() int {
	return int(atomic.LoadInt32(&s.requests))
}

// NewErrorServer creates a mock server that always returns the specified
// status with an OpenAI-style error body.
func NewErrorServer(t *testing.T, statusCode int, message string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
				"type":    "invalid_request_error",
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

// NewTimeoutServer creates a mock server that answers after delay.
func NewTimeoutServer(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
		case <-done:
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(DefaultListing())
	}))
	t.Cleanup(func() {
		close(done)
		server.Close()
	})
	return server
}
