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

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
)

func newListingServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "model-watch/"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestListingFetcher_FetchModels(t *testing.T) {
	server := newListingServer(t, http.StatusOK, `{
		"object": "list",
		"data": [
			{"id": "gpt-4o", "object": "model", "created": 200, "owned_by": "system"},
			{"id": "gpt-4-turbo", "object": "model", "created": 300, "owned_by": "system"},
			{"id": "gpt-4-undated", "object": "model", "owned_by": "system"}
		]
	}`)

	f, err := New(SourceOpenAI, Options{APIKey: "test-key", BaseURL: server.URL + "/v1/"})
	require.NoError(t, err)
	assert.Equal(t, SourceOpenAI, f.Source())

	got, err := f.FetchModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Candidate{
		{ID: "gpt-4o", Created: 200},
		{ID: "gpt-4-turbo", Created: 300},
		{ID: "gpt-4-undated", Created: 0},
	}, got)
}

func TestListingFetcher_EmptyListing(t *testing.T) {
	server := newListingServer(t, http.StatusOK, `{"object": "list", "data": []}`)

	f, err := New(SourceOpenRouter, Options{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	got, err := f.FetchModels(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListingFetcher_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantInErr []string
	}{
		{
			name:   "unauthorized with api error body",
			status: http.StatusUnauthorized,
			body:   `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			wantInErr: []string{
				"status 401",
				"Incorrect API key provided",
				"OPENAI_API_KEY",
			},
		},
		{
			name:   "server error with plain body",
			status: http.StatusInternalServerError,
			body:   "upstream exploded",
			wantInErr: []string{
				"status 500",
				"upstream exploded",
			},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error": {"message": "Rate limit reached", "type": "requests"}}`,
			wantInErr: []string{
				"status 429",
				"Rate limit reached",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newListingServer(t, tt.status, tt.body)

			f, err := New(SourceOpenAI, Options{APIKey: "test-key", BaseURL: server.URL + "/v1"})
			require.NoError(t, err)

			got, err := f.FetchModels(context.Background())
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, modelerrors.ErrFetchFailed)
			for _, want := range tt.wantInErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestListingFetcher_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	f, err := New(SourceOpenAI, Options{APIKey: "test-key", BaseURL: url + "/v1"})
	require.NoError(t, err)

	_, err = f.FetchModels(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, modelerrors.ErrFetchFailed)
	assert.Contains(t, err.Error(), "network error")
}

func TestMockFetcher(t *testing.T) {
	m := NewMockFetcherWithOptions(WithCandidates([]Candidate{{ID: "gpt-4", Created: 1}}))
	got, err := m.FetchModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{ID: "gpt-4", Created: 1}}, got)
	assert.Equal(t, 1, m.CallCount)

	failing := NewMockFetcherWithOptions(WithFetchFailure(http.StatusBadGateway, "bad gateway"))
	_, err = failing.FetchModels(context.Background())
	assert.ErrorIs(t, err, modelerrors.ErrFetchFailed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewMockFetcher().FetchModels(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	var _ Fetcher = m
}
