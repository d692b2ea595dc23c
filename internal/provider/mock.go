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
	"fmt"

	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing.
type MockFetcher struct {
	// Candidates to return
	Candidates []Candidate

	// Error to return
	Error error

	// FromSource is reported by Source; defaults to SourceOpenAI.
	FromSource Source

	// Track calls for verification
	CallCount int
}

// NewMockFetcher creates a mock fetcher returning the listing used across
// the package tests: two gpt-4 family models and a newer gpt-3.5 model.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Candidates: []Candidate{
			{ID: "gpt-4o", Created: 200},
			{ID: "gpt-4-turbo", Created: 300},
			{ID: "gpt-3.5", Created: 900},
		},
		FromSource: SourceOpenAI,
	}
}

// FetchModels implements the Fetcher interface
func (m *MockFetcher) FetchModels(ctx context.Context) ([]Candidate, error) {
	m.CallCount++

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.Error != nil {
		return nil, m.Error
	}

	out := make([]Candidate, len(m.Candidates))
	copy(out, m.Candidates)
	return out, nil
}

// Source implements the Fetcher interface
func (m *MockFetcher) Source() Source {
	if m.FromSource == "" {
		return SourceOpenAI
	}
	return m.FromSource
}

// MockFetcherOption allows configuring the mock fetcher
type MockFetcherOption func(*MockFetcher)

// WithCandidates sets the listing to return
func WithCandidates(candidates []Candidate) MockFetcherOption {
	return func(m *MockFetcher) {
		m.Candidates = candidates
	}
}

// WithError makes the fetcher return a specific error
func WithError(err error) MockFetcherOption {
	return func(m *MockFetcher) {
		m.Error = err
	}
}

// WithFetchFailure makes the fetcher simulate a non-success listing response
func WithFetchFailure(status int, body string) MockFetcherOption {
	return func(m *MockFetcher) {
		m.Error = fmt.Errorf("%w from %s (status %d): %s", modelerrors.ErrFetchFailed, m.Source(), status, body)
	}
}

// NewMockFetcherWithOptions creates a mock fetcher with options
func NewMockFetcherWithOptions(opts ...MockFetcherOption) *MockFetcher {
	mock := NewMockFetcher()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
