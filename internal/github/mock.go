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

package github

import (
	"context"
	"fmt"

	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
)

// MockTracker is a mock implementation of the IssueTracker interface for testing.
type MockTracker struct {
	// Issues currently open, keyed by title
	Issues map[string]*Issue

	// Errors to return per operation
	FindError   error
	CreateError error
	UpdateError error

	// Track calls for verification
	FindCalls   int
	CreateCalls int
	UpdateCalls int
	LastTitle   string
	LastBody    string

	nextNumber int
}

// NewMockTracker creates a new mock tracker with no open issues
func NewMockTracker() *MockTracker {
	return &MockTracker{
		Issues:     make(map[string]*Issue),
		nextNumber: 1,
	}
}

// FindOpenIssue implements the IssueTracker interface
func (m *MockTracker) FindOpenIssue(ctx context.Context, title string) (*Issue, error) {
	m.FindCalls++
	m.LastTitle = title

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.FindError != nil {
		return nil, m.FindError
	}

	if issue, ok := m.Issues[title]; ok {
		found := *issue
		return &found, nil
	}
	return nil, nil
}

// CreateIssue implements the IssueTracker interface
func (m *MockTracker) CreateIssue(ctx context.Context, title, body string) (*Issue, error) {
	m.CreateCalls++
	m.LastTitle = title
	m.LastBody = body

	if m.CreateError != nil {
		return nil, m.CreateError
	}

	issue := &Issue{
		ID:     fmt.Sprintf("I_mock%d", m.nextNumber),
		Number: m.nextNumber,
		Title:  title,
		URL:    fmt.Sprintf("https://github.com/octo/models/issues/%d", m.nextNumber),
	}
	m.nextNumber++
	m.Issues[title] = issue

	created := *issue
	return &created, nil
}

// UpdateIssueBody implements the IssueTracker interface
func (m *MockTracker) UpdateIssueBody(ctx context.Context, issue *Issue, body string) error {
	m.UpdateCalls++
	m.LastBody = body

	if m.UpdateError != nil {
		return m.UpdateError
	}
	if issue == nil {
		return fmt.Errorf("update issue: missing issue: %w", modelerrors.ErrIssueTracker)
	}
	m.LastTitle = issue.Title
	return nil
}

// MockTrackerOption allows configuring the mock tracker
type MockTrackerOption func(*MockTracker)

// WithOpenIssue seeds an open issue with the given title
func WithOpenIssue(number int, title string) MockTrackerOption {
	return func(m *MockTracker) {
		m.Issues[title] = &Issue{
			ID:     fmt.Sprintf("I_mock%d", number),
			Number: number,
			Title:  title,
		}
		if number >= m.nextNumber {
			m.nextNumber = number + 1
		}
	}
}

// WithListFailure makes issue lookups fail with the given HTTP status
func WithListFailure(status int) MockTrackerOption {
	return func(m *MockTracker) {
		m.FindError = fmt.Errorf("list issues: non-200 OK status code: %d: %w", status, modelerrors.ErrIssueTracker)
	}
}

// WithCreateFailure makes issue creation fail with the given error
func WithCreateFailure(err error) MockTrackerOption {
	return func(m *MockTracker) {
		m.CreateError = err
	}
}

// WithUpdateFailure makes issue updates fail with the given error
func WithUpdateFailure(err error) MockTrackerOption {
	return func(m *MockTracker) {
		m.UpdateError = err
	}
}

// NewMockTrackerWithOptions creates a mock tracker with options
func NewMockTrackerWithOptions(opts ...MockTrackerOption) *MockTracker {
	mock := NewMockTracker()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
