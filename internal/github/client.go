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

import "context"

// IssueTracker defines the interface for the issue operations model-watch
// needs. A tracker is bound to one repository.
// This interface allows for easy mocking in tests.
type IssueTracker interface {
	// FindOpenIssue returns the open issue whose title equals title
	// exactly, or nil when there is none.
	FindOpenIssue(ctx context.Context, title string) (*Issue, error)

	// CreateIssue opens a new issue.
	CreateIssue(ctx context.Context, title, body string) (*Issue, error)

	// UpdateIssueBody replaces the body of an existing issue.
	UpdateIssueBody(ctx context.Context, issue *Issue, body string) error
}
