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
	"fmt"
	"strings"
)

// Issue is a GitHub issue as seen by the tracker.
type Issue struct {
	// ID is the GraphQL node ID, required by mutations.
	ID     string `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// Repository identifies a repository in "owner/name" form.
type Repository struct {
	Owner string
	Name  string
}

// String implements fmt.Stringer.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepository parses an owner/name string into its components.
func ParseRepository(s string) (Repository, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Repository{}, fmt.Errorf("invalid repository format. Expected: <owner>/<name>, got: %s", s)
	}

	owner := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])

	if owner == "" || name == "" {
		return Repository{}, fmt.Errorf("invalid repository format. Expected: <owner>/<name>, got: %s", s)
	}

	return Repository{Owner: owner, Name: name}, nil
}

// CreateIssueInput is the GraphQL input object for the createIssue
// mutation. The type name is part of the generated query.
type CreateIssueInput struct {
	RepositoryID string `json:"repositoryId"`
	Title        string `json:"title"`
	Body         string `json:"body,omitempty"`
}

// UpdateIssueInput is the GraphQL input object for the updateIssue mutation.
type UpdateIssueInput struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// Default values for issue searches
const (
	searchPageSize = 100
)
