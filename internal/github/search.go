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
	"strings"

	"github.com/shurcooL/graphql"
)

// buildIssueSearchQuery constructs a GitHub search query for open issues
// whose title contains title. Search matching is fuzzy, so callers still
// compare titles exactly.
func buildIssueSearchQuery(repo Repository, title string) string {
	parts := []string{
		fmt.Sprintf("repo:%s", repo),
		"is:issue",
		"is:open",
		"in:title",
		// Quotes delimit the phrase; embedded ones cannot be escaped
		fmt.Sprintf("%q", strings.ReplaceAll(title, `"`, "")),
		"sort:created-desc",
	}
	return strings.Join(parts, " ")
}

// FindOpenIssue implements IssueTracker. When several open issues share the
// title, the most recently created one is returned.
func (c *GraphQLClient) FindOpenIssue(ctx context.Context, title string) (*Issue, error) {
	var query struct {
		Search struct {
			Nodes []struct {
				Issue struct {
					ID     graphql.String
					Number graphql.Int
					Title  graphql.String
					URL    graphql.String
				} `graphql:"... on Issue"`
			}
		} `graphql:"search(query: $query, type: ISSUE, first: $first)"`
	}

	variables := map[string]interface{}{
		"query": graphql.String(buildIssueSearchQuery(c.repo, title)),
		"first": graphql.Int(searchPageSize),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, "list issues")
	}

	for _, node := range query.Search.Nodes {
		if string(node.Issue.Title) != title {
			continue
		}
		return &Issue{
			ID:     string(node.Issue.ID),
			Number: int(node.Issue.Number),
			Title:  string(node.Issue.Title),
			URL:    string(node.Issue.URL),
		}, nil
	}

	return nil, nil
}
