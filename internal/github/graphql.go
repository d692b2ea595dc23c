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
	"io"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
	"github.com/sirseerhq/model-watch/internal/apierror"
	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
	"github.com/sirseerhq/model-watch/pkg/version"
)

// DefaultEndpoint is the public GitHub GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// GraphQLClient implements IssueTracker using the GitHub GraphQL API.
type GraphQLClient struct {
	client    *graphql.Client
	repo      Repository
	inspector apierror.Inspector

	// repositoryID caches the node ID resolved for createIssue.
	repositoryID string
}

// NewGraphQLClient creates a tracker for repository ("owner/name") using the
// provided token and endpoint. An empty endpoint selects DefaultEndpoint.
func NewGraphQLClient(token, endpoint, repository string) (*GraphQLClient, error) {
	repo, err := ParseRepository(repository)
	if err != nil {
		return nil, err
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &authTransport{
			token: token,
			base:  http.DefaultTransport,
		},
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		repo:      repo,
		inspector: apierror.NewInspector(),
	}, nil
}

// Repository returns the repository the client is bound to.
func (c *GraphQLClient) Repository() Repository {
	return c.repo
}

// CreateIssue implements IssueTracker.
func (c *GraphQLClient) CreateIssue(ctx context.Context, title, body string) (*Issue, error) {
	repoID, err := c.resolveRepositoryID(ctx)
	if err != nil {
		return nil, err
	}

	var mutation struct {
		CreateIssue struct {
			Issue struct {
				ID     graphql.String
				Number graphql.Int
				Title  graphql.String
				URL    graphql.String
			}
		} `graphql:"createIssue(input: $input)"`
	}

	variables := map[string]interface{}{
		"input": CreateIssueInput{
			RepositoryID: repoID,
			Title:        title,
			Body:         body,
		},
	}

	if err := c.client.Mutate(ctx, &mutation, variables); err != nil {
		return nil, c.mapError(err, "create issue")
	}

	created := mutation.CreateIssue.Issue
	return &Issue{
		ID:     string(created.ID),
		Number: int(created.Number),
		Title:  string(created.Title),
		URL:    string(created.URL),
	}, nil
}

// UpdateIssueBody implements IssueTracker.
func (c *GraphQLClient) UpdateIssueBody(ctx context.Context, issue *Issue, body string) error {
	if issue == nil || issue.ID == "" {
		return fmt.Errorf("update issue: missing issue id: %w", modelerrors.ErrIssueTracker)
	}

	var mutation struct {
		UpdateIssue struct {
			Issue struct {
				ID     graphql.String
				Number graphql.Int
			}
		} `graphql:"updateIssue(input: $input)"`
	}

	variables := map[string]interface{}{
		"input": UpdateIssueInput{
			ID:   issue.ID,
			Body: body,
		},
	}

	if err := c.client.Mutate(ctx, &mutation, variables); err != nil {
		return c.mapError(err, "update issue")
	}
	return nil
}

// resolveRepositoryID fetches and caches the repository node ID.
func (c *GraphQLClient) resolveRepositoryID(ctx context.Context) (string, error) {
	if c.repositoryID != "" {
		return c.repositoryID, nil
	}

	var query struct {
		Repository struct {
			ID graphql.String
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(c.repo.Owner),
		"name":  graphql.String(c.repo.Name),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return "", c.mapError(err, "resolve repository")
	}

	c.repositoryID = string(query.Repository.ID)
	if c.repositoryID == "" {
		return "", fmt.Errorf("repository '%s' not found: %w", c.repo, modelerrors.ErrIssueTracker)
	}
	return c.repositoryID, nil
}

// mapError converts GraphQL client errors to user-friendly errors.
func (c *GraphQLClient) mapError(err error, op string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	switch {
	case c.inspector.IsRateLimitError(err):
		return fmt.Errorf("%s: GitHub API rate limit exceeded: %w: %v", op, modelerrors.ErrIssueTracker, err)
	case c.inspector.IsAuthError(err):
		return fmt.Errorf("%s: GitHub API authentication failed, check GITHUB_TOKEN permissions: %w: %v", op, modelerrors.ErrIssueTracker, err)
	case c.inspector.IsNotFoundError(err):
		return fmt.Errorf("%s: repository '%s' not found: %w: %v", op, c.repo, modelerrors.ErrIssueTracker, err)
	case c.inspector.IsNetworkError(err):
		return fmt.Errorf("%s: network error connecting to GitHub API: %w: %v", op, modelerrors.ErrIssueTracker, err)
	}

	return fmt.Errorf("%s: %w: %v", op, modelerrors.ErrIssueTracker, err)
}

// limitedReader wraps an io.ReadCloser to limit the number of bytes read.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication header and safety limits to HTTP requests
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("User-Agent", fmt.Sprintf("model-watch/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Issue payloads are small; 1MB is plenty
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      1 << 20,
		}
	}

	return resp, nil
}
