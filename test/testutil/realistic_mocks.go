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

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// GitHubLikeMockServer is a GraphQL mock answering the issue queries and
// mutations model-watch sends, with GitHub's auth and rate-limit behavior.
type GitHubLikeMockServer struct {
	*httptest.Server

	mu                 sync.RWMutex
	rateLimitRemaining int32
	rateLimitReset     int64
	failStatus         int
	nextNumber         int
	issues             []MockIssue
	requestHistory     []GraphQLRequest
}

// MockIssue is an issue held by GitHubLikeMockServer.
type MockIssue struct {
	ID     string
	Number int
	Title  string
	Body   string
	Open   bool
}

// GraphQLRequest represents a parsed GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
	Timestamp time.Time
}

// NewGitHubLikeMockServer creates a realistic GitHub GraphQL mock serving
// POST /graphql. The server is closed when the test ends.
func NewGitHubLikeMockServer(t *testing.T) *GitHubLikeMockServer {
	t.Helper()

	mock := &GitHubLikeMockServer{
		rateLimitRemaining: 5000,
		rateLimitReset:     time.Now().Add(time.Hour).Unix(),
		nextNumber:         1,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"message":           "Bad credentials",
				"documentation_url": "https://docs.github.com/en/rest",
			})
			return
		}

		var req GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"message": "Problems parsing JSON",
			})
			return
		}
		req.Timestamp = time.Now()

		mock.mu.Lock()
		mock.requestHistory = append(mock.requestHistory, req)
		failStatus := mock.failStatus
		mock.mu.Unlock()

		if failStatus != 0 {
			w.WriteHeader(failStatus)
			_, _ = w.Write([]byte(http.StatusText(failStatus)))
			return
		}

		remaining := atomic.AddInt32(&mock.rateLimitRemaining, -1)
		if remaining < 0 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(mock.rateLimitReset, 10))
			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"message":           "API rate limit exceeded",
				"documentation_url": "https://docs.github.com/en/rest/rate-limit",
			})
			return
		}

		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(remaining)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(mock.rateLimitReset, 10))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mock.generateResponse(req))
	}))

	mock.Server = server
	t.Cleanup(server.Close)
	return mock
}

// Endpoint returns the GraphQL endpoint URL.
func (m *GitHubLikeMockServer) Endpoint() string {
	return m.URL + "/graphql"
}

// generateResponse dispatches on the operation named in the query
func (m *GitHubLikeMockServer) generateResponse(req GraphQLRequest) map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case strings.Contains(req.Query, "createIssue("):
		input, _ := req.Variables["input"].(map[string]interface{})
		title, _ := input["title"].(string)
		body, _ := input["body"].(string)

		issue := MockIssue{
			ID:     fmt.Sprintf("I_kwDO%d", m.nextNumber),
			Number: m.nextNumber,
			Title:  title,
			Body:   body,
			Open:   true,
		}
		m.nextNumber++
		m.issues = append(m.issues, issue)

		return map[string]interface{}{
			"data": map[string]interface{}{
				"createIssue": map[string]interface{}{
					"issue": issueNode(issue),
				},
			},
		}

	case strings.Contains(req.Query, "updateIssue("):
		input, _ := req.Variables["input"].(map[string]interface{})
		id, _ := input["id"].(string)
		body, _ := input["body"].(string)

		for i := range m.issues {
			if m.issues[i].ID == id {
				m.issues[i].Body = body
				return map[string]interface{}{
					"data": map[string]interface{}{
						"updateIssue": map[string]interface{}{
							"issue": issueNode(m.issues[i]),
						},
					},
				}
			}
		}
		return graphQLError(fmt.Sprintf("Could not resolve to a node with the global id of '%s'", id))

	case strings.Contains(req.Query, "search("):
		query, _ := req.Variables["query"].(string)
		nodes := make([]interface{}, 0)
		for _, issue := range m.issues {
			// Approximate GitHub's fuzzy in:title match with a substring test
			if issue.Open && strings.Contains(query, issue.Title) {
				nodes = append(nodes, issueNode(issue))
			}
		}
		return map[string]interface{}{
			"data": map[string]interface{}{
				"search": map[string]interface{}{
					"nodes": nodes,
				},
			},
		}

	case strings.Contains(req.Query, "repository("):
		return map[string]interface{}{
			"data": map[string]interface{}{
				"repository": map[string]interface{}{
					"id": "R_kgDOmodels",
				},
			},
		}
	}

	return graphQLError("unsupported operation")
}

func issueNode(issue MockIssue) map[string]interface{} {
	return map[string]interface{}{
		"id":     issue.ID,
		"number": issue.Number,
		"title":  issue.Title,
		"url":    fmt.Sprintf("https://github.com/octo/models/issues/%d", issue.Number),
	}
}

func graphQLError(message string) map[string]interface{} {
	return map[string]interface{}{
		"errors": []map[string]interface{}{
			{"message": message},
		},
	}
}

// AddIssue seeds an open issue and returns its number.
func (m *GitHubLikeMockServer) AddIssue(title, body string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	issue := MockIssue{
		ID:     fmt.Sprintf("I_kwDO%d", m.nextNumber),
		Number: m.nextNumber,
		Title:  title,
		Body:   body,
		Open:   true,
	}
	m.nextNumber++
	m.issues = append(m.issues, issue)
	return issue.Number
}

// Issues returns a copy of every issue.
func (m *GitHubLikeMockServer) Issues() []MockIssue {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]MockIssue, len(m.issues))
	copy(out, m.issues)
	return out
}

// FailWith makes every subsequent request fail with status. Zero restores
// normal behavior.
func (m *GitHubLikeMockServer) FailWith(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStatus = status
}

// GetRequestHistory returns the history of GraphQL requests
func (m *GitHubLikeMockServer) GetRequestHistory() []GraphQLRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]GraphQLRequest, len(m.requestHistory))
	copy(history, m.requestHistory)
	return history
}

// SetRateLimit sets a specific rate limit
func (m *GitHubLikeMockServer) SetRateLimit(remaining int32) {
	atomic.StoreInt32(&m.rateLimitRemaining, remaining)
}
