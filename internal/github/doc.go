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

// Package github provides a client for the GitHub issue tracker built on
// the GraphQL API. model-watch uses it to keep one tracking issue per
// detected model: issues are addressed by their exact title, searched among
// the open issues of a repository, and created or updated in place.
//
// The package includes:
//   - An IssueTracker interface for finding, creating and updating issues
//   - A GraphQL implementation using the shurcooL/graphql library
//   - Mock tracker for testing
//
// Basic usage:
//
//	tracker, err := github.NewGraphQLClient("your-github-token", "https://api.github.com/graphql", "octo/models")
//	if err != nil {
//	    // Invalid repository
//	}
//	issue, err := tracker.FindOpenIssue(ctx, "LLM Update: openai -> gpt-4o")
//	if err != nil {
//	    // Handle error
//	}
//	if issue == nil {
//	    issue, err = tracker.CreateIssue(ctx, "LLM Update: openai -> gpt-4o", body)
//	}
package github
