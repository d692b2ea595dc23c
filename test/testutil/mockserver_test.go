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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirseerhq/model-watch/internal/github"
	"github.com/sirseerhq/model-watch/internal/provider"
)

func TestListingBuilder(t *testing.T) {
	tests := []struct {
		name      string
		listing   map[string]interface{}
		wantCount int
	}{
		{
			name:      "default listing",
			listing:   DefaultListing(),
			wantCount: 3,
		},
		{
			name:      "generated models",
			listing:   NewListingBuilder().WithGenerated("gpt-4", 5, 100).Build(),
			wantCount: 5,
		},
		{
			name:      "empty listing",
			listing:   NewListingBuilder().Build(),
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.listing["object"] != "list" {
				t.Errorf("object = %v, want list", tt.listing["object"])
			}
			data, ok := tt.listing["data"].([]map[string]interface{})
			if !ok {
				t.Fatal("Invalid data type")
			}
			if len(data) != tt.wantCount {
				t.Errorf("Expected %d models, got %d", tt.wantCount, len(data))
			}
		})
	}
}

func TestModelBuilder(t *testing.T) {
	entry := NewModelBuilder("gpt-4o").WithCreated(1715367049).WithOwner("openai-internal").Build()

	if entry["id"] != "gpt-4o" || entry["object"] != "model" {
		t.Errorf("entry = %v", entry)
	}
	if entry["created"] != int64(1715367049) {
		t.Errorf("created = %v (%T)", entry["created"], entry["created"])
	}
	if entry["owned_by"] != "openai-internal" {
		t.Errorf("owned_by = %v", entry["owned_by"])
	}
}

func TestModelBuilderWithoutCreated(t *testing.T) {
	entry := NewModelBuilder("gpt-4-mystery").WithoutCreated().Build()
	if _, ok := entry["created"]; ok {
		t.Error("Expected created to be omitted")
	}
}

func TestModelsServerWithFetcher(t *testing.T) {
	server := NewModelsServer(t, DefaultListing())

	fetcher, err := provider.New(provider.SourceOpenAI, provider.Options{
		APIKey:  "sk-test",
		BaseURL: server.BaseURL(),
	})
	if err != nil {
		t.Fatalf("provider.New() error = %v", err)
	}

	candidates, err := fetcher.FetchModels(context.Background())
	if err != nil {
		t.Fatalf("FetchModels() error = %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("Expected 3 candidates, got %d", len(candidates))
	}
	if candidates[1].ID != "gpt-4-turbo" || candidates[1].Created != 300 {
		t.Errorf("candidates[1] = %+v", candidates[1])
	}
	if got := server.LastAuthorization(); got != "Bearer sk-test" {
		t.Errorf("Authorization = %q", got)
	}
	if server.RequestCount() != 1 {
		t.Errorf("RequestCount() = %d, want 1", server.RequestCount())
	}
}

func TestModelsServerUnknownRoute(t *testing.T) {
	server := NewModelsServer(t, DefaultListing())

	resp, err := http.Get(server.URL + "/v2/models")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestNewErrorServer(t *testing.T) {
	server := NewErrorServer(t, http.StatusUnauthorized, "Incorrect API key provided")

	resp, err := http.Get(server.URL + "/v1/models")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}

	var body map[string]map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if body["error"]["message"] != "Incorrect API key provided" {
		t.Errorf("message = %q", body["error"]["message"])
	}
}

func TestGitHubLikeMockServerWithClient(t *testing.T) {
	server := NewGitHubLikeMockServer(t)
	ctx := context.Background()

	client, err := github.NewGraphQLClient("test-token", server.Endpoint(), "octo/models")
	if err != nil {
		t.Fatalf("NewGraphQLClient() error = %v", err)
	}

	title := "LLM Update: openai -> gpt-4o"

	found, err := client.FindOpenIssue(ctx, title)
	if err != nil || found != nil {
		t.Fatalf("FindOpenIssue() = %v, %v; want nil, nil", found, err)
	}

	created, err := client.CreateIssue(ctx, title, "first body")
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}

	found, err = client.FindOpenIssue(ctx, title)
	if err != nil || found == nil || found.Number != created.Number {
		t.Fatalf("FindOpenIssue() = %v, %v; want #%d", found, err, created.Number)
	}

	if err := client.UpdateIssueBody(ctx, found, "second body"); err != nil {
		t.Fatalf("UpdateIssueBody() error = %v", err)
	}

	issues := server.Issues()
	if len(issues) != 1 || issues[0].Body != "second body" {
		t.Errorf("Issues() = %+v", issues)
	}
	// search, repository, create, search, update
	if got := len(server.GetRequestHistory()); got != 5 {
		t.Errorf("Expected 5 requests, got %d", got)
	}
}

func TestGitHubLikeMockServerFailures(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		server := NewGitHubLikeMockServer(t)
		resp, err := http.Post(server.Endpoint(), "application/json", bytes.NewBufferString(`{"query":"{}"}`))
		if err != nil {
			t.Fatalf("POST error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("forced failure", func(t *testing.T) {
		server := NewGitHubLikeMockServer(t)
		server.FailWith(http.StatusBadGateway)

		client, _ := github.NewGraphQLClient("test-token", server.Endpoint(), "octo/models")
		if _, err := client.FindOpenIssue(context.Background(), "x"); err == nil {
			t.Error("Expected error from failing server")
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		server := NewGitHubLikeMockServer(t)
		server.SetRateLimit(0)

		client, _ := github.NewGraphQLClient("test-token", server.Endpoint(), "octo/models")
		_, err := client.FindOpenIssue(context.Background(), "x")
		if err == nil {
			t.Fatal("Expected rate limit error")
		}
	})
}

func TestReadOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	content := "model_detected=gpt-4o\nversion_changed=true\nnotes<<ghadelimiter_1\nline one\nline two\nghadelimiter_1\nversion_changed=false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got := ReadOutputFile(t, path)
	AssertOutputs(t, got, map[string]string{
		"model_detected":  "gpt-4o",
		"version_changed": "false",
		"notes":           "line one\nline two",
	})
}

func TestAnnotations(t *testing.T) {
	stdout := "::notice title=LLM Update::New openai model detected: gpt-4o\n" +
		"Already up to date: gpt-4o\n" +
		"::warning::No gpt-4 models found\n" +
		"::error::OPENAI_API_KEY not set\n"

	AssertAnnotation(t, stdout, "notice", "New openai model detected: gpt-4o")
	AssertAnnotation(t, stdout, "warning", "No gpt-4 models found")
	AssertAnnotation(t, stdout, "error", "OPENAI_API_KEY not set")

	if got := Annotations("plain line\n", "notice"); len(got) != 0 {
		t.Errorf("Annotations() = %q, want none", got)
	}
}
