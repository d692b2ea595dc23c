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

package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
	"github.com/sirseerhq/model-watch/internal/metadata"
	"github.com/sirseerhq/model-watch/test/testutil"
	"github.com/spf13/pflag"
)

// isolateEnv clears every variable model-watch reads and moves into a
// scratch directory so no .env or config file is picked up.
func isolateEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"OPENAI_API_KEY", "OPENROUTER_API_KEY",
		"GITHUB_WORKSPACE", "GITHUB_OUTPUT", "GITHUB_STEP_SUMMARY",
		"GITHUB_REPOSITORY", "GITHUB_TOKEN", "GITHUB_GRAPHQL_URL",
		"LLM_NOTIFY_MODE", "LLM_MANIFEST_PATH",
		"MODELWATCH_STATE_FILE", "MODELWATCH_FAMILY_PREFIX", "MODELWATCH_FILTER",
		"MODELWATCH_API_BASE", "MODELWATCH_ISSUE_KIND", "MODELWATCH_TIMEOUT",
		"MODELWATCH_LOG_LEVEL", "MODELWATCH_LOG_FORMAT", "MODELWATCH_LOG_FILE",
		"MODELWATCH_METRICS_FILE", "MODELWATCH_HISTORY_DIR",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

// setupRun points the environment at a workspace and a listing server.
func setupRun(t *testing.T, listing map[string]interface{}) (*testutil.Workspace, *testutil.ModelsServer) {
	t.Helper()
	isolateEnv(t)

	ws := testutil.CreateWorkspace(t)
	server := testutil.NewModelsServer(t, listing)
	for k, v := range ws.Env() {
		t.Setenv(k, v)
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MODELWATCH_API_BASE", server.BaseURL())
	return ws, server
}

func run(t *testing.T, opts checkOptions) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := runCheck(context.Background(), opts, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunCheckFirstDetection(t *testing.T) {
	ws, server := setupRun(t, testutil.DefaultListing())

	stdout, _, err := run(t, checkOptions{})
	if err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}

	testutil.AssertAnnotation(t, stdout, "notice", "New openai model detected: gpt-4-turbo")
	if !strings.Contains(stdout, "::notice title=LLM Update::") {
		t.Errorf("Expected LLM Update title, got:\n%s", stdout)
	}
	testutil.AssertFileContains(t, ws.StatePath(), "gpt-4-turbo")
	testutil.AssertOutputs(t, ws.Outputs(t), map[string]string{
		"model_detected":  "gpt-4-turbo",
		"version_changed": "true",
	})
	if summary := ws.Summary(t); !strings.Contains(summary, "gpt-4-turbo") {
		t.Errorf("Summary missing model, got:\n%s", summary)
	}
	if got := server.LastAuthorization(); got != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want Bearer sk-test", got)
	}
}

func TestRunCheckUnchanged(t *testing.T) {
	ws, _ := setupRun(t, testutil.DefaultListing())
	ws.WriteState(t, "gpt-4-turbo\n")

	stdout, _, err := run(t, checkOptions{})
	if err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}

	if !strings.Contains(stdout, "Already up to date: gpt-4-turbo") {
		t.Errorf("Expected up-to-date line, got:\n%s", stdout)
	}
	testutil.AssertNoAnnotation(t, stdout, "notice")
	testutil.AssertOutputs(t, ws.Outputs(t), map[string]string{
		"model_detected":  "gpt-4-turbo",
		"version_changed": "false",
	})
	if summary := ws.Summary(t); summary != "" {
		t.Errorf("Expected empty summary, got:\n%s", summary)
	}
}

func TestRunCheckNoMatchingModels(t *testing.T) {
	ws, _ := setupRun(t, testutil.DefaultListing())

	opts := checkOptions{}
	opts.overrides.FamilyPrefix = "claude"

	stdout, _, err := run(t, opts)
	if err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}

	testutil.AssertAnnotation(t, stdout, "warning", "No claude models found")
	testutil.AssertFileNotExists(t, ws.StatePath())
	if got := ws.Outputs(t); len(got) != 0 {
		t.Errorf("Expected no outputs, got %v", got)
	}
}

func TestRunCheckUnsupportedSource(t *testing.T) {
	setupRun(t, testutil.DefaultListing())

	opts := checkOptions{}
	opts.overrides.Source = "anthropic"

	stdout, _, err := run(t, opts)
	if !errors.Is(err, modelerrors.ErrUnsupportedSource) {
		t.Fatalf("runCheck() error = %v, want ErrUnsupportedSource", err)
	}
	if !strings.Contains(stdout, "::error::Unsupported source: anthropic") {
		t.Errorf("Expected unsupported source annotation, got:\n%s", stdout)
	}
	if exitCode(err) != 1 {
		t.Errorf("exitCode() = %d, want 1", exitCode(err))
	}
}

func TestRunCheckMissingCredential(t *testing.T) {
	ws, server := setupRun(t, testutil.DefaultListing())
	t.Setenv("OPENAI_API_KEY", "")

	stdout, _, err := run(t, checkOptions{})
	if !errors.Is(err, modelerrors.ErrMissingCredential) {
		t.Fatalf("runCheck() error = %v, want ErrMissingCredential", err)
	}
	if !strings.Contains(stdout, "::error::OPENAI_API_KEY not set") {
		t.Errorf("Expected missing key annotation, got:\n%s", stdout)
	}
	if server.RequestCount() != 0 {
		t.Errorf("Expected no listing request, got %d", server.RequestCount())
	}
	testutil.AssertFileNotExists(t, ws.StatePath())
}

func TestRunCheckFetchFailure(t *testing.T) {
	ws, _ := setupRun(t, testutil.DefaultListing())
	errServer := testutil.NewErrorServer(t, http.StatusUnauthorized, "Incorrect API key provided")
	t.Setenv("MODELWATCH_API_BASE", errServer.URL+"/v1")

	stdout, _, err := run(t, checkOptions{})
	if !errors.Is(err, modelerrors.ErrFetchFailed) {
		t.Fatalf("runCheck() error = %v, want ErrFetchFailed", err)
	}
	testutil.AssertAnnotation(t, stdout, "error", "Incorrect API key provided")
	testutil.AssertFileNotExists(t, ws.StatePath())
}

func TestRunCheckFailMode(t *testing.T) {
	ws, _ := setupRun(t, testutil.DefaultListing())
	t.Setenv("LLM_NOTIFY_MODE", "fail")

	stdout, stderr, err := run(t, checkOptions{})
	if !errors.Is(err, modelerrors.ErrChangeDetected) {
		t.Fatalf("runCheck() error = %v, want ErrChangeDetected", err)
	}
	if exitCode(err) != 1 {
		t.Errorf("exitCode() = %d, want 1", exitCode(err))
	}

	testutil.AssertAnnotation(t, stdout, "notice", "gpt-4-turbo")
	testutil.AssertFileContains(t, ws.StatePath(), "gpt-4-turbo")
	if !strings.Contains(stderr, "run failed") {
		t.Errorf("Expected error log line, got:\n%s", stderr)
	}
}

func TestRunCheckFailModeUnchanged(t *testing.T) {
	ws, _ := setupRun(t, testutil.DefaultListing())
	ws.WriteState(t, "gpt-4-turbo")

	opts := checkOptions{}
	opts.overrides.Mode = "fail"

	if _, _, err := run(t, opts); err != nil {
		t.Fatalf("runCheck() error = %v, want nil when unchanged", err)
	}
}

func TestRunCheckIssueMode(t *testing.T) {
	ws, _ := setupRun(t, testutil.DefaultListing())
	gh := testutil.NewGitHubLikeMockServer(t)
	t.Setenv("LLM_NOTIFY_MODE", "issue")
	t.Setenv("GITHUB_REPOSITORY", "octo/models")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_GRAPHQL_URL", gh.Endpoint())

	if _, _, err := run(t, checkOptions{}); err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}

	issues := gh.Issues()
	if len(issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(issues))
	}
	if issues[0].Title != "LLM Update: openai -> gpt-4-turbo" {
		t.Errorf("Issue title = %q", issues[0].Title)
	}
	if !strings.Contains(issues[0].Body, "gpt-4-turbo") {
		t.Errorf("Issue body missing model: %q", issues[0].Body)
	}

	// A second detection of the same model updates the existing issue
	if err := os.Remove(ws.StatePath()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, checkOptions{}); err != nil {
		t.Fatalf("second runCheck() error = %v", err)
	}
	if got := len(gh.Issues()); got != 1 {
		t.Errorf("Expected issue to be reused, got %d issues", got)
	}
}

func TestRunCheckIssueModeTrackerFailure(t *testing.T) {
	ws, _ := setupRun(t, testutil.DefaultListing())
	gh := testutil.NewGitHubLikeMockServer(t)
	gh.FailWith(http.StatusInternalServerError)
	t.Setenv("GITHUB_REPOSITORY", "octo/models")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_GRAPHQL_URL", gh.Endpoint())

	opts := checkOptions{}
	opts.overrides.Mode = "issue"

	stdout, _, err := run(t, opts)
	if err != nil {
		t.Fatalf("runCheck() error = %v, tracker failures must not be fatal", err)
	}
	if len(testutil.Annotations(stdout, "warning")) == 0 {
		t.Errorf("Expected a warning annotation, got:\n%s", stdout)
	}
	testutil.AssertFileContains(t, ws.StatePath(), "gpt-4-turbo")
}

func TestRunCheckMalformedRepository(t *testing.T) {
	tests := []struct {
		name        string
		mode        string
		wantWarning bool
	}{
		{name: "none mode ignores tracker settings", mode: "none"},
		{name: "issue mode skips the issue", mode: "issue", wantWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, _ := setupRun(t, testutil.DefaultListing())
			gh := testutil.NewGitHubLikeMockServer(t)
			t.Setenv("LLM_NOTIFY_MODE", tt.mode)
			t.Setenv("GITHUB_REPOSITORY", "justaname")
			t.Setenv("GITHUB_TOKEN", "ghp_test")
			t.Setenv("GITHUB_GRAPHQL_URL", gh.Endpoint())

			stdout, stderr, err := run(t, checkOptions{})
			if err != nil {
				t.Fatalf("runCheck() error = %v\nstderr: %s", err, stderr)
			}
			if exitCode(err) != 0 {
				t.Errorf("exitCode() = %d, want 0", exitCode(err))
			}

			testutil.AssertAnnotation(t, stdout, "notice", "gpt-4-turbo")
			testutil.AssertFileContains(t, ws.StatePath(), "gpt-4-turbo")
			if tt.wantWarning {
				testutil.AssertAnnotation(t, stdout, "warning", "Issue mode requires a valid GITHUB_REPOSITORY")
			} else {
				testutil.AssertNoAnnotation(t, stdout, "warning")
			}
			if got := len(gh.GetRequestHistory()); got != 0 {
				t.Errorf("GraphQL requests = %d, want 0", got)
			}
		})
	}
}

func TestRunCheckModeIsCaseInsensitive(t *testing.T) {
	setupRun(t, testutil.DefaultListing())
	t.Setenv("LLM_NOTIFY_MODE", "FAIL")

	opts := checkOptions{}
	opts.overrides.Source = "OpenAI"

	_, stderr, err := run(t, opts)
	if !errors.Is(err, modelerrors.ErrChangeDetected) {
		t.Fatalf("runCheck() error = %v, want ErrChangeDetected\nstderr: %s", err, stderr)
	}
}

func TestRunCheckManifestAndMetrics(t *testing.T) {
	ws, _ := setupRun(t, testutil.DefaultListing())
	metricsFile := filepath.Join(ws.Dir, "metrics", "modelwatch.prom")
	t.Setenv("MODELWATCH_METRICS_FILE", metricsFile)

	opts := checkOptions{}
	opts.overrides.ManifestPath = filepath.Join(ws.Dir, "out", "manifest.txt")

	if _, _, err := run(t, opts); err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}

	testutil.AssertFileContains(t, opts.overrides.ManifestPath, "gpt-4-turbo")
	testutil.AssertFileContains(t, metricsFile, "modelwatch_model_changed 1")
}

func TestRunCheckHistory(t *testing.T) {
	ws, _ := setupRun(t, testutil.DefaultListing())
	historyDir := filepath.Join(ws.Dir, "history")
	t.Setenv("MODELWATCH_HISTORY_DIR", historyDir)

	if _, _, err := run(t, checkOptions{}); err != nil {
		t.Fatalf("first runCheck() error = %v", err)
	}
	first, err := metadata.LoadLatest(historyDir, "openai")
	if err != nil || first == nil {
		t.Fatalf("LoadLatest() = %v, %v", first, err)
	}
	if first.Results.Outcome != metadata.OutcomeChanged || first.PreviousRun != nil {
		t.Errorf("first record = %+v", first.Results)
	}

	if _, _, err := run(t, checkOptions{}); err != nil {
		t.Fatalf("second runCheck() error = %v", err)
	}
	second, err := metadata.LoadLatest(historyDir, "openai")
	if err != nil || second == nil {
		t.Fatalf("LoadLatest() = %v, %v", second, err)
	}
	if second.Results.Outcome != metadata.OutcomeUnchanged {
		t.Errorf("Outcome = %q, want unchanged", second.Results.Outcome)
	}
	if second.PreviousRun == nil || second.PreviousRun.RunID != first.RunID {
		t.Errorf("PreviousRun = %+v, want link to %s", second.PreviousRun, first.RunID)
	}
}

func TestRunCheckConfigFile(t *testing.T) {
	ws, _ := setupRun(t, testutil.DefaultListing())

	configPath := filepath.Join(ws.Dir, "modelwatch.toml")
	content := `
[selector]
filter = 'created < 250'

[state]
file = "latest.txt"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := run(t, checkOptions{configPath: configPath})
	if err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}

	testutil.AssertAnnotation(t, stdout, "notice", "gpt-4o")
	testutil.AssertFileContains(t, filepath.Join(ws.Dir, "latest.txt"), "gpt-4o")
}

func TestRunCheckInvalidConfig(t *testing.T) {
	setupRun(t, testutil.DefaultListing())

	opts := checkOptions{}
	opts.overrides.Mode = "loud"

	stdout, _, err := run(t, opts)
	if !errors.Is(err, modelerrors.ErrInvalidConfig) {
		t.Fatalf("runCheck() error = %v, want ErrInvalidConfig", err)
	}
	if len(testutil.Annotations(stdout, "error")) != 1 {
		t.Errorf("Expected one error annotation, got:\n%s", stdout)
	}
}

func TestRootCommandArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"openai", "extra"})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for two positional arguments")
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand(&bytes.Buffer{}, &bytes.Buffer{})

	for _, name := range []string{"config", "mode", "workspace", "manifest", "prefix", "filter", "log-level", "log-format"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Flag --%s not defined", name)
		}
	}
}

func TestBindFlags(t *testing.T) {
	var opts checkOptions
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(flags, &opts)

	err := flags.Parse([]string{"--mode", "issue", "--prefix", "o3", "--filter", "created > 0", "--config", "mw.toml"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if opts.overrides.Mode != "issue" || opts.overrides.FamilyPrefix != "o3" || opts.overrides.Filter != "created > 0" {
		t.Errorf("overrides = %+v", opts.overrides)
	}
	if opts.configPath != "mw.toml" {
		t.Errorf("configPath = %q, want mw.toml", opts.configPath)
	}
	if opts.overrides.Workspace != "" {
		t.Errorf("unset flag changed Workspace to %q", opts.overrides.Workspace)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"change detected", modelerrors.ErrChangeDetected, 1},
		{"reported", &reportedError{err: modelerrors.ErrFetchFailed}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
