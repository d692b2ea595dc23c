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
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateTempFile creates a temporary file with the given content
func CreateTempFile(t *testing.T, dir, pattern, content string) string {
	t.Helper()

	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if _, err := file.WriteString(content); err != nil {
		file.Close()
		t.Fatalf("Failed to write to temp file: %v", err)
	}

	if err := file.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	t.Cleanup(func() {
		os.Remove(file.Name())
	})

	return file.Name()
}

// Workspace is a scratch GITHUB_WORKSPACE with the runner's output files.
type Workspace struct {
	Dir         string
	OutputFile  string
	SummaryFile string
}

// CreateWorkspace creates a workspace directory and empty output and
// summary files, as a GitHub Actions runner provides them.
func CreateWorkspace(t *testing.T) *Workspace {
	t.Helper()

	dir := t.TempDir()
	ws := &Workspace{
		Dir:         dir,
		OutputFile:  filepath.Join(dir, "_runner", "output"),
		SummaryFile: filepath.Join(dir, "_runner", "summary.md"),
	}

	if err := os.MkdirAll(filepath.Dir(ws.OutputFile), 0o755); err != nil {
		t.Fatalf("Failed to create runner dir: %v", err)
	}
	for _, f := range []string{ws.OutputFile, ws.SummaryFile} {
		if err := os.WriteFile(f, nil, 0o644); err != nil {
			t.Fatalf("Failed to create %s: %v", f, err)
		}
	}

	return ws
}

// StatePath returns the default state file path in the workspace.
func (w *Workspace) StatePath() string {
	return filepath.Join(w.Dir, ".llm_latest")
}

// WriteState seeds the state file.
func (w *Workspace) WriteState(t *testing.T, value string) {
	t.Helper()
	if err := os.WriteFile(w.StatePath(), []byte(value), 0o644); err != nil {
		t.Fatalf("Failed to write state: %v", err)
	}
}

// Env returns the runner variables pointing at the workspace.
func (w *Workspace) Env() map[string]string {
	return map[string]string{
		"GITHUB_WORKSPACE":    w.Dir,
		"GITHUB_OUTPUT":       w.OutputFile,
		"GITHUB_STEP_SUMMARY": w.SummaryFile,
	}
}

// Outputs parses the output file.
func (w *Workspace) Outputs(t *testing.T) map[string]string {
	t.Helper()
	return ReadOutputFile(t, w.OutputFile)
}

// Summary returns the summary file content.
func (w *Workspace) Summary(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(w.SummaryFile)
	if err != nil {
		t.Fatalf("Failed to read summary: %v", err)
	}
	return string(data)
}

// ReadOutputFile parses a GITHUB_OUTPUT file: name=value lines and
// name<<DELIMITER heredoc blocks. Later entries win.
func ReadOutputFile(t *testing.T, path string) map[string]string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	defer file.Close()

	outputs := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if name, delim, ok := strings.Cut(line, "<<"); ok && !strings.Contains(name, "=") {
			var value []string
			for scanner.Scan() && scanner.Text() != delim {
				value = append(value, scanner.Text())
			}
			outputs[name] = strings.Join(value, "\n")
			continue
		}

		name, value, ok := strings.Cut(line, "=")
		if !ok {
			t.Fatalf("Malformed output line: %q", line)
		}
		outputs[name] = value
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading output file: %v", err)
	}
	return outputs
}

// AssertFileExists checks that a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks that a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks that a file holds exactly the expected content
func AssertFileContains(t *testing.T, path, expected string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	if string(content) != expected {
		t.Errorf("File content mismatch\nGot:\n%s\nWant:\n%s", content, expected)
	}
}
