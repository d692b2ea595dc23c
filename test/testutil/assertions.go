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
	"strings"
	"testing"
)

// Annotations extracts the workflow commands of the given kind ("notice",
// "warning", "error") from stdout, returning their messages.
func Annotations(stdout, kind string) []string {
	var out []string
	for _, line := range strings.Split(stdout, "\n") {
		if !strings.HasPrefix(line, "::"+kind) {
			continue
		}
		// ::kind props::message or ::kind::message
		rest := strings.TrimPrefix(line, "::"+kind)
		if rest == "" || (rest[0] != ':' && rest[0] != ' ') {
			continue
		}
		if idx := strings.Index(rest, "::"); idx >= 0 {
			out = append(out, rest[idx+2:])
		}
	}
	return out
}

// AssertAnnotation checks that stdout carries a kind annotation whose
// message contains want
func AssertAnnotation(t *testing.T, stdout, kind, want string) {
	t.Helper()

	for _, msg := range Annotations(stdout, kind) {
		if strings.Contains(msg, want) {
			return
		}
	}
	t.Errorf("Expected ::%s:: annotation containing %q, got stdout:\n%s", kind, want, stdout)
}

// AssertNoAnnotation checks that stdout carries no kind annotation
func AssertNoAnnotation(t *testing.T, stdout, kind string) {
	t.Helper()

	if got := Annotations(stdout, kind); len(got) > 0 {
		t.Errorf("Expected no ::%s:: annotations, got %q", kind, got)
	}
}

// AssertOutputs checks that every wanted output has the wanted value
func AssertOutputs(t *testing.T, got, want map[string]string) {
	t.Helper()

	for name, value := range want {
		if got[name] != value {
			t.Errorf("Output %s = %q, want %q", name, got[name], value)
		}
	}
}
