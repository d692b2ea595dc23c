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

package notify

import (
	"fmt"
	"strings"

	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
)

// Mode selects what happens beyond annotations when a change is detected.
type Mode string

const (
	// ModeNone only annotates, sets outputs and writes the summary/manifest.
	ModeNone Mode = "none"
	// ModeIssue additionally creates or updates a tracking issue.
	ModeIssue Mode = "issue"
	// ModeFail additionally fails the run with ErrChangeDetected.
	ModeFail Mode = "fail"
)

// Modes returns every supported mode.
func Modes() []Mode {
	return []Mode{ModeNone, ModeIssue, ModeFail}
}

// ParseMode parses a mode name. The empty string selects ModeNone.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeNone, nil
	case ModeNone, ModeIssue, ModeFail:
		return m, nil
	default:
		return "", fmt.Errorf("unknown notify mode %q (expected none, issue or fail): %w", s, modelerrors.ErrInvalidConfig)
	}
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	return string(m)
}
