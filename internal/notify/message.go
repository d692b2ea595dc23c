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
	"time"
)

// DefaultKind is the label used in annotation and issue titles.
const DefaultKind = "LLM"

// Event is the notification record constructed once per run.
type Event struct {
	Source   string
	Latest   string
	Previous *string
	Changed  bool
}

// PreviousOr returns the previous identifier or fallback when absent.
func (e Event) PreviousOr(fallback string) string {
	if e.Previous == nil {
		return fallback
	}
	return *e.Previous
}

// IssueTitle returns the title a tracking issue for latest carries.
func IssueTitle(kind, source, latest string) string {
	if kind == "" {
		kind = DefaultKind
	}
	return fmt.Sprintf("%s Update: %s -> %s", kind, source, latest)
}

// AnnotationTitle returns the title of the change notice.
func AnnotationTitle(kind string) string {
	if kind == "" {
		kind = DefaultKind
	}
	return kind + " Update"
}

// ChangeMessage is the text of the change notice.
func ChangeMessage(ev Event) string {
	return fmt.Sprintf("New %s model detected: %s", ev.Source, ev.Latest)
}

// UnchangedMessage is the line printed when nothing changed.
func UnchangedMessage(ev Event) string {
	return fmt.Sprintf("Already up to date: %s", ev.Latest)
}

// SummaryMarkdown renders the job summary block for a change.
func SummaryMarkdown(kind string, ev Event) string {
	if kind == "" {
		kind = DefaultKind
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### New %s model detected\n\n", kind)
	b.WriteString("| Field | Value |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Provider | %s |\n", ev.Source)
	fmt.Fprintf(&b, "| New model | `%s` |\n", ev.Latest)
	fmt.Fprintf(&b, "| Previous model | %s |\n", quotedOrNone(ev.Previous))
	b.WriteString("\n")
	return b.String()
}

// IssueBody renders the tracking issue body.
func IssueBody(ev Event, detectedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new **%s** model was detected: `%s`\n\n", ev.Source, ev.Latest)
	fmt.Fprintf(&b, "- Previous model: %s\n", quotedOrNone(ev.Previous))
	fmt.Fprintf(&b, "- Detected at: %s\n", detectedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n_Reported by model-watch._\n")
	return b.String()
}

func quotedOrNone(v *string) string {
	if v == nil {
		return "_none_"
	}
	return "`" + *v + "`"
}
