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

package output

import (
	"fmt"
	"strings"
)

// Recorder is an in-memory Reporter for tests.
type Recorder struct {
	Notices  []string
	Warnings []string
	Errors   []string
	Lines    []string
	Outputs  map[string]string
	Summary  strings.Builder

	// EnableSummary controls SummaryEnabled.
	EnableSummary bool
	// FailOutputs makes SetOutput return an error.
	FailOutputs bool
}

// NewRecorder creates an empty Recorder with the summary enabled.
func NewRecorder() *Recorder {
	return &Recorder{
		Outputs:       make(map[string]string),
		EnableSummary: true,
	}
}

// Notice implements Reporter. Entries are recorded as "title: message".
func (r *Recorder) Notice(title, message string) {
	r.Notices = append(r.Notices, fmt.Sprintf("%s: %s", title, message))
}

// Warning implements Reporter.
func (r *Recorder) Warning(message string) {
	r.Warnings = append(r.Warnings, message)
}

// Error implements Reporter.
func (r *Recorder) Error(message string) {
	r.Errors = append(r.Errors, message)
}

// Info implements Reporter.
func (r *Recorder) Info(message string) {
	r.Lines = append(r.Lines, message)
}

// SetOutput implements Reporter.
func (r *Recorder) SetOutput(name, value string) error {
	if r.FailOutputs {
		return fmt.Errorf("failed to write output %s: recorder configured to fail", name)
	}
	r.Outputs[name] = value
	return nil
}

// SummaryEnabled implements Reporter.
func (r *Recorder) SummaryEnabled() bool {
	return r.EnableSummary
}

// AppendSummary implements Reporter.
func (r *Recorder) AppendSummary(markdown string) error {
	r.Summary.WriteString(markdown)
	return nil
}
