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

// Reporter defines the interface for reporting results to the orchestrating
// caller. This abstraction allows a different CI platform, or an in-memory
// recorder in tests, to be used without changing the pipeline.
type Reporter interface {
	// Notice emits an informational annotation with a title.
	Notice(title, message string)

	// Warning emits a warning annotation.
	Warning(message string)

	// Error emits an error annotation.
	Error(message string)

	// Info writes a plain log line.
	Info(message string)

	// SetOutput publishes a named value consumable by later steps.
	SetOutput(name, value string) error

	// SummaryEnabled reports whether AppendSummary has somewhere to write.
	SummaryEnabled() bool

	// AppendSummary appends markdown to the job summary.
	AppendSummary(markdown string) error
}
