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
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Workflow implements Reporter with GitHub Actions workflow commands.
type Workflow struct {
	out         io.Writer
	outputPath  string
	summaryPath string
}

// NewWorkflow creates a Workflow writing commands to out. outputPath and
// summaryPath are the GITHUB_OUTPUT and GITHUB_STEP_SUMMARY files; either
// may be empty.
func NewWorkflow(out io.Writer, outputPath, summaryPath string) *Workflow {
	return &Workflow{
		out:         out,
		outputPath:  outputPath,
		summaryPath: summaryPath,
	}
}

// Notice implements Reporter.
func (w *Workflow) Notice(title, message string) {
	if title == "" {
		w.command("notice", "", message)
		return
	}
	w.command("notice", "title="+escapeProperty(title), message)
}

// Warning implements Reporter.
func (w *Workflow) Warning(message string) {
	w.command("warning", "", message)
}

// Error implements Reporter.
func (w *Workflow) Error(message string) {
	w.command("error", "", message)
}

// Info implements Reporter.
func (w *Workflow) Info(message string) {
	fmt.Fprintln(w.out, message)
}

// SetOutput implements Reporter. Values containing newlines use the
// heredoc form with a random delimiter.
func (w *Workflow) SetOutput(name, value string) error {
	if w.outputPath == "" {
		w.command("set-output", "name="+escapeProperty(name), value)
		return nil
	}

	var entry string
	if strings.ContainsAny(value, "\r\n") {
		delimiter := "ghadelimiter_" + uuid.NewString()
		entry = fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	} else {
		entry = fmt.Sprintf("%s=%s\n", name, value)
	}

	if err := appendFile(w.outputPath, entry); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

// SummaryEnabled implements Reporter.
func (w *Workflow) SummaryEnabled() bool {
	return w.summaryPath != ""
}

// AppendSummary implements Reporter.
func (w *Workflow) AppendSummary(markdown string) error {
	if w.summaryPath == "" {
		return nil
	}
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	if err := appendFile(w.summaryPath, markdown); err != nil {
		return fmt.Errorf("failed to append job summary: %w", err)
	}
	return nil
}

func (w *Workflow) command(name, properties, message string) {
	if properties != "" {
		fmt.Fprintf(w.out, "::%s %s::%s\n", name, properties, escapeData(message))
		return
	}
	fmt.Fprintf(w.out, "::%s::%s\n", name, escapeData(message))
}

func appendFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// escapeData escapes a workflow command message.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeProperty escapes a workflow command property value.
func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
