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

// Package metadata keeps an audit trail of detection runs. Each run can be
// saved as a JSON file in a history directory, linked to the previous run
// of the same source, so external tools can see when a model first
// appeared and how often the check failed.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirseerhq/model-watch/internal/watch"
)

// Run outcomes.
const (
	OutcomeChanged   = "changed"
	OutcomeUnchanged = "unchanged"
	OutcomeNoMatch   = "no_match"
	OutcomeError     = "error"
)

const filePattern = "run-*.json"

// Tracker times a run and turns its result into a RunRecord.
type Tracker struct {
	runID     string
	startTime time.Time
	now       func() time.Time
}

// New starts tracking the run identified by runID.
func New(runID string) *Tracker {
	return newWithClock(runID, time.Now)
}

func newWithClock(runID string, now func() time.Time) *Tracker {
	return &Tracker{
		runID:     runID,
		startTime: now(),
		now:       now,
	}
}

// Generate builds the record for a finished run. res may be nil when the
// run failed before fetching.
func (t *Tracker) Generate(toolVersion string, params RunParams, res *watch.Result, runErr error, previous *RunRef) *RunRecord {
	completedAt := t.now()

	results := RunResults{
		Duration:    completedAt.Sub(t.startTime).String(),
		StartedAt:   t.startTime,
		CompletedAt: completedAt,
	}
	if res != nil {
		results.Candidates = res.Candidates
		results.Selected = res.Selected
		results.Latest = res.Latest
		results.Previous = res.Previous
		results.Changed = res.Changed
	}
	results.Outcome = outcome(res, runErr)
	if runErr != nil {
		results.Error = runErr.Error()
	}

	return &RunRecord{
		ToolVersion: toolVersion,
		RunID:       t.runID,
		Parameters:  params,
		Results:     results,
		PreviousRun: previous,
	}
}

// outcome classifies a run. A detected change wins over the error fail
// mode returns for it.
func outcome(res *watch.Result, runErr error) string {
	switch {
	case res != nil && res.Changed:
		return OutcomeChanged
	case runErr != nil:
		return OutcomeError
	case res != nil && !res.Selected:
		return OutcomeNoMatch
	default:
		return OutcomeUnchanged
	}
}

// Ref returns the reference later runs use to link to r.
func (r *RunRecord) Ref() *RunRef {
	return &RunRef{
		RunID:       r.RunID,
		Latest:      r.Results.Latest,
		CompletedAt: r.Results.CompletedAt,
	}
}

// SaveRecord persists record as run-{started unix nanos}.json in dir. The
// file is written to a temporary name and renamed into place.
func SaveRecord(record *RunRecord, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	filename := fmt.Sprintf("run-%d.json", record.Results.StartedAt.UnixNano())
	path := filepath.Join(dir, filename)

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create run record: %w", err)
	}

	if err := WriteRecord(record, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write run record: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close run record: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}

	return nil
}

// LoadLatest returns the most recently completed record for source in dir,
// or nil when there is none. Unreadable files are skipped.
func LoadLatest(dir, source string) (*RunRecord, error) {
	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}

	var latest *RunRecord
	for _, path := range files {
		record, err := readRecord(path)
		if err != nil {
			continue
		}
		if record.Parameters.Source != source {
			continue
		}
		if latest == nil || record.Results.CompletedAt.After(latest.Results.CompletedAt) {
			latest = record
		}
	}

	return latest, nil
}

func readRecord(path string) (*RunRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var record RunRecord
	if err := json.NewDecoder(file).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to parse run record %s: %w", path, err)
	}
	if record.RunID == "" {
		return nil, errors.New("run record without run_id")
	}
	return &record, nil
}

// WriteRecord serializes record as indented JSON to w.
func WriteRecord(record *RunRecord, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(record)
}
