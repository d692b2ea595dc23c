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

// Package metadata types define the run history records written after each
// detection run.
package metadata

import (
	"time"
)

// RunRecord is the audit record of one detection run: what was asked for,
// what the listing returned and how the run ended.
type RunRecord struct {
	ToolVersion string     `json:"tool_version"`
	RunID       string     `json:"run_id"`
	Parameters  RunParams  `json:"parameters"`
	Results     RunResults `json:"results"`
	PreviousRun *RunRef    `json:"previous_run,omitempty"`
}

// RunParams captures the effective settings of a run.
type RunParams struct {
	Source       string `json:"source"`
	FamilyPrefix string `json:"family_prefix"`
	Filter       string `json:"filter,omitempty"`
	Mode         string `json:"notify_mode"`
	StatePath    string `json:"state_path"`
}

// RunResults holds the outcome of a run.
type RunResults struct {
	Outcome     string    `json:"outcome"`
	Error       string    `json:"error,omitempty"`
	Candidates  int       `json:"candidates"`
	Selected    bool      `json:"selected"`
	Latest      string    `json:"latest,omitempty"`
	Previous    *string   `json:"previous,omitempty"`
	Changed     bool      `json:"changed"`
	Duration    string    `json:"run_duration"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// RunRef links a record to the run before it.
type RunRef struct {
	RunID       string    `json:"run_id"`
	Latest      string    `json:"latest,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}
