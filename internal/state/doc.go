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

// Package state persists the last notified model identifier.
//
// The state is a single scalar value: the raw identifier, stored as plain
// text with no trailing newline or metadata. A missing file is the normal
// first-run state. Every write is atomic, using a write-to-temp-and-rename
// pattern so a crash mid-write leaves either the old value or the new one.
//
// Example usage:
//
//	store := state.NewFileStore(state.DefaultPath(workspace, ".llm_latest"))
//	previous, ok, err := store.Read()
//	if err != nil {
//	    return err
//	}
//	if !ok || previous != latest {
//	    err = store.Write(latest)
//	}
package state
