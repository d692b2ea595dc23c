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

package state

// MemoryStore is an in-process Store. It is used by tests and by dry runs
// that must not touch the workspace.
type MemoryStore struct {
	value  string
	ok     bool
	Writes int
}

// NewMemoryStore returns a store preloaded with previous when non-nil.
func NewMemoryStore(previous *string) *MemoryStore {
	m := &MemoryStore{}
	if previous != nil {
		m.value, m.ok = *previous, true
	}
	return m
}

// Read implements Store.
func (m *MemoryStore) Read() (string, bool, error) {
	return m.value, m.ok, nil
}

// Write implements Store.
func (m *MemoryStore) Write(value string) error {
	m.value, m.ok = value, true
	m.Writes++
	return nil
}
