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

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the state file name used when none is configured.
const DefaultFileName = ".llm_latest"

// Store is a durable single-value key store. Implementations other than
// FileStore (key-value stores, object storage) can be swapped in without
// touching the rest of the pipeline.
type Store interface {
	// Read returns the stored value. ok is false when nothing has been
	// stored yet; that is not an error.
	Read() (value string, ok bool, err error)

	// Write replaces the stored value.
	Write(value string) error
}

// FileStore keeps the value in a flat file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath joins the workspace directory and the state file name,
// falling back to the current directory and DefaultFileName.
func DefaultPath(workspace, name string) string {
	if workspace == "" {
		workspace = "."
	}
	if name == "" {
		name = DefaultFileName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(workspace, name)
}

// Path returns the location of the state file.
func (s *FileStore) Path() string {
	return s.path
}

// Read returns the stored identifier with surrounding whitespace removed.
func (s *FileStore) Read() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// Write atomically replaces the file contents with value.
func (s *FileStore) Write(value string) error {
	// Ensure the directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(s.path), 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create state directory: %w", mkdirErr)
	}

	tempFile := s.path + ".tmp"

	if writeErr := os.WriteFile(tempFile, []byte(value), 0o644); writeErr != nil {
		return fmt.Errorf("failed to write temporary state file: %w", writeErr)
	}

	// Sync to ensure data is flushed to disk
	file, err := os.Open(tempFile)
	if err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, s.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
