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

// Package errors defines sentinel errors shared across model-watch.
// Callers wrap them with fmt.Errorf("...: %w", err) and test with errors.Is.
package errors

import "errors"

var (
	// ErrMissingCredential indicates the provider API key is not set.
	ErrMissingCredential = errors.New("provider credential not set")

	// ErrUnsupportedSource indicates the requested provider source is unknown.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFetchFailed indicates the model-listing endpoint returned a
	// non-success response or could not be reached.
	ErrFetchFailed = errors.New("failed to fetch models")

	// ErrChangeDetected is returned in fail mode after a new model has been
	// detected and every notification has been emitted.
	ErrChangeDetected = errors.New("new model detected")

	// ErrIssueTracker indicates a request to the issue tracker failed.
	ErrIssueTracker = errors.New("issue tracker request failed")
)
