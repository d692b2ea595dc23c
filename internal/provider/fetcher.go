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

package provider

import (
	"context"
	"fmt"
	"net/http"

	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
)

// Candidate is a model identifier with its creation time as reported by a
// provider's listing endpoint.
type Candidate struct {
	ID string `json:"id"`
	// Created is the creation time in epoch seconds. Providers that omit
	// it report 0.
	Created int64 `json:"created"`
}

// Fetcher retrieves the full model listing of one provider.
// This interface allows for easy mocking in tests.
type Fetcher interface {
	// FetchModels returns every model visible to the credential. An empty
	// slice is a valid result. Any non-success response is returned as an
	// error wrapping errors.ErrFetchFailed.
	FetchModels(ctx context.Context) ([]Candidate, error)

	// Source reports which provider the fetcher talks to.
	Source() Source
}

// Options configures a Fetcher.
type Options struct {
	// APIKey is the provider credential. Required.
	APIKey string
	// BaseURL overrides the source's default API root.
	BaseURL string
	// HTTPClient overrides the transport used for the listing call.
	HTTPClient *http.Client
}

// New builds the Fetcher for source. A missing credential is a
// configuration error and is reported before any network call.
func New(source Source, opts Options) (Fetcher, error) {
	defaults, ok := sourceDefaults[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", modelerrors.ErrUnsupportedSource, source)
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s not set: %w", defaults.CredentialEnv, modelerrors.ErrMissingCredential)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaults.BaseURL
	}
	return newListingFetcher(source, opts), nil
}
