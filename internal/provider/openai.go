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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirseerhq/model-watch/internal/apierror"
	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
	"github.com/sirseerhq/model-watch/pkg/version"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4 << 10

// listingFetcher implements Fetcher against an OpenAI-compatible API.
type listingFetcher struct {
	source    Source
	client    *openai.Client
	transport *diagnosticTransport
	inspector apierror.Inspector
}

func newListingFetcher(source Source, opts Options) *listingFetcher {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	transport := &diagnosticTransport{base: base}

	wrapped := *httpClient
	wrapped.Transport = transport

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	cfg.HTTPClient = &wrapped

	return &listingFetcher{
		source:    source,
		client:    openai.NewClientWithConfig(cfg),
		transport: transport,
		inspector: apierror.NewInspector(),
	}
}

// Source implements Fetcher.
func (f *listingFetcher) Source() Source {
	return f.source
}

// FetchModels implements Fetcher.
func (f *listingFetcher) FetchModels(ctx context.Context) ([]Candidate, error) {
	list, err := f.client.ListModels(ctx)
	if err != nil {
		return nil, f.mapError(err)
	}

	candidates := make([]Candidate, 0, len(list.Models))
	for _, m := range list.Models {
		candidates = append(candidates, Candidate{
			ID:      m.ID,
			Created: m.CreatedAt,
		})
	}
	return candidates, nil
}

// mapError wraps listing failures in ErrFetchFailed with the response body
// and an actionable hint.
func (f *listingFetcher) mapError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	msg := err.Error()
	if body := f.transport.lastErrorBody(); body != "" {
		msg = body
	}

	hint := ""
	switch f.inspector.Classify(err) {
	case apierror.KindAuth:
		hint = fmt.Sprintf(" (check the %s credential)", f.source.Defaults().CredentialEnv)
	case apierror.KindRateLimit:
		hint = " (rate limited by provider)"
	case apierror.KindNetwork:
		hint = " (network error)"
	}

	if status > 0 {
		return fmt.Errorf("%w from %s (status %d)%s: %s", modelerrors.ErrFetchFailed, f.source, status, hint, msg)
	}
	return fmt.Errorf("%w from %s%s: %s", modelerrors.ErrFetchFailed, f.source, hint, msg)
}

// diagnosticTransport sets the User-Agent and keeps the body of the last
// non-success response so fatal diagnostics can include it verbatim.
type diagnosticTransport struct {
	base    http.RoundTripper
	errBody string
}

// RoundTrip implements http.RoundTripper
func (t *diagnosticTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", fmt.Sprintf("model-watch/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		if readErr == nil {
			t.errBody = strings.TrimSpace(string(body))
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	return resp, nil
}

func (t *diagnosticTransport) lastErrorBody() string {
	return t.errBody
}
