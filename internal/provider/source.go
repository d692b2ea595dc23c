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
	"fmt"
	"sort"
	"strings"

	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
)

// Source identifies a model provider.
type Source string

const (
	// SourceOpenAI is the OpenAI platform API. It is the default source.
	SourceOpenAI Source = "openai"

	// SourceOpenRouter is the OpenRouter aggregation API.
	SourceOpenRouter Source = "openrouter"
)

// DefaultSource is used when no source argument is given.
const DefaultSource = SourceOpenAI

// Defaults holds the per-source settings a run starts from.
type Defaults struct {
	// CredentialEnv names the environment variable holding the API key.
	CredentialEnv string
	// BaseURL is the OpenAI-compatible API root; /models is appended.
	BaseURL string
	// FamilyPrefix filters candidates to the tracked model generation.
	FamilyPrefix string
}

var sourceDefaults = map[Source]Defaults{
	SourceOpenAI: {
		CredentialEnv: "OPENAI_API_KEY",
		BaseURL:       "https://api.openai.com/v1",
		FamilyPrefix:  "gpt-4",
	},
	SourceOpenRouter: {
		CredentialEnv: "OPENROUTER_API_KEY",
		BaseURL:       "https://openrouter.ai/api/v1",
		FamilyPrefix:  "openai/gpt-4",
	},
}

// ParseSource converts a CLI argument into a Source. An empty string
// selects DefaultSource.
func ParseSource(s string) (Source, error) {
	if s == "" {
		return DefaultSource, nil
	}
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sourceDefaults[src]; !ok {
		return "", fmt.Errorf("%w: %s", modelerrors.ErrUnsupportedSource, s)
	}
	return src, nil
}

// Defaults returns the built-in settings for the source.
func (s Source) Defaults() Defaults {
	return sourceDefaults[s]
}

// String implements fmt.Stringer.
func (s Source) String() string {
	return string(s)
}

// Sources lists every supported source in a stable order.
func Sources() []Source {
	out := make([]Source, 0, len(sourceDefaults))
	for s := range sourceDefaults {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
