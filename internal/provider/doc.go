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

// Package provider fetches model listings from LLM providers.
//
// Every supported provider exposes an OpenAI-compatible GET /models listing,
// so a single Fetcher implementation built on go-openai serves them all;
// providers differ only in their Source defaults (credential variable, base
// URL and family prefix).
//
// Basic usage:
//
//	fetcher, err := provider.New(provider.SourceOpenAI, provider.Options{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	})
//	if err != nil {
//	    // Missing credential
//	}
//	candidates, err := fetcher.FetchModels(ctx)
package provider
