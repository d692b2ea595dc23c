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

// Package main implements the modelwatch command-line interface.
// It polls a provider's model listing, picks the newest identifier of the
// configured family, compares it with the last one recorded in the
// workspace and reports changes through GitHub Actions workflow commands.
//
// Usage:
//
//	modelwatch [source] [flags]
//
// Example:
//
//	export OPENAI_API_KEY=sk-...
//	modelwatch openai --mode issue
//
// Exit codes:
//   - 0: Success, including "already up to date" and "no models found"
//   - 1: Configuration or fetch error, or a detected change in fail mode
package main
