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

// Package selector reduces a provider's model listing to the single
// "latest" identifier.
//
// Providers have no authoritative notion of "latest", so the rule itself is
// the contract:
//
//  1. keep identifiers starting with the family prefix;
//  2. if none remain, there is no selection (not an error);
//  3. order the rest by creation time, newest first, with a stable sort so
//     ties keep their listing order;
//  4. return the first identifier.
//
// A candidate without a creation time counts as created at 0, the oldest
// possible value.
package selector

import (
	"sort"
	"strings"

	"github.com/sirseerhq/model-watch/internal/provider"
)

// Select applies the family-prefix rule to candidates. ok is false when no
// candidate matches. The input slice is not modified.
func Select(candidates []provider.Candidate, prefix string) (string, bool) {
	return New(prefix, nil).Select(candidates)
}

// Selector applies the family-prefix rule and an optional Filter.
type Selector struct {
	prefix string
	filter *Filter

	// Rejected records candidates excluded because the filter failed to
	// evaluate, keyed by identifier.
	Rejected map[string]error
}

// New creates a Selector. filter may be nil.
func New(prefix string, filter *Filter) *Selector {
	return &Selector{prefix: prefix, filter: filter}
}

// Prefix returns the family prefix in use.
func (s *Selector) Prefix() string {
	return s.prefix
}

// Select returns the newest matching identifier.
func (s *Selector) Select(candidates []provider.Candidate) (string, bool) {
	matches := s.Matches(candidates)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].ID, true
}

// Matches returns the candidates that pass the prefix and filter, newest
// first. Equal creation times keep their listing order.
func (s *Selector) Matches(candidates []provider.Candidate) []provider.Candidate {
	s.Rejected = nil

	matches := make([]provider.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !strings.HasPrefix(c.ID, s.prefix) {
			continue
		}
		if s.filter != nil {
			ok, err := s.filter.Match(c)
			if err != nil {
				if s.Rejected == nil {
					s.Rejected = make(map[string]error)
				}
				s.Rejected[c.ID] = err
				continue
			}
			if !ok {
				continue
			}
		}
		matches = append(matches, c)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Created > matches[j].Created
	})
	return matches
}
