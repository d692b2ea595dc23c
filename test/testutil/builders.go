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

package testutil

import (
	"fmt"
)

// ModelBuilder provides a fluent API for creating listing entries
type ModelBuilder struct {
	id      string
	created int64
	ownedBy string
	omitTS  bool
}

// NewModelBuilder creates a new model builder with defaults
func NewModelBuilder(id string) *ModelBuilder {
	return &ModelBuilder{
		id:      id,
		created: 1_700_000_000,
		ownedBy: "system",
	}
}

// WithCreated sets the creation time in epoch seconds
func (b *ModelBuilder) WithCreated(created int64) *ModelBuilder {
	b.created = created
	return b
}

// WithOwner sets the owned_by field
func (b *ModelBuilder) WithOwner(owner string) *ModelBuilder {
	b.ownedBy = owner
	return b
}

// WithoutCreated drops the created field from the entry
func (b *ModelBuilder) WithoutCreated() *ModelBuilder {
	b.omitTS = true
	return b
}

// Build creates the listing entry as the API returns it
func (b *ModelBuilder) Build() map[string]interface{} {
	entry := map[string]interface{}{
		"id":       b.id,
		"object":   "model",
		"owned_by": b.ownedBy,
	}
	if !b.omitTS {
		entry["created"] = b.created
	}
	return entry
}

// ListingBuilder creates a /models response body
type ListingBuilder struct {
	models []*ModelBuilder
}

// NewListingBuilder creates an empty listing
func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{}
}

// WithModel appends one model
func (b *ListingBuilder) WithModel(id string, created int64) *ListingBuilder {
	b.models = append(b.models, NewModelBuilder(id).WithCreated(created))
	return b
}

// WithModels appends prebuilt models
func (b *ListingBuilder) WithModels(models ...*ModelBuilder) *ListingBuilder {
	b.models = append(b.models, models...)
	return b
}

// WithGenerated appends count models named prefix-N with increasing
// creation times starting at base
func (b *ListingBuilder) WithGenerated(prefix string, count int, base int64) *ListingBuilder {
	for i := 0; i < count; i++ {
		b.models = append(b.models, NewModelBuilder(fmt.Sprintf("%s-%d", prefix, i)).WithCreated(base+int64(i)))
	}
	return b
}

// Build creates the response body
func (b *ListingBuilder) Build() map[string]interface{} {
	data := make([]map[string]interface{}, 0, len(b.models))
	for _, m := range b.models {
		data = append(data, m.Build())
	}
	return map[string]interface{}{
		"object": "list",
		"data":   data,
	}
}

// DefaultListing is the three-model listing used across scenario tests:
// the gpt-4 family's newest member is gpt-4-turbo, while gpt-3.5 is newer
// still but outside the family.
func DefaultListing() map[string]interface{} {
	return NewListingBuilder().
		WithModel("gpt-4o", 200).
		WithModel("gpt-4-turbo", 300).
		WithModel("gpt-3.5", 900).
		Build()
}
