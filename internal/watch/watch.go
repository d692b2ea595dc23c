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

// Package watch drives one detection run: fetch the listing, select the
// latest identifier, compare it with the persisted one, persist a change,
// and hand the result to the notifier.
package watch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sirseerhq/model-watch/internal/notify"
	"github.com/sirseerhq/model-watch/internal/output"
	"github.com/sirseerhq/model-watch/internal/provider"
	"github.com/sirseerhq/model-watch/internal/selector"
	"github.com/sirseerhq/model-watch/internal/state"
)

// Changed reports whether latest differs from the previously persisted
// identifier. An absent previous value always counts as a change.
func Changed(latest string, previous *string) bool {
	return previous == nil || *previous != latest
}

// Dispatcher receives the notification record of a run.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev notify.Event) error
}

// Result summarizes a run.
type Result struct {
	Source     provider.Source
	Candidates int
	Selected   bool
	Latest     string
	Previous   *string
	Changed    bool
}

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	Fetcher    provider.Fetcher
	Selector   *selector.Selector
	Store      state.Store
	Dispatcher Dispatcher
	Reporter   output.Reporter
	Logger     zerolog.Logger
}

// Run executes the pipeline once. Fetch and state errors are returned as
// is. When nothing matches the selector a warning is reported and the
// result has Selected false. The state is written before dispatch, so an
// error from the dispatcher (ErrChangeDetected in fail mode) leaves the new
// identifier persisted.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	source := p.Fetcher.Source()
	res := &Result{Source: source}

	candidates, err := p.Fetcher.FetchModels(ctx)
	if err != nil {
		return res, err
	}
	res.Candidates = len(candidates)
	p.Logger.Debug().Int("candidates", len(candidates)).Msg("models fetched")

	latest, ok := p.Selector.Select(candidates)
	for id, ferr := range p.Selector.Rejected {
		p.Logger.Warn().Str("model", id).Err(ferr).Msg("filter failed to evaluate; candidate skipped")
	}
	if !ok {
		msg := fmt.Sprintf("No %s models found", p.Selector.Prefix())
		p.Reporter.Warning(msg)
		p.Logger.Warn().Str("prefix", p.Selector.Prefix()).Msg("no matching models")
		return res, nil
	}
	res.Selected = true
	res.Latest = latest

	prev, found, err := p.Store.Read()
	if err != nil {
		return res, fmt.Errorf("failed to read state: %w", err)
	}
	if found {
		res.Previous = &prev
	}

	res.Changed = Changed(latest, res.Previous)
	if res.Changed {
		if err := p.Store.Write(latest); err != nil {
			return res, fmt.Errorf("failed to write state: %w", err)
		}
	}

	err = p.Dispatcher.Dispatch(ctx, notify.Event{
		Source:   source.String(),
		Latest:   latest,
		Previous: res.Previous,
		Changed:  res.Changed,
	})
	return res, err
}
