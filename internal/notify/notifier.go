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

package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirseerhq/model-watch/internal/apierror"
	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
	"github.com/sirseerhq/model-watch/internal/github"
	"github.com/sirseerhq/model-watch/internal/output"
	"github.com/sirseerhq/model-watch/internal/state"
)

// Output names published on every run.
const (
	OutputModelDetected  = "model_detected"
	OutputVersionChanged = "version_changed"
)

// Config selects the channels a Notifier dispatches to.
type Config struct {
	Mode Mode

	// ManifestPath, when set, receives the new identifier on change.
	ManifestPath string

	// Kind labels annotation and issue titles; defaults to DefaultKind.
	Kind string
}

// Notifier dispatches an Event to the reporter and the configured channels.
type Notifier struct {
	cfg       Config
	reporter  output.Reporter
	tracker   github.IssueTracker
	logger    zerolog.Logger
	inspector apierror.Inspector
	now       func() time.Time
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithTracker sets the issue tracker used in ModeIssue. Without one,
// ModeIssue warns and skips the issue.
func WithTracker(tracker github.IssueTracker) Option {
	return func(n *Notifier) {
		n.tracker = tracker
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// WithClock overrides the time source used in issue bodies.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		n.now = now
	}
}

// New creates a Notifier.
func New(cfg Config, reporter output.Reporter, opts ...Option) *Notifier {
	if cfg.Mode == "" {
		cfg.Mode = ModeNone
	}
	if cfg.Kind == "" {
		cfg.Kind = DefaultKind
	}

	n := &Notifier{
		cfg:       cfg,
		reporter:  reporter,
		logger:    zerolog.Nop(),
		inspector: apierror.NewInspector(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Dispatch emits the notifications for ev. It returns ErrChangeDetected in
// ModeFail when ev.Changed, after every other channel has run; all other
// channel failures are reported as warnings and never returned.
func (n *Notifier) Dispatch(ctx context.Context, ev Event) error {
	logEvent := n.logger.Info().
		Str("source", ev.Source).
		Str("model", ev.Latest).
		Bool("changed", ev.Changed)
	if ev.Previous != nil {
		logEvent = logEvent.Str("previous", *ev.Previous)
	}

	if ev.Changed {
		logEvent.Msg("new model detected")
		n.reporter.Notice(AnnotationTitle(n.cfg.Kind), ChangeMessage(ev))
	} else {
		logEvent.Msg("already up to date")
		n.reporter.Info(UnchangedMessage(ev))
	}

	n.setOutput(OutputModelDetected, ev.Latest)
	n.setOutput(OutputVersionChanged, strconv.FormatBool(ev.Changed))

	if !ev.Changed {
		return nil
	}

	n.writeSummary(ev)
	n.writeManifest(ev)

	switch n.cfg.Mode {
	case ModeIssue:
		n.syncIssue(ctx, ev)
	case ModeFail:
		return fmt.Errorf("%w: %s model %s", modelerrors.ErrChangeDetected, ev.Source, ev.Latest)
	}

	return nil
}

func (n *Notifier) setOutput(name, value string) {
	if err := n.reporter.SetOutput(name, value); err != nil {
		n.warn(fmt.Sprintf("Failed to set output %s: %v", name, err), err)
	}
}

func (n *Notifier) writeSummary(ev Event) {
	if !n.reporter.SummaryEnabled() {
		return
	}
	if err := n.reporter.AppendSummary(SummaryMarkdown(n.cfg.Kind, ev)); err != nil {
		n.warn(fmt.Sprintf("Failed to write job summary: %v", err), err)
	}
}

func (n *Notifier) writeManifest(ev Event) {
	if n.cfg.ManifestPath == "" {
		return
	}
	if err := state.NewFileStore(n.cfg.ManifestPath).Write(ev.Latest); err != nil {
		n.warn(fmt.Sprintf("Failed to write manifest %s: %v", n.cfg.ManifestPath, err), err)
		return
	}
	n.logger.Debug().Str("path", n.cfg.ManifestPath).Msg("manifest written")
}

// syncIssue updates the open issue titled for ev, or creates it.
func (n *Notifier) syncIssue(ctx context.Context, ev Event) {
	if n.tracker == nil {
		n.warn("Issue mode requires a valid GITHUB_REPOSITORY and GITHUB_TOKEN; skipping issue", nil)
		return
	}

	title := IssueTitle(n.cfg.Kind, ev.Source, ev.Latest)
	body := IssueBody(ev, n.now())

	existing, err := n.tracker.FindOpenIssue(ctx, title)
	if err != nil {
		n.warn(fmt.Sprintf("Failed to list issues: %v", err), err)
		return
	}

	if existing != nil {
		if err := n.tracker.UpdateIssueBody(ctx, existing, body); err != nil {
			n.warn(fmt.Sprintf("Failed to update issue #%d: %v", existing.Number, err), err)
			return
		}
		n.logger.Info().Int("issue", existing.Number).Str("title", title).Msg("tracking issue updated")
		return
	}

	created, err := n.tracker.CreateIssue(ctx, title, body)
	if err != nil {
		n.warn(fmt.Sprintf("Failed to create issue: %v", err), err)
		return
	}
	n.logger.Info().Int("issue", created.Number).Str("url", created.URL).Msg("tracking issue created")
}

// warn reports a non-fatal channel failure.
func (n *Notifier) warn(message string, err error) {
	n.reporter.Warning(message)

	ev := n.logger.Warn()
	if err != nil {
		ev = ev.Err(err)
		if kind := n.inspector.Classify(err); kind != apierror.KindUnknown {
			ev = ev.Str("kind", string(kind))
		}
	}
	ev.Msg(message)
}
