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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sirseerhq/model-watch/internal/config"
	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
	"github.com/sirseerhq/model-watch/internal/github"
	"github.com/sirseerhq/model-watch/internal/logging"
	"github.com/sirseerhq/model-watch/internal/metadata"
	"github.com/sirseerhq/model-watch/internal/metrics"
	"github.com/sirseerhq/model-watch/internal/notify"
	"github.com/sirseerhq/model-watch/internal/output"
	"github.com/sirseerhq/model-watch/internal/provider"
	"github.com/sirseerhq/model-watch/internal/selector"
	"github.com/sirseerhq/model-watch/internal/state"
	"github.com/sirseerhq/model-watch/internal/watch"
	"github.com/sirseerhq/model-watch/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// checkOptions holds the command-line flags.
type checkOptions struct {
	configPath string
	overrides  config.Overrides
}

// reportedError marks an error that has already been printed as a
// workflow annotation and logged.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "modelwatch [source]",
		Short: "Detect new model releases from an LLM provider",
		Long: `modelwatch polls a provider's model listing, selects the newest model of a
family and compares it with the identifier recorded in the workspace.

Supported sources: openai (default), openrouter.

A new model is reported as a workflow notice and through the
model_detected and version_changed step outputs. Depending on the notify
mode it also opens or updates a GitHub issue, or fails the job.

The provider key is read from OPENAI_API_KEY or OPENROUTER_API_KEY.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.overrides.Source = args[0]
			}
			return runCheck(cmd.Context(), opts, stdout, stderr)
		},
	}

	bindFlags(cmd.Flags(), &opts)

	return cmd
}

// bindFlags registers the command-line flags. Empty values leave the
// environment and config file settings in place.
func bindFlags(flags *pflag.FlagSet, opts *checkOptions) {
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML or TOML configuration file")
	modes := make([]string, 0, len(notify.Modes()))
	for _, m := range notify.Modes() {
		modes = append(modes, string(m))
	}
	flags.StringVar(&opts.overrides.Mode, "mode", "", "Notify mode: "+strings.Join(modes, ", ")+" (overrides LLM_NOTIFY_MODE)")
	flags.StringVar(&opts.overrides.Workspace, "workspace", "", "Directory holding the state file (overrides GITHUB_WORKSPACE)")
	flags.StringVar(&opts.overrides.ManifestPath, "manifest", "", "Also write the detected model to this file")
	flags.StringVar(&opts.overrides.FamilyPrefix, "prefix", "", "Model family prefix (default depends on source)")
	flags.StringVar(&opts.overrides.Filter, "filter", "", "Expression over id and created that candidates must satisfy")
	flags.StringVar(&opts.overrides.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.overrides.LogFormat, "log-format", "", "Log format: console or json")
}

// runCheck performs a single detection run.
func runCheck(ctx context.Context, opts checkOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Used until the configured logger exists
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	var reporter output.Reporter = output.NewWorkflow(stdout, os.Getenv("GITHUB_OUTPUT"), os.Getenv("GITHUB_STEP_SUMMARY"))

	fatal := func(message string, err error) error {
		reporter.Error(message)
		logger.Error().Err(err).Msg("run failed")
		return &reportedError{err: err}
	}

	if err := config.LoadDotEnv(""); err != nil {
		return fatal(err.Error(), err)
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fatal(err.Error(), err)
	}
	cfg.ApplyOverrides(opts.overrides)
	reporter = output.NewWorkflow(stdout, cfg.Output.File, cfg.Output.SummaryFile)

	src, err := provider.ParseSource(cfg.Source)
	if err != nil {
		return fatal(fmt.Sprintf("Unsupported source: %s", cfg.Source), err)
	}

	if err := cfg.Validate(); err != nil {
		return fatal(err.Error(), err)
	}

	configured, closer, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Out:    stderr,
	})
	if err != nil {
		return fatal(err.Error(), err)
	}
	defer closer.Close()
	runID := uuid.NewString()
	logger = logging.WithRun(configured, runID, src.String())
	history := metadata.New(runID)

	settings := cfg.ProviderSettings(src)
	apiKey := os.Getenv(settings.CredentialEnv)
	if apiKey == "" {
		err := fmt.Errorf("%s not set: %w", settings.CredentialEnv, modelerrors.ErrMissingCredential)
		return fatal(fmt.Sprintf("%s not set", settings.CredentialEnv), err)
	}

	fetcher, err := provider.New(src, provider.Options{
		APIKey:  apiKey,
		BaseURL: settings.BaseURL,
	})
	if err != nil {
		return fatal(err.Error(), err)
	}

	filter, err := selector.CompileFilter(cfg.Selector.Filter)
	if err != nil {
		return fatal(err.Error(), err)
	}

	mode, err := notify.ParseMode(cfg.Notify.Mode)
	if err != nil {
		return fatal(err.Error(), err)
	}

	notifyOpts := []notify.Option{notify.WithLogger(logger)}
	if mode == notify.ModeIssue && cfg.IssueTrackingConfigured() {
		// Without a tracker the notifier warns and skips the issue
		if err := cfg.ValidateIssueTracker(); err != nil {
			logger.Warn().Err(err).Msg("issue tracking disabled")
		} else if issues, err := github.NewGraphQLClient(cfg.GitHubToken(), cfg.GitHub.GraphQLEndpoint, cfg.GitHub.Repository); err != nil {
			logger.Warn().Err(err).Msg("issue tracking disabled")
		} else {
			notifyOpts = append(notifyOpts, notify.WithTracker(issues))
		}
	}

	notifier := notify.New(notify.Config{
		Mode:         mode,
		ManifestPath: cfg.Notify.ManifestPath,
		Kind:         cfg.Notify.IssueKind,
	}, reporter, notifyOpts...)

	pipeline := &watch.Pipeline{
		Fetcher:    fetcher,
		Selector:   selector.New(settings.FamilyPrefix, filter),
		Store:      state.NewFileStore(cfg.StatePath()),
		Dispatcher: notifier,
		Reporter:   reporter,
		Logger:     logger,
	}

	logger.Debug().
		Str("mode", string(mode)).
		Str("prefix", settings.FamilyPrefix).
		Str("filter", filter.String()).
		Str("state", cfg.StatePath()).
		Msg("starting run")

	var previousRun *metadata.RunRef
	if cfg.History.Dir != "" {
		last, err := metadata.LoadLatest(cfg.History.Dir, src.String())
		if err != nil {
			logger.Warn().Err(err).Str("dir", cfg.History.Dir).Msg("run history unreadable")
		} else if last != nil {
			previousRun = last.Ref()
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout())
	defer cancel()

	res, runErr := pipeline.Run(runCtx)

	if cfg.History.Dir != "" {
		record := history.Generate(version.Version, metadata.RunParams{
			Source:       src.String(),
			FamilyPrefix: settings.FamilyPrefix,
			Filter:       filter.String(),
			Mode:         string(mode),
			StatePath:    cfg.StatePath(),
		}, res, runErr, previousRun)
		if err := metadata.SaveRecord(record, cfg.History.Dir); err != nil {
			reporter.Warning(fmt.Sprintf("Failed to save run history: %v", err))
			logger.Warn().Err(err).Str("dir", cfg.History.Dir).Msg("run record not saved")
		}
	}

	if cfg.Metrics.File != "" {
		recorder := metrics.New()
		recorder.Observe(res, time.Now())
		if err := recorder.WriteTextfile(cfg.Metrics.File); err != nil {
			reporter.Warning(fmt.Sprintf("Failed to write metrics: %v", err))
			logger.Warn().Err(err).Str("path", cfg.Metrics.File).Msg("metrics textfile not written")
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.DeadlineExceeded) {
			runErr = fmt.Errorf("run timed out after %s: %w", cfg.RunTimeout(), runErr)
		}
		return fatal(runErr.Error(), runErr)
	}

	return nil
}
