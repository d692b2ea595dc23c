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

// Package config types define the configuration structures used throughout
// model-watch. These types represent settings that can be loaded from YAML
// or TOML configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for model-watch.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	// Source names the provider to poll ("openai" or "openrouter").
	Source string `yaml:"source" toml:"source" validate:"required,oneof=openai openrouter"`

	// Timeout bounds the whole run, as a Go duration string.
	Timeout string `yaml:"timeout" toml:"timeout" validate:"required,duration"`

	Provider ProviderConfig `yaml:"provider" toml:"provider"`
	Selector SelectorConfig `yaml:"selector" toml:"selector"`
	State    StateConfig    `yaml:"state" toml:"state"`
	Notify   NotifyConfig   `yaml:"notify" toml:"notify"`
	GitHub   GitHubConfig   `yaml:"github" toml:"github"`
	Output   OutputConfig   `yaml:"-" toml:"-"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics" toml:"metrics"`
	History  HistoryConfig  `yaml:"history" toml:"history"`
}

// ProviderConfig overrides the per-source provider defaults.
type ProviderConfig struct {
	// BaseURL replaces the source's listing base URL.
	BaseURL string `yaml:"base_url" toml:"base_url" validate:"omitempty,url"`

	// CredentialEnv names the environment variable holding the API key.
	// Empty selects the source default.
	CredentialEnv string `yaml:"credential_env" toml:"credential_env"`
}

// SelectorConfig controls how the latest model is chosen.
type SelectorConfig struct {
	// FamilyPrefix replaces the source's default family prefix.
	FamilyPrefix string `yaml:"family_prefix" toml:"family_prefix"`

	// Filter is an optional boolean expression over id and created.
	Filter string `yaml:"filter" toml:"filter" validate:"omitempty,exprfilter"`
}

// StateConfig locates the state file.
type StateConfig struct {
	Workspace string `yaml:"workspace" toml:"workspace" validate:"required"`
	File      string `yaml:"file" toml:"file" validate:"required"`
}

// NotifyConfig selects the notification channels.
type NotifyConfig struct {
	Mode         string `yaml:"mode" toml:"mode" validate:"omitempty,oneof=none issue fail"`
	ManifestPath string `yaml:"manifest_path" toml:"manifest_path"`
	IssueKind    string `yaml:"issue_kind" toml:"issue_kind" validate:"required"`
}

// GitHubConfig contains issue-tracker settings. The endpoint can point at a
// GitHub Enterprise installation. These fields are only checked, by
// ValidateIssueTracker, when issue mode is selected.
type GitHubConfig struct {
	Repository      string `yaml:"repository" toml:"repository"`
	GraphQLEndpoint string `yaml:"graphql_endpoint" toml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env" toml:"token_env"`
}

// OutputConfig holds the CI runner's file-based output locations. These
// are only ever taken from the environment.
type OutputConfig struct {
	File        string
	SummaryFile string
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"loglevel"`
	Format string `yaml:"format" toml:"format" validate:"oneof=console json"`
	File   string `yaml:"file" toml:"file"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	File string `yaml:"file" toml:"file"`
}

// HistoryConfig controls the run history records. An empty Dir disables
// them.
type HistoryConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Source:  "openai",
		Timeout: "60s",
		State: StateConfig{
			Workspace: ".",
			File:      ".llm_latest",
		},
		Notify: NotifyConfig{
			Mode:      "none",
			IssueKind: "LLM",
		},
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
