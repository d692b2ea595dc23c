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

// Package config provides configuration management for model-watch with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables (a .env file is loaded without overriding
//     variables that are already set)
//  3. Configuration file (YAML or TOML, chosen by extension)
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirseerhq/model-watch/internal/provider"
	"github.com/sirseerhq/model-watch/internal/state"
	"gopkg.in/yaml.v3"
)

// DefaultDotEnvFile is loaded from the working directory when present.
const DefaultDotEnvFile = ".env"

// LoadDotEnv loads variables from path into the environment. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultDotEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadConfig loads configuration from the defaults, a config file and the
// environment. If configPath is provided, it loads from that specific file.
// Otherwise, it searches the current directory for:
//   - .model-watch.yaml
//   - .model-watch.yml
//   - .model-watch.toml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is
// performed on file and directory paths.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".model-watch.yaml",
			".model-watch.yml",
			".model-watch.toml",
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)
	cfg.expandPaths()
	cfg.normalize()

	return cfg, nil
}

// loadConfigFile reads and parses a YAML or TOML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file extension %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	setFromEnv(&cfg.State.Workspace, "GITHUB_WORKSPACE")
	setFromEnv(&cfg.State.File, "MODELWATCH_STATE_FILE")

	setFromEnv(&cfg.Notify.Mode, "LLM_NOTIFY_MODE")
	setFromEnv(&cfg.Notify.ManifestPath, "LLM_MANIFEST_PATH")
	setFromEnv(&cfg.Notify.IssueKind, "MODELWATCH_ISSUE_KIND")

	setFromEnv(&cfg.GitHub.Repository, "GITHUB_REPOSITORY")
	setFromEnv(&cfg.GitHub.GraphQLEndpoint, "GITHUB_GRAPHQL_URL")

	setFromEnv(&cfg.Output.File, "GITHUB_OUTPUT")
	setFromEnv(&cfg.Output.SummaryFile, "GITHUB_STEP_SUMMARY")

	setFromEnv(&cfg.Provider.BaseURL, "MODELWATCH_API_BASE")
	setFromEnv(&cfg.Selector.FamilyPrefix, "MODELWATCH_FAMILY_PREFIX")
	setFromEnv(&cfg.Selector.Filter, "MODELWATCH_FILTER")
	setFromEnv(&cfg.Timeout, "MODELWATCH_TIMEOUT")

	setFromEnv(&cfg.Logging.Level, "MODELWATCH_LOG_LEVEL")
	setFromEnv(&cfg.Logging.Format, "MODELWATCH_LOG_FORMAT")
	setFromEnv(&cfg.Logging.File, "MODELWATCH_LOG_FILE")

	setFromEnv(&cfg.Metrics.File, "MODELWATCH_METRICS_FILE")
	setFromEnv(&cfg.History.Dir, "MODELWATCH_HISTORY_DIR")
}

// setFromEnv overwrites dst when the variable is set and non-empty
func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// normalize lower-cases the enumerated settings, which are matched
// case-insensitively.
func (c *Config) normalize() {
	for _, v := range []*string{&c.Source, &c.Notify.Mode, &c.Logging.Level, &c.Logging.Format} {
		*v = strings.ToLower(strings.TrimSpace(*v))
	}
}

func (c *Config) expandPaths() {
	c.State.Workspace = expandPath(c.State.Workspace)
	c.Notify.ManifestPath = expandPath(c.Notify.ManifestPath)
	c.Logging.File = expandPath(c.Logging.File)
	c.Metrics.File = expandPath(c.Metrics.File)
	c.History.Dir = expandPath(c.History.Dir)
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Overrides carries command-line values. Empty fields leave the loaded
// configuration untouched.
type Overrides struct {
	Source       string
	Mode         string
	Workspace    string
	ManifestPath string
	FamilyPrefix string
	Filter       string
	LogLevel     string
	LogFormat    string
}

// ApplyOverrides applies command-line values on top of the loaded config.
func (c *Config) ApplyOverrides(o Overrides) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&c.Source, o.Source)
	set(&c.Notify.Mode, o.Mode)
	set(&c.State.Workspace, expandPath(o.Workspace))
	set(&c.Notify.ManifestPath, expandPath(o.ManifestPath))
	set(&c.Selector.FamilyPrefix, o.FamilyPrefix)
	set(&c.Selector.Filter, o.Filter)
	set(&c.Logging.Level, o.LogLevel)
	set(&c.Logging.Format, o.LogFormat)
	c.normalize()
}

// RunTimeout returns the parsed run timeout.
func (c *Config) RunTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// StatePath returns the full path of the state file.
func (c *Config) StatePath() string {
	return state.DefaultPath(c.State.Workspace, c.State.File)
}

// ProviderSettings merges the configured overrides into the defaults of
// src.
func (c *Config) ProviderSettings(src provider.Source) provider.Defaults {
	d := src.Defaults()
	if c.Provider.CredentialEnv != "" {
		d.CredentialEnv = c.Provider.CredentialEnv
	}
	if c.Provider.BaseURL != "" {
		d.BaseURL = c.Provider.BaseURL
	}
	if c.Selector.FamilyPrefix != "" {
		d.FamilyPrefix = c.Selector.FamilyPrefix
	}
	return d
}

// IssueTrackingConfigured reports whether both a repository and a token are
// available for issue mode.
func (c *Config) IssueTrackingConfigured() bool {
	return c.GitHub.Repository != "" && c.GitHubToken() != ""
}

// GitHubToken returns the issue-tracker token from the configured variable.
func (c *Config) GitHubToken() string {
	return os.Getenv(c.GitHub.TokenEnv)
}
