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

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	modelerrors "github.com/sirseerhq/model-watch/internal/errors"
	"github.com/sirseerhq/model-watch/internal/github"
	"github.com/sirseerhq/model-watch/internal/selector"
)

// newValidator returns a validator with the model-watch specific rules
// registered.
func newValidator() *validator.Validate {
	validate := validator.New()

	// Go duration strings such as "60s" or "2m"
	_ = validate.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})

	// owner/name repository slugs
	_ = validate.RegisterValidation("repository", func(fl validator.FieldLevel) bool {
		_, err := github.ParseRepository(fl.Field().String())
		return err == nil
	})

	// Candidate filter expressions must compile
	_ = validate.RegisterValidation("exprfilter", func(fl validator.FieldLevel) bool {
		_, err := selector.CompileFilter(fl.Field().String())
		return err == nil
	})

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
			return true
		default:
			return false
		}
	})

	return validate
}

// Validate checks if the configuration contains valid values. This should
// be called after all sources, flags included, have been applied. Every
// failure wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("configuration validation error: %v: %w", err, modelerrors.ErrInvalidConfig)
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := fmt.Sprintf("'%s' failed rule '%s'", strings.TrimPrefix(e.Namespace(), "Config."), e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}

	// Surface the compiler message for filters, which is more useful
	// than the rule name.
	if c.Selector.Filter != "" {
		if _, ferr := selector.CompileFilter(c.Selector.Filter); ferr != nil {
			messages = append(messages, ferr.Error())
		}
	}

	return fmt.Errorf("%w: %s", modelerrors.ErrInvalidConfig, strings.Join(messages, "; "))
}

// ValidateIssueTracker checks the settings issue mode needs. It is separate
// from Validate so that a bad repository or endpoint only disables issue
// tracking instead of failing the run.
func (c *Config) ValidateIssueTracker() error {
	validate := newValidator()

	var messages []string
	if err := validate.Var(c.GitHub.Repository, "required,repository"); err != nil {
		messages = append(messages, fmt.Sprintf("repository %q is not owner/name", c.GitHub.Repository))
	}
	if err := validate.Var(c.GitHub.GraphQLEndpoint, "required,url"); err != nil {
		messages = append(messages, fmt.Sprintf("GraphQL endpoint %q is not a URL", c.GitHub.GraphQLEndpoint))
	}
	if c.GitHub.TokenEnv == "" {
		messages = append(messages, "token variable name is empty")
	}

	if len(messages) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", modelerrors.ErrInvalidConfig, strings.Join(messages, "; "))
}
