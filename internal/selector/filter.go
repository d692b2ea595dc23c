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

package selector

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/sirseerhq/model-watch/internal/provider"
)

// Filter is a compiled boolean expression over a candidate. The expression
// sees two variables: id (string) and created (epoch seconds).
//
//	not (id contains "preview") and created > 1700000000
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles src. An empty expression yields a nil Filter,
// which matches everything.
func CompileFilter(src string) (*Filter, error) {
	if src == "" {
		return nil, nil
	}

	program, err := expr.Compile(src, expr.Env(filterEnv(provider.Candidate{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression %q: %w", src, err)
	}
	return &Filter{source: src, program: program}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match evaluates the expression for c.
func (f *Filter) Match(c provider.Candidate) (bool, error) {
	if f == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, filterEnv(c))
	if err != nil {
		return false, fmt.Errorf("filter %q on %s: %w", f.source, c.ID, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("filter %q on %s returned %T, want bool", f.source, c.ID, out)
	}
	return ok, nil
}

func filterEnv(c provider.Candidate) map[string]any {
	return map[string]any{
		"id":      c.ID,
		"created": c.Created,
	}
}
