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

// Package output writes results to the CI platform that runs model-watch.
//
// Three surfaces are covered, following the GitHub Actions conventions:
//
//   - workflow commands on stdout (::notice::, ::warning::, ::error::)
//     that the runner turns into annotations;
//   - named step outputs, appended to the file named by GITHUB_OUTPUT, or
//     emitted as ::set-output commands when that variable is unset;
//   - the job summary, markdown appended to the file named by
//     GITHUB_STEP_SUMMARY.
//
// Example usage:
//
//	w := output.NewWorkflow(os.Stdout, os.Getenv("GITHUB_OUTPUT"), os.Getenv("GITHUB_STEP_SUMMARY"))
//	w.Notice("LLM Update", "New openai model detected: gpt-4o")
//	if err := w.SetOutput("model_detected", "gpt-4o"); err != nil {
//	    log.Printf("Failed to set output: %v", err)
//	}
package output
