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

// Package notify fans a detection result out to the configured channels:
// workflow annotations and outputs on every run, and on a change the job
// summary, a manifest file, a tracking issue, or a deliberate job failure.
//
// Secondary channels never fail the run. Each failure is reported as a
// warning annotation and a log line, and dispatch continues with the next
// channel. Only ModeFail turns a detected change into an error.
package notify
