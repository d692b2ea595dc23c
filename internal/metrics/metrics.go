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

// Package metrics exports run results as a Prometheus textfile, suitable
// for the node-exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirseerhq/model-watch/internal/watch"
)

// Recorder holds the gauges of one run in a private registry.
type Recorder struct {
	registry *prometheus.Registry

	lastRun    prometheus.Gauge
	candidates prometheus.Gauge
	changed    prometheus.Gauge
	latest     *prometheus.GaugeVec
}

// New creates a Recorder with every gauge registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "modelwatch",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run",
		}),
		candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "modelwatch",
			Name:      "candidates",
			Help:      "Number of models returned by the listing endpoint",
		}),
		changed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "modelwatch",
			Name:      "model_changed",
			Help:      "1 if the last run detected a new model, else 0",
		}),
		latest: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "modelwatch",
			Name:      "latest_model_info",
			Help:      "Latest selected model, as labels; value is always 1",
		}, []string{"source", "model"}),
	}

	r.registry.MustRegister(r.lastRun, r.candidates, r.changed, r.latest)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records res as of at.
func (r *Recorder) Observe(res *watch.Result, at time.Time) {
	r.lastRun.Set(float64(at.Unix()))
	if res == nil {
		return
	}

	r.candidates.Set(float64(res.Candidates))
	if res.Changed {
		r.changed.Set(1)
	} else {
		r.changed.Set(0)
	}

	r.latest.Reset()
	if res.Selected {
		r.latest.WithLabelValues(res.Source.String(), res.Latest).Set(1)
	}
}

// WriteTextfile atomically writes the registry to path in the text
// exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
