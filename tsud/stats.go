/*
Copyright (c) The OpenNIC Project and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tsud

import (
	"net/http"
	"sync"
	"time"

	"github.com/eclesh/welford"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/opennic/time/servo"
)

// Stats accumulates what the sync loop and the pulse path measured
type Stats struct {
	mux        sync.Mutex
	offsets    *welford.Stats
	lastOffset float64 // ns
	lastPPB    float64
	state      servo.State
	pulses     int64
	steps      int64
}

// NewStats creates an empty Stats
func NewStats() *Stats {
	return &Stats{offsets: welford.New()}
}

// ObserveOffset records one measured offset and the servo reaction
func (s *Stats) ObserveOffset(offset time.Duration, ppb float64, state servo.State) {
	s.mux.Lock()
	s.offsets.Add(float64(offset.Nanoseconds()))
	s.lastOffset = float64(offset.Nanoseconds())
	s.lastPPB = ppb
	s.state = state
	s.mux.Unlock()
}

// ObserveStep counts a clock step
func (s *Stats) ObserveStep() {
	s.mux.Lock()
	s.steps++
	s.mux.Unlock()
}

// ObservePulse counts one delivered output pulse
func (s *Stats) ObservePulse() {
	s.mux.Lock()
	s.pulses++
	s.mux.Unlock()
}

// Snapshot returns current counters as a map, for logging and tests
func (s *Stats) Snapshot() map[string]float64 {
	s.mux.Lock()
	defer s.mux.Unlock()
	return map[string]float64{
		"offset_ns":        s.lastOffset,
		"offset_mean_ns":   s.offsets.Mean(),
		"offset_stddev_ns": s.offsets.Stddev(),
		"freq_ppb":         s.lastPPB,
		"servo_state":      float64(s.state),
		"pulses":           float64(s.pulses),
		"steps":            float64(s.steps),
	}
}

// Exporter serves Stats over HTTP in prometheus format
type Exporter struct {
	registry *prometheus.Registry
	addr     string
	stats    *Stats
}

// NewExporter registers gauges for all Stats fields
func NewExporter(addr string, stats *Stats) *Exporter {
	e := &Exporter{registry: prometheus.NewRegistry(), addr: addr, stats: stats}
	for _, name := range []string{"offset_ns", "offset_mean_ns", "offset_stddev_ns", "freq_ppb", "servo_state", "pulses", "steps"} {
		e.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Namespace: "tsud", Name: name, Help: name},
			func() float64 { return stats.Snapshot()[name] },
		))
	}
	return e
}

// Serve runs the metrics endpoint until the server fails
func (e *Exporter) Serve() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	log.Infof("metrics exporter listening on %s", e.addr)
	return http.ListenAndServe(e.addr, mux)
}
