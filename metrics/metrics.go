// Copyright 2025 the libevm authors.
//
// The libevm additions to go-ethereum are free software: you can redistribute
// them and/or modify them under the terms of the GNU Lesser General Public License
// as published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// The libevm additions are distributed in the hope that they will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see
// <http://www.gnu.org/licenses/>.

// Package metrics exposes vm-runner's batch-processing progress to
// Prometheus, built directly on client_golang.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "vm_runner"

// Collector holds the Prometheus metrics vm-runner reports. The zero value
// is not usable; construct one with New.
type Collector struct {
	watermark      prometheus.Gauge
	lastConsidered prometheus.Gauge
	batchDuration  prometheus.Histogram
	batchErrors    *prometheus.CounterVec
}

// New constructs a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		watermark: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watermark_batch_number",
			Help:      "Highest L1 batch number the output handler has durably marked processed.",
		}),
		lastConsidered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_considered_batch_number",
			Help:      "Highest L1 batch number the IoSink has been told to expect.",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Wall-clock time to execute and hand off one L1 batch.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		batchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_errors_total",
			Help:      "Count of batch-processing failures by stage.",
		}, []string{"stage"}),
	}

	for _, m := range []prometheus.Collector{c.watermark, c.lastConsidered, c.batchDuration, c.batchErrors} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SetWatermark records the current durably-processed batch number.
func (c *Collector) SetWatermark(n uint32) {
	c.watermark.Set(float64(n))
}

// SetLastConsidered records the highest batch number the IoSink has been
// told to expect.
func (c *Collector) SetLastConsidered(n uint32) {
	c.lastConsidered.Set(float64(n))
}

// ObserveBatchDuration records how long one batch took to execute and hand
// off to the output handler.
func (c *Collector) ObserveBatchDuration(seconds float64) {
	c.batchDuration.Observe(seconds)
}

// IncBatchError records a batch-processing failure at the given stage, e.g.
// "execute", "handle_l2_block", "handle_l1_batch", "io_sink".
func (c *Collector) IncBatchError(stage string) {
	c.batchErrors.WithLabelValues(stage).Inc()
}
