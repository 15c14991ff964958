// Package metrics collects run statistics: runtime memory snapshots and
// Prometheus metrics describing the workers and the aggregate result.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agbru/rangesum/internal/worker"
)

const namespace = "rangesum"

// RunRecorder owns a private Prometheus registry describing one run. It is
// safe for concurrent use: workers report through it as they finish.
type RunRecorder struct {
	registry *prometheus.Registry

	workersCompleted prometheus.Counter
	elementsSummed   prometheus.Counter
	workerDuration   prometheus.Histogram

	workerCount    prometheus.Gauge
	dataSize       prometheus.Gauge
	droppedTotal   prometheus.Gauge
	totalSum       prometheus.Gauge
	mean           prometheus.Gauge
	elapsedSeconds prometheus.Gauge
}

// NewRunRecorder creates a recorder with its own registry, including the
// standard Go runtime collector.
func NewRunRecorder() *RunRecorder {
	r := &RunRecorder{
		registry: prometheus.NewRegistry(),
		workersCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workers_completed_total",
			Help:      "Number of workers that returned a partial sum.",
		}),
		elementsSummed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elements_summed_total",
			Help:      "Number of range elements summed across all workers.",
		}),
		workerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_duration_seconds",
			Help:      "Wall-clock time each worker spent on its range.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		workerCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Number of workers spawned for the run.",
		}),
		dataSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "data_size",
			Help:      "Number of elements in the requested range.",
		}),
		droppedTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dropped_elements",
			Help:      "Elements left unsummed by the remainder policy.",
		}),
		totalSum: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_sum",
			Help:      "Sum of all partial sums (float64, may lose precision).",
		}),
		mean: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean",
			Help:      "Total sum divided by the data size.",
		}),
		elapsedSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "elapsed_seconds",
			Help:      "Wall-clock time from spawning the workers to aggregation.",
		}),
	}

	r.registry.MustRegister(
		r.workersCompleted, r.elementsSummed, r.workerDuration,
		r.workerCount, r.dataSize, r.droppedTotal, r.totalSum, r.mean, r.elapsedSeconds,
		collectors.NewGoCollector(),
	)
	return r
}

// WorkerDone records one finished worker.
func (r *RunRecorder) WorkerDone(res worker.PartialResult) {
	r.workersCompleted.Inc()
	r.elementsSummed.Add(float64(res.Range.Len()))
	r.workerDuration.Observe(res.Duration.Seconds())
}

// RunSummary is the aggregate view recorded once per run.
type RunSummary struct {
	Workers  int
	DataSize uint64
	Dropped  uint64
	TotalSum uint64
	Mean     float64
	Elapsed  time.Duration
}

// RunDone records the aggregate result of the run.
func (r *RunRecorder) RunDone(s RunSummary) {
	r.workerCount.Set(float64(s.Workers))
	r.dataSize.Set(float64(s.DataSize))
	r.droppedTotal.Set(float64(s.Dropped))
	r.totalSum.Set(float64(s.TotalSum))
	r.mean.Set(s.Mean)
	r.elapsedSeconds.Set(s.Elapsed.Seconds())
}

// Gatherer exposes the recorder's registry.
func (r *RunRecorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the registry in the Prometheus text exposition
// format, atomically, to path (node_exporter textfile collector layout).
func (r *RunRecorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
