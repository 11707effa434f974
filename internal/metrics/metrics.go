// Package metrics records batch statistics in a Prometheus registry. The
// registry is private to each Collector so runs and tests never share state;
// a CLI run exports it once at exit with WriteTextfile.
package metrics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/diffsquare/diffsquare/internal/types"
)

// Collector implements engine.Metrics.
type Collector struct {
	reg        *prometheus.Registry
	started    prometheus.Counter
	inFlight   prometheus.Gauge
	jobs       *prometheus.CounterVec
	iterations prometheus.Counter
	sqrtCalls  prometheus.Counter
	duration   *prometheus.HistogramVec
}

// New creates a Collector with its own registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	return &Collector{
		reg: reg,
		started: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "diffsquare_jobs_started_total",
			Help: "Total number of factorization jobs started",
		}),
		inFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "diffsquare_jobs_in_flight",
			Help: "Number of factorization jobs currently running",
		}),
		jobs: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "diffsquare_jobs_total",
				Help: "Total number of finished jobs by outcome",
			},
			[]string{"outcome"},
		),
		iterations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "diffsquare_iterations_reached_total",
			Help: "Sum of the final iteration counts of finished jobs",
		}),
		sqrtCalls: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "diffsquare_sqrt_calls_total",
			Help: "Exact square-root evaluations that passed the residue filter",
		}),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "diffsquare_job_duration_seconds",
				Help: "Wall-clock duration of finished jobs by outcome",
				Buckets: []float64{
					0.001, // 1ms - small moduli
					0.01,
					0.1,
					1,
					10,
					60,
					600, // 10m
					3600,
				},
			},
			[]string{"outcome"},
		),
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// JobStarted records a job entering a worker.
func (c *Collector) JobStarted() {
	c.started.Inc()
	c.inFlight.Inc()
}

// JobFinished records the outcome of a job.
func (c *Collector) JobFinished(r types.JobResult) {
	c.inFlight.Dec()
	outcome := string(r.Outcome)
	c.jobs.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(r.Elapsed.Seconds())
	c.sqrtCalls.Add(float64(r.SqrtCalls))
	if r.Iteration != nil {
		f, _ := new(big.Float).SetInt(r.Iteration).Float64()
		c.iterations.Add(f)
	}
}

// WriteTextfile writes the registry in the Prometheus text format, suitable
// for the node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.reg)
}
