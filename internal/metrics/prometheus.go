package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/seq"
)

// Collector exports sequencer activity to Prometheus.
type Collector struct {
	steps       *prometheus.CounterVec
	runs        *prometheus.CounterVec
	active      *prometheus.GaugeVec
	comparisons *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "algoviz",
			Subsystem: "sequencer",
			Name:      "steps_total",
			Help:      "Committed steps by algorithm",
		}, []string{"algorithm"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "algoviz",
			Subsystem: "sequencer",
			Name:      "runs_finished_total",
			Help:      "Finished runs by algorithm and final status",
		}, []string{"algorithm", "status"}),
		active: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "algoviz",
			Subsystem: "sequencer",
			Name:      "active_runs",
			Help:      "Runs currently running or paused",
		}, []string{"algorithm"}),
		comparisons: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "algoviz",
			Subsystem: "sequencer",
			Name:      "comparisons_per_run",
			Help:      "Comparisons made by completed runs",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"algorithm"}),
	}
}

// Track subscribes to p and returns the unsubscribe function.
func (c *Collector) Track(p seq.Player) func() {
	var (
		lastStep int
		live     bool
	)
	return p.Subscribe(seq.ObserverFunc(func(f seq.Frame) {
		kind := string(f.Kind)
		if f.Step > lastStep {
			c.steps.WithLabelValues(kind).Add(float64(f.Step - lastStep))
		}
		lastStep = f.Step

		nowLive := f.Status == seq.Running || f.Status == seq.Paused
		switch {
		case nowLive && !live:
			c.active.WithLabelValues(kind).Inc()
		case !nowLive && live:
			c.active.WithLabelValues(kind).Dec()
			if f.Status.Finished() {
				c.runs.WithLabelValues(kind, f.Status.String()).Inc()
			}
			if f.Status == seq.Completed {
				if ct, ok := f.State.(algo.Counter); ok {
					n, _ := ct.Counts()
					c.comparisons.WithLabelValues(kind).Observe(float64(n))
				}
			}
		}
		live = nowLive
	}))
}
