// Package observability implements the engine's lifecycle hooks with
// Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/treadle"
)

// Metrics holds the engine metrics. Wire them with Hooks:
//
//	reg := prometheus.NewRegistry()
//	m := observability.NewMetrics(reg)
//	eng := treadle.New(treadle.WithLifecycleHooks(m.Hooks()))
type Metrics struct {
	spawned      prometheus.Counter
	completed    prometheus.Counter
	cancelled    prometheus.Counter
	live         prometheus.Gauge
	tickDuration prometheus.Histogram
}

// NewMetrics creates and registers the engine metrics. A nil registerer
// uses the global default.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		spawned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "treadle_tasks_spawned_total",
			Help: "Total number of tasks spawned",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "treadle_tasks_completed_total",
			Help: "Total number of tasks that completed normally",
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "treadle_tasks_cancelled_total",
			Help: "Total number of tasks that were cancelled",
		}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "treadle_tasks_live",
			Help: "Number of tasks currently able to run",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "treadle_tick_duration_seconds",
			Help:    "Duration of engine ticks",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
	reg.MustRegister(m.spawned, m.completed, m.cancelled, m.live, m.tickDuration)
	return m
}

// Hooks returns lifecycle hooks that feed these metrics.
func (m *Metrics) Hooks() treadle.LifecycleHooks {
	return treadle.LifecycleHooks{
		OnSpawn: func(*treadle.TaskEvent) {
			m.spawned.Inc()
			m.live.Inc()
		},
		OnComplete: func(*treadle.TaskEvent) {
			m.completed.Inc()
			m.live.Dec()
		},
		OnCancel: func(*treadle.TaskEvent) {
			m.cancelled.Inc()
			m.live.Dec()
		},
		OnTick: func(ev *treadle.TickEvent) {
			m.tickDuration.Observe(ev.Elapsed.Seconds())
		},
	}
}
