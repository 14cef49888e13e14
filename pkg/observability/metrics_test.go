package observability_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/treadle"
	"github.com/aretw0/treadle/pkg/action"
	"github.com/aretw0/treadle/pkg/observability"
	"github.com/aretw0/treadle/pkg/state"
)

func TestMetrics_TrackTaskLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	eng := treadle.New(treadle.WithLifecycleHooks(m.Hooks()))

	eng.Spawn(func(rt *treadle.Routine) {})
	h := eng.Spawn(func(rt *treadle.Routine) {
		treadle.Do(rt, action.Until(func(*state.Store) bool { return false }))
	})
	eng.Advance()
	h.Cancel()

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)

	count := func(name string) float64 {
		for _, mf := range families {
			if mf.GetName() == name {
				metric := mf.GetMetric()[0]
				if metric.GetCounter() != nil {
					return metric.GetCounter().GetValue()
				}
				return metric.GetGauge().GetValue()
			}
		}
		return -1
	}
	assert.Equal(t, 2.0, count("treadle_tasks_spawned_total"))
	assert.Equal(t, 1.0, count("treadle_tasks_completed_total"))
	assert.Equal(t, 1.0, count("treadle_tasks_cancelled_total"))
	assert.Equal(t, 0.0, count("treadle_tasks_live"))

	tickSamples, err := testutil.GatherAndCount(reg, "treadle_tick_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, tickSamples)
}
