package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/seq"
)

func TestRunMetrics(t *testing.T) {
	ms := Defaults()
	obs := Observer(ms...)

	s := algo.NewBubbleSort([]float64{3, 2, 1})
	ts, err := seq.Drain(s, algo.StepBubbleSort, 0)
	require.NoError(t, err)

	obs.OnStep(seq.Frame{Kind: s.Kind(), State: s, Status: seq.Running})
	for i, tr := range ts {
		obs.OnStep(seq.Frame{Kind: s.Kind(), State: tr.Next, Status: seq.Running, Step: i + 1})
	}

	vals := Values(ms)
	assert.Equal(t, float64(len(ts)), vals["steps"])
	assert.Equal(t, 3.0, vals["comparisons"])
	assert.Equal(t, 3.0, vals["swaps"])
	assert.Equal(t, 0.0, vals["pauses"])

	for _, m := range ms {
		m.Reset()
		assert.Zero(t, m.Value(), m.Name())
	}
}

func TestPauses(t *testing.T) {
	p := NewPauses()
	for _, st := range []seq.Status{seq.Running, seq.Paused, seq.Paused, seq.Running, seq.Paused} {
		p.Observe(seq.Frame{Status: st})
	}
	assert.Equal(t, 2.0, p.Value())
}

func TestCollectorTracksRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	s, err := seq.New(algo.NewSelectionSort([]float64{4, 3, 2, 1}), algo.StepSelectionSort, seq.WithSleeper(seq.NoSleep))
	require.NoError(t, err)
	unsub := c.Track(s)
	defer unsub()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Wait(ctx))

	kind := string(algo.KindSelectionSort)
	assert.Equal(t, float64(s.Frame().Step), testutil.ToFloat64(c.steps.WithLabelValues(kind)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues(kind, "completed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.active.WithLabelValues(kind)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.comparisons))
}
