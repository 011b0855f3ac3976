package experiment

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/ds"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/seq"
)

func ptr(v float64) *float64 { return &v }

func TestRegistryLists(t *testing.T) {
	r := NewRegistry()
	names := r.ListAlgorithms()
	assert.Equal(t, []string{
		"binary_search", "bubble_sort", "linear_search", "list", "list_search",
		"merge_sort", "queue", "selection_sort", "stack",
	}, names)
	for _, n := range names {
		assert.NotEmpty(t, r.Describe(n), n)
	}
	assert.True(t, r.NeedsTarget("binary_search"))
	assert.False(t, r.NeedsTarget("merge_sort"))
	assert.True(t, r.IsContainer("queue"))
	assert.True(t, r.IsContainer("list"))
	assert.False(t, r.IsContainer("list_search"))
}

func TestRegistryBuild(t *testing.T) {
	r := NewRegistry()
	ops, _ := ds.ParseOps([]string{"push", "1"})

	tests := []struct {
		name string
		in   Inputs
		kind seq.Kind
	}{
		{"binary_search", Inputs{Array: []float64{1, 2, 3}, Target: ptr(2)}, algo.KindBinarySearch},
		{"linear_search", Inputs{Array: []float64{3, 1}, Target: ptr(1)}, algo.KindLinearSearch},
		{"bubble_sort", Inputs{Array: []float64{3, 1}}, algo.KindBubbleSort},
		{"selection_sort", Inputs{Array: []float64{3, 1}}, algo.KindSelectionSort},
		{"merge_sort", Inputs{Array: []float64{3, 1}}, algo.KindMergeSort},
		{"list_search", Inputs{Array: []float64{3, 1}, Target: ptr(1)}, ds.KindListSearch},
		{"stack", Inputs{Ops: ops}, ds.KindStackScript},
		{"queue", Inputs{Ops: []ds.Op{{Name: "enqueue", Value: "x"}}}, ds.KindQueueScript},
		{"list", Inputs{Array: []float64{3}, Ops: []ds.Op{{Name: "find", Value: "3"}}}, ds.KindListScript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Build(tt.name, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, p.Kind())
			assert.Equal(t, seq.Idle, p.Frame().Status)
		})
	}
}

func TestRegistryBuildErrors(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("bogo_sort", Inputs{})
	assert.EqualError(t, err, "unknown algorithm: bogo_sort")

	_, err = r.Build("binary_search", Inputs{Array: []float64{1, 2}})
	require.ErrorIs(t, err, seq.ErrValidation)
	assert.Equal(t, "Enter a target value.", seq.Message(err))

	p, err := r.Build("bubble_sort", Inputs{})
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, seq.ErrValidation))
}

func TestExperimentRun(t *testing.T) {
	cfg, err := config.FromPreset("binary_search", "example")
	require.NoError(t, err)

	ecfg, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	ecfg.Headless = true
	assert.Equal(t, 1400*time.Millisecond, ecfg.Delay)

	e := New(ecfg)
	require.NoError(t, e.Setup(NewRegistry(), metrics.Defaults()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := e.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, seq.Completed, res.Status)
	assert.Equal(t, 7, res.Steps)
	assert.Equal(t, 7.0, res.Metrics["steps"])
	assert.Equal(t, 2.0, res.Metrics["comparisons"])
	assert.Equal(t, "Found 58 at index 5", res.Annotation)

	final, ok := res.Final.State.(algo.BinarySearchState)
	require.True(t, ok)
	assert.Equal(t, 5, final.FoundIndex)
	assert.NotEmpty(t, res.Frames)
}

func TestExperimentRunNotSetup(t *testing.T) {
	_, err := New(Config{}).Run(context.Background())
	assert.Error(t, err)
}

func TestFromConfigGeneratesArray(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Algorithm = "binary_search"
	cfg.Size = 40
	cfg.Target = ptr(50)

	ecfg, err := FromConfig(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, ecfg.Inputs.Array, 16)
	assert.IsNonDecreasing(t, ecfg.Inputs.Array)
	assert.Equal(t, 10, ecfg.Inputs.Capacity)
}

func TestFromConfigRejectsInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Algorithm = "nope"
	_, err := FromConfig(cfg, nil)
	assert.ErrorIs(t, err, seq.ErrValidation)
}

func TestConfigFileNaNRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.yaml")
	data := "algorithm: bubble_sort\narray: [30, .nan, 10, 20]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	ecfg, err := FromConfig(cfg, nil)
	require.NoError(t, err)

	_, err = NewRegistry().Build(ecfg.Algorithm, ecfg.Inputs)
	assert.ErrorIs(t, err, seq.ErrValidation)

	cfg = config.DefaultConfig()
	cfg.Algorithm = "linear_search"
	cfg.Array = []float64{1, 2}
	nan := math.NaN()
	cfg.Target = &nan
	ecfg, err = FromConfig(cfg, nil)
	require.NoError(t, err)
	_, err = NewRegistry().Build(ecfg.Algorithm, ecfg.Inputs)
	assert.ErrorIs(t, err, seq.ErrValidation)
}

func TestListScriptStartsFromGivenNodes(t *testing.T) {
	cfg, err := config.FromPreset("list", "edit")
	require.NoError(t, err)
	ecfg, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 8, 13}, ecfg.Inputs.Array)

	cfg = config.DefaultConfig()
	cfg.Algorithm = "list"
	cfg.Ops = []ds.Op{{Name: "isempty"}}
	ecfg, err = FromConfig(cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, ecfg.Inputs.Array)
}
