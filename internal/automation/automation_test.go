package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/algoviz/internal/experiment"
	"github.com/san-kum/algoviz/internal/seq"
)

const scenarioYAML = `
name: tour
description: one of each
seed: 7
steps:
  - algorithm: binary_search
    array: [10, 22, 35, 40, 51, 58, 73, 88]
    target: 58
  - algorithm: bubble_sort
    size: 6
    save_as: bubble
  - algorithm: stack
    max_capacity: 2
    ops:
      - {op: push, value: "1"}
      - {op: push, value: "2"}
      - {op: pop}
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "tour", sc.Name)
	require.Len(t, sc.Steps, 3)
	assert.Equal(t, "bubble_sort", sc.Steps[1].Algorithm)
	assert.Equal(t, "bubble", sc.Steps[1].SaveAs)
	require.NotNil(t, sc.Steps[0].Target)
	assert.Equal(t, 58.0, *sc.Steps[0].Target)
	assert.Len(t, sc.Steps[2].Ops, 3)
}

func TestParseScenarioRejectsEmpty(t *testing.T) {
	_, err := ParseScenario([]byte("name: nothing\n"))
	assert.ErrorIs(t, err, seq.ErrValidation)
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	require.NoError(t, err)

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.Equal(t, seq.Completed, r.Status, r.Algorithm)
	}
	assert.Equal(t, "Found 58 at index 5", results[0].Annotation)
	assert.Equal(t, 7, results[0].Steps)
	assert.Len(t, results[1].Input, 6)
}

func TestRunScenarioStopsOnError(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{}}}
	sc.Steps[0].Algorithm = "linear_search"

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry())
	assert.Error(t, err)
	assert.Empty(t, results)
}

func TestCompare(t *testing.T) {
	reg := experiment.NewRegistry()
	array := []float64{5, 1, 4, 2, 8, 3}

	out, err := Compare(context.Background(), reg, reg.ListSorts(), array)
	require.NoError(t, err)
	require.Len(t, out, len(reg.ListSorts()))

	for i, c := range out {
		assert.Equal(t, reg.ListSorts()[i], c.Algorithm)
		assert.Equal(t, seq.Completed, c.Status)
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 8}, c.Final, c.Algorithm)
	}
	assert.Equal(t, []float64{5, 1, 4, 2, 8, 3}, array, "input must not be mutated")
}

func TestCompareUnknown(t *testing.T) {
	_, err := Compare(context.Background(), experiment.NewRegistry(), []string{"bogo_sort"}, []float64{2, 1})
	assert.Error(t, err)
}

func TestRunSweep(t *testing.T) {
	reg := experiment.NewRegistry()
	res, err := RunSweep(context.Background(), &Sweep{Algorithm: "bubble_sort", MinSize: 2, MaxSize: 5, Trials: 3, Seed: 1}, reg)
	require.NoError(t, err)
	require.Len(t, res, 4)

	for _, r := range res {
		// bubble sort always compares every pair once
		assert.Equal(t, float64(r.Size*(r.Size-1)/2), r.Comparisons)
	}

	_, err = RunSweep(context.Background(), &Sweep{Algorithm: "binary_search", MinSize: 2, MaxSize: 4}, reg)
	assert.ErrorIs(t, err, seq.ErrValidation)
}
