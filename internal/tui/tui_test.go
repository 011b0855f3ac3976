package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/ds"
	"github.com/san-kum/algoviz/internal/experiment"
	"github.com/san-kum/algoviz/internal/seq"
)

func TestRenderStateArrays(t *testing.T) {
	now := time.Now()

	out := RenderState(algo.NewBinarySearch([]float64{10, 22, 35}, 22), now)
	assert.Contains(t, out, "22")
	assert.Contains(t, out, "target 22")

	out = RenderState(algo.NewBubbleSort([]float64{3, 1, 2}), now)
	assert.Contains(t, out, "sorted 0/3")

	out = RenderState(algo.NewSelectionSort([]float64{3, 1, 2}), now)
	assert.Contains(t, out, "swaps 0")

	out = RenderState(algo.NewLinearSearch([]float64{4, 5}, 9), now)
	assert.Contains(t, out, "target 9")
}

func TestRenderMergeLevels(t *testing.T) {
	ts, err := seq.Drain(algo.NewMergeSort([]float64{4, 3, 2, 1}), algo.StepMergeSort, 0)
	require.NoError(t, err)
	final, ok := seq.Final(ts)
	require.True(t, ok)

	out := RenderState(final, time.Now())
	assert.Contains(t, out, "L0")
	assert.Contains(t, out, "L2")
	assert.Contains(t, out, "result")
	assert.Contains(t, out, algo.FormatAll([]float64{1, 2, 3, 4}))
}

func TestRenderContainers(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	ops, err := ds.ParseOps([]string{"push", "1", "push", "2"})
	require.NoError(t, err)
	st := ds.NewStackScript(2, clock, ops)
	ts, err := seq.Drain(st, ds.StepStackScript, 0)
	require.NoError(t, err)
	final, _ := seq.Final(ts)

	out := RenderState(final, now)
	assert.Contains(t, out, "top")
	assert.Contains(t, out, "size 2/2")

	l := ds.NewLinkedList(4)
	require.NoError(t, l.InsertTail(7))
	out = RenderState(ds.NewListSearch(l, 7), now)
	assert.Contains(t, out, "[7]")
	assert.Contains(t, out, "null")

	lops, err := ds.ParseOps([]string{"insert_head", "3", "find", "7"})
	require.NoError(t, err)
	ls, err := ds.NewListScript(4, []float64{7}, lops)
	require.NoError(t, err)
	ts2, err := seq.Drain(ls, ds.StepListScript, 0)
	require.NoError(t, err)
	lfinal, _ := seq.Final(ts2)
	out = RenderState(lfinal, now)
	assert.Contains(t, out, "[3]")
	assert.Contains(t, out, "size 2/4")
	assert.Contains(t, out, "op 2/2")
}

func TestLiveRendererAlwaysDrawsFinalFrame(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, 1, false)

	state := algo.NewBubbleSort([]float64{2, 1})
	r.OnStep(seq.Frame{Kind: algo.KindBubbleSort, State: state, Status: seq.Running, Step: 1, Annotation: "first"})
	r.OnStep(seq.Frame{Kind: algo.KindBubbleSort, State: state, Status: seq.Running, Step: 2, Annotation: "throttled"})
	r.OnStep(seq.Frame{Kind: algo.KindBubbleSort, State: state, Status: seq.Completed, Step: 3, Annotation: "last"})

	out := buf.String()
	assert.Contains(t, out, "first")
	assert.NotContains(t, out, "throttled")
	assert.Contains(t, out, "last")
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayerKeys(t *testing.T) {
	target := 35.0
	m, err := NewPlayer(experiment.NewRegistry(), experiment.Config{
		Algorithm: "binary_search",
		Inputs:    experiment.Inputs{Array: []float64{10, 22, 35}, Target: &target},
		Delay:     time.Hour,
	})
	require.NoError(t, err)
	defer m.teardown()

	assert.Contains(t, m.View(), "binary_search")
	assert.Equal(t, seq.MaxDelay, m.delay)
	assert.Equal(t, seq.MaxDelay, m.player.Delay())

	m.Update(key(" "))
	assert.Equal(t, seq.Running, m.player.Frame().Status)

	m.Update(key("+"))
	assert.NotEmpty(t, m.message, "speed changes are rejected while running")

	m.Update(key("p"))
	assert.Equal(t, seq.Paused, m.player.Frame().Status)

	m.Update(key("n"))
	assert.Empty(t, m.message)

	m.Update(key("r"))
	assert.Equal(t, seq.Idle, m.player.Frame().Status)
	assert.Equal(t, 0, m.player.Frame().Step)

	m.Update(key("t"))
	require.Equal(t, editTarget, m.editing)
	m.Update(key("abc"))
	m.Update(key("enter"))
	assert.Equal(t, "Target must be a number.", m.message)

	m.Update(key("e"))
	require.Equal(t, editArray, m.editing)
	m.Update(key("esc"))
	assert.Equal(t, editNone, m.editing)

	m.Update(key("q"))
	assert.Equal(t, screenMenu, m.screen)
	assert.Nil(t, m.player)
	assert.True(t, strings.Contains(m.View(), "a l g o v i z"))
}
