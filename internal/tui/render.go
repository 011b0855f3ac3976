package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/ds"
	"github.com/san-kum/algoviz/internal/seq"
)

const cellWidth = 5

// RenderState draws the algorithm-specific part of a frame. now decides
// which timed container highlights are still showing.
func RenderState(v seq.View, now time.Time) string {
	switch st := v.(type) {
	case algo.LinearSearchState:
		return renderLinear(st)
	case algo.BinarySearchState:
		return renderBinary(st)
	case algo.BubbleSortState:
		return renderBubble(st)
	case algo.SelectionSortState:
		return renderSelection(st)
	case algo.MergeSortState:
		return renderMerge(st)
	case ds.ListSearchState:
		return renderList(st)
	case ds.StackScriptState:
		return renderStack(st, now)
	case ds.QueueScriptState:
		return renderQueue(st, now)
	case ds.ListScriptState:
		return renderListScript(st)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func cell(label string, style lipgloss.Style) string {
	return style.Render(fmt.Sprintf("%*s", cellWidth, label+" "))
}

// row renders values as cells with an index line below. styleAt picks the
// style of each index.
func row(values []float64, styleAt func(i int) lipgloss.Style) string {
	var cells, idx strings.Builder
	for i, v := range values {
		cells.WriteString(cell(algo.Format(v), styleAt(i)))
		idx.WriteString(dimmer.Render(fmt.Sprintf("%*d ", cellWidth-1, i)))
	}
	return bars(values, styleAt) + "\n" + cells.String() + "\n" + idx.String()
}

// bars draws a one-line height profile of values.
func bars(values []float64, styleAt func(i int) lipgloss.Style) string {
	if len(values) == 0 {
		return ""
	}
	levels := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := slices.Min(values), slices.Max(values)
	span := hi - lo
	if span == 0 {
		span = 1
	}
	var b strings.Builder
	for i, v := range values {
		l := int((v - lo) / span * float64(len(levels)-1))
		bar := strings.Repeat(string(levels[l]), cellWidth-1) + " "
		st := styleAt(i)
		if st.GetBackground() != (lipgloss.NoColor{}) {
			st = lipgloss.NewStyle().Foreground(st.GetBackground())
		}
		b.WriteString(st.Render(bar))
	}
	return b.String()
}

func renderLinear(s algo.LinearSearchState) string {
	out := row(s.Array, func(i int) lipgloss.Style {
		switch {
		case i == s.FoundIndex:
			return settled
		case i == s.Current:
			return active
		case s.Current >= 0 && i < s.Current:
			return faded
		}
		return plain
	})
	return out + "\n\n" + dim.Render(fmt.Sprintf("target %s  comparisons %d", algo.Format(s.Target), s.Comparisons))
}

func renderBinary(s algo.BinarySearchState) string {
	out := row(s.Array, func(i int) lipgloss.Style {
		switch {
		case i == s.FoundIndex:
			return settled
		case i == s.Mid:
			return active
		case s.Low >= 0 && (i < s.Low || i > s.High):
			return faded
		}
		return plain
	})
	info := fmt.Sprintf("target %s  low %d  high %d  mid %d  comparisons %d",
		algo.Format(s.Target), s.Low, s.High, s.Mid, s.Comparisons)
	if len(s.Visited) > 0 {
		info += fmt.Sprintf("  visited %v", s.Visited)
	}
	return out + "\n\n" + dim.Render(info)
}

func renderBubble(s algo.BubbleSortState) string {
	out := row(s.Array, func(i int) lipgloss.Style {
		switch {
		case i >= s.SortedFrom:
			return settled
		case i == s.Active[0] || i == s.Active[1]:
			if s.Phase == algo.PhaseSwap {
				return pivot
			}
			return active
		}
		return plain
	})
	return out + "\n\n" + counts(s.Comparisons, s.Swaps, s.SortedCount(), len(s.Array))
}

func renderSelection(s algo.SelectionSortState) string {
	out := row(s.Array, func(i int) lipgloss.Style {
		switch {
		case i <= s.SortedUpto:
			return settled
		case i == s.SwapPair[0] || i == s.SwapPair[1]:
			return pivot
		case i == s.MinIndex:
			return pivot
		case i == s.J:
			return active
		}
		return plain
	})
	return out + "\n\n" + counts(s.Comparisons, s.Swaps, s.SortedCount(), len(s.Array))
}

func counts(comparisons, swaps, sorted, n int) string {
	return dim.Render(fmt.Sprintf("comparisons %d  swaps %d  sorted %d/%d", comparisons, swaps, sorted, n))
}

func renderMerge(s algo.MergeSortState) string {
	var b strings.Builder
	for l := 0; l < s.Depth(); l++ {
		b.WriteString(dimmer.Render(fmt.Sprintf("L%-2d ", l)))
		for _, n := range s.Level(l) {
			items := n.Items
			style := dim
			if n.Merged != nil {
				items = n.Merged
				style = green
			}
			if s.Active >= 0 && s.Active < len(s.Nodes) && s.Nodes[s.Active].Lo == n.Lo && s.Nodes[s.Active].Level == n.Level {
				style = yellow
			}
			b.WriteString(style.Render(algo.FormatAll(items)) + " ")
		}
		b.WriteString("\n")
	}
	if len(s.Buffer) > 0 {
		b.WriteString("\n" + dim.Render("merging ") + magenta.Render(algo.FormatAll(s.Buffer)) + "\n")
	}
	if s.Result != nil {
		b.WriteString("\n" + dim.Render("result  ") + green.Render(algo.FormatAll(s.Result)) + "\n")
	}
	b.WriteString("\n" + dim.Render(fmt.Sprintf("phase %s  comparisons %d", s.Phase, s.Comparisons)))
	return b.String()
}

func renderList(s ds.ListSearchState) string {
	var b strings.Builder
	b.WriteString(dim.Render("head "))
	for i, v := range s.Nodes {
		style := plain
		switch {
		case i == s.FoundIndex:
			style = settled
		case i == s.Current:
			style = active
		case s.Current >= 0 && i < s.Current:
			style = faded
		}
		b.WriteString(style.Render("["+algo.Format(v)+"]") + dimmer.Render(" → "))
	}
	b.WriteString(dim.Render("null"))
	return b.String() + "\n\n" + dim.Render(fmt.Sprintf("target %s  comparisons %d", algo.Format(s.Target), s.Comparisons))
}

func renderListScript(s ds.ListScriptState) string {
	if s.List == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(dim.Render("head "))
	for i, v := range s.List.Values() {
		style := plain
		if i == s.Marked {
			style = active
			if s.Deleting {
				style = pivot
			}
		}
		b.WriteString(style.Render("["+algo.Format(v)+"]") + dimmer.Render(" → "))
	}
	b.WriteString(dim.Render("null") + "\n")
	b.WriteString(dim.Render(fmt.Sprintf("size %d/%d  ", s.List.Len(), s.List.Cap())))
	b.WriteString(scriptProgress(s.Ops, s.Pos, s.Failures, s.LastError))
	return b.String()
}

func renderStack(s ds.StackScriptState, now time.Time) string {
	if s.Stack == nil {
		return ""
	}
	values := s.Stack.Values()
	h, lit := s.Stack.Highlight()
	if lit && !h.Active(now) {
		lit = false
	}

	var b strings.Builder
	if lit && h.Index < 0 {
		b.WriteString(alarm.Render(" "+h.Kind+" ") + "\n")
	}
	for i := len(values) - 1; i >= 0; i-- {
		style := plain
		if lit && h.Index == i {
			style = active
		}
		label := "    "
		if i == len(values)-1 {
			label = "top "
		}
		b.WriteString(dimmer.Render(label) + style.Render(fmt.Sprintf("│ %-8s│", values[i])) + "\n")
	}
	b.WriteString(dimmer.Render("    └─────────┘") + "\n")
	b.WriteString(dim.Render(fmt.Sprintf("size %d/%d  ", s.Stack.Len(), s.Stack.Cap())))
	b.WriteString(scriptProgress(s.Ops, s.Pos, s.Failures, s.LastError))
	return b.String()
}

func renderQueue(s ds.QueueScriptState, now time.Time) string {
	if s.Queue == nil {
		return ""
	}
	var b strings.Builder
	if h, ok := s.Queue.Track(); ok && h.Active(now) {
		b.WriteString(alarm.Render(" "+h.Kind+" ") + "\n")
	}
	b.WriteString(dim.Render("front "))
	for _, n := range s.Queue.Nodes() {
		style := plain
		switch n.Status {
		case ds.StatusJustEnqueued:
			style = settled
		case ds.StatusDequeuing:
			style = pivot
		}
		b.WriteString(style.Render(fmt.Sprintf("[%s]", n.Value)) + " ")
	}
	b.WriteString(dim.Render("rear") + "\n")
	b.WriteString(dim.Render(fmt.Sprintf("size %d/%d  ", s.Queue.Len(), s.Queue.Cap())))
	b.WriteString(scriptProgress(s.Ops, s.Pos, s.Failures, s.LastError))
	return b.String()
}

func scriptProgress(ops []ds.Op, pos, failures int, lastErr string) string {
	var b strings.Builder
	b.WriteString(dim.Render(fmt.Sprintf("op %d/%d  failures %d", min(pos, len(ops)), len(ops), failures)))
	if pos < len(ops) {
		b.WriteString("  " + dim.Render("next ") + white.Render(ops[pos].String()))
	}
	if lastErr != "" {
		b.WriteString("\n" + red.Render(lastErr))
	}
	return b.String()
}

// Header is the one-line status summary shown above a frame.
func Header(f seq.Frame) string {
	name := f.Status.String()
	icon := "●"
	if f.Status == seq.Paused || f.Status == seq.Idle {
		icon = "○"
	}
	st := statusStyle(name)
	return fmt.Sprintf("%s %s  %s  %s", st.Render(icon), cyan.Render(string(f.Kind)), st.Render(name), dim.Render(fmt.Sprintf("step %d", f.Step)))
}
