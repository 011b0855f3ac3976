package algo

import "github.com/san-kum/algoviz/internal/seq"

type SelectionSortState struct {
	Array       []float64 `json:"array"`
	I           int       `json:"i"`
	J           int       `json:"j"`
	MinIndex    int       `json:"min_index"`
	Phase       SortPhase `json:"phase"`
	SortedUpto  int       `json:"sorted_upto"`
	SwapPair    [2]int    `json:"swap_pair"`
	Comparisons int       `json:"comparisons"`
	Swaps       int       `json:"swaps"`
}

func NewSelectionSort(array []float64) SelectionSortState {
	return SelectionSortState{Array: clone(array)}.Reset()
}

func (s SelectionSortState) Kind() seq.Kind { return KindSelectionSort }

func (s SelectionSortState) Clone() SelectionSortState {
	s.Array = clone(s.Array)
	return s
}

func (s SelectionSortState) Reset() SelectionSortState {
	return SelectionSortState{
		Array:      clone(s.Array),
		J:          -1,
		MinIndex:   -1,
		Phase:      PhaseStart,
		SortedUpto: -1,
		SwapPair:   [2]int{-1, -1},
	}
}

func (s SelectionSortState) Clear() SelectionSortState {
	s.Array = nil
	return s.Reset()
}

func (s SelectionSortState) Validate() error { return validateArray(s.Array) }

func (s SelectionSortState) Values() []float64 { return s.Array }

func (s SelectionSortState) Counts() (int, int) { return s.Comparisons, s.Swaps }

func (s SelectionSortState) SortedCount() int { return s.SortedUpto + 1 }

// StepSelectionSort walks each pass as: start, one step per scanned index,
// an optional swap and the marking of index i.
func StepSelectionSort(s SelectionSortState) seq.Transition[SelectionSortState] {
	n := len(s.Array)
	switch s.Phase {
	case PhaseStart:
		s.MinIndex = s.I
		s.J = s.I
		s.SwapPair = [2]int{-1, -1}
		s.Phase = s.afterScan()
		return next(s, "Pass %d: starting minimum = %s", s.I+1, Format(s.Array[s.I]))

	case PhaseCompare:
		s.J++
		s.Comparisons++
		v, m := s.Array[s.J], s.Array[s.MinIndex]
		msg := "Comparing " + Format(v) + " with current min " + Format(m)
		if v < m {
			s.MinIndex = s.J
			msg = "New minimum found: " + Format(v)
		}
		s.Phase = s.afterScan()
		return next(s, "%s", msg)

	case PhaseSwap:
		a, b := s.I, s.MinIndex
		msg := "Swapping " + Format(s.Array[a]) + " <-> " + Format(s.Array[b])
		s.Array[a], s.Array[b] = s.Array[b], s.Array[a]
		s.Swaps++
		s.SwapPair = [2]int{a, b}
		s.MinIndex = a
		s.Phase = PhaseMark
		return next(s, "%s", msg)

	case PhaseMark:
		s.SortedUpto = s.I
		s.SwapPair = [2]int{-1, -1}
		s.J, s.MinIndex = -1, -1
		if s.I >= n-1 {
			s.Phase = PhaseDone
			return done(s, "Index %d sorted. Array fully sorted.", s.I)
		}
		s.I++
		s.Phase = PhaseStart
		return next(s, "Index %d sorted.", s.SortedUpto)
	}
	return done(s, "Array fully sorted.")
}

// afterScan picks the phase following the current scan position.
func (s SelectionSortState) afterScan() SortPhase {
	if s.J+1 < len(s.Array) {
		return PhaseCompare
	}
	if s.MinIndex != s.I {
		return PhaseSwap
	}
	return PhaseMark
}
