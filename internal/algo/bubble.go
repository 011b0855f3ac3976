package algo

import "github.com/san-kum/algoviz/internal/seq"

type SortPhase string

const (
	PhaseStart   SortPhase = "start"
	PhaseCompare SortPhase = "compare"
	PhaseSwap    SortPhase = "swap"
	PhasePassEnd SortPhase = "pass_end"
	PhaseMark    SortPhase = "mark"
	PhaseDone    SortPhase = "done"
)

type BubbleSortState struct {
	Array []float64 `json:"array"`
	I     int       `json:"i"`
	J     int       `json:"j"`
	Phase SortPhase `json:"phase"`
	// SortedFrom is the first index known to be in its final place.
	SortedFrom  int    `json:"sorted_from"`
	Active      [2]int `json:"active"`
	Comparisons int    `json:"comparisons"`
	Swaps       int    `json:"swaps"`
}

func NewBubbleSort(array []float64) BubbleSortState {
	return BubbleSortState{Array: clone(array)}.Reset()
}

func (s BubbleSortState) Kind() seq.Kind { return KindBubbleSort }

func (s BubbleSortState) Clone() BubbleSortState {
	s.Array = clone(s.Array)
	return s
}

func (s BubbleSortState) Reset() BubbleSortState {
	return BubbleSortState{
		Array:      clone(s.Array),
		Phase:      PhaseCompare,
		SortedFrom: len(s.Array),
		Active:     [2]int{-1, -1},
	}
}

func (s BubbleSortState) Clear() BubbleSortState {
	s.Array = nil
	return s.Reset()
}

func (s BubbleSortState) Validate() error { return validateArray(s.Array) }

func (s BubbleSortState) Values() []float64 { return s.Array }

func (s BubbleSortState) Counts() (int, int) { return s.Comparisons, s.Swaps }

func (s BubbleSortState) SortedCount() int { return len(s.Array) - s.SortedFrom }

// StepBubbleSort performs one comparison, one swap or one end-of-pass
// marking per call.
func StepBubbleSort(s BubbleSortState) seq.Transition[BubbleSortState] {
	n := len(s.Array)
	if s.I >= n-1 {
		s.SortedFrom = 0
		s.Active = [2]int{-1, -1}
		s.Phase = PhaseDone
		return done(s, "Sorting completed.")
	}

	switch s.Phase {
	case PhaseCompare:
		a, b := s.J, s.J+1
		s.Active = [2]int{a, b}
		s.Comparisons++
		if s.Array[a] > s.Array[b] {
			s.Phase = PhaseSwap
			return next(s, "Comparing %s and %s: swapping required", Format(s.Array[a]), Format(s.Array[b]))
		}
		s.advance()
		return next(s, "Comparing %s and %s", Format(s.Array[a]), Format(s.Array[b]))

	case PhaseSwap:
		a, b := s.J, s.J+1
		s.Array[a], s.Array[b] = s.Array[b], s.Array[a]
		s.Swaps++
		s.advance()
		return next(s, "Swapping %s <-> %s", Format(s.Array[b]), Format(s.Array[a]))

	case PhasePassEnd:
		s.SortedFrom = n - s.I - 1
		s.I++
		s.J = 0
		s.Active = [2]int{-1, -1}
		if s.I >= n-1 {
			s.SortedFrom = 0
			s.Phase = PhaseDone
			return done(s, "Pass completed: index %d sorted. Sorting completed.", n-s.I)
		}
		s.Phase = PhaseCompare
		return next(s, "Pass completed: index %d sorted.", s.SortedFrom)
	}
	return done(s, "Sorting completed.")
}

func (s *BubbleSortState) advance() {
	s.J++
	if s.J >= len(s.Array)-s.I-1 {
		s.Phase = PhasePassEnd
	} else {
		s.Phase = PhaseCompare
	}
}
