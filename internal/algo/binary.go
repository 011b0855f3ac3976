package algo

import (
	"fmt"
	"slices"

	"github.com/san-kum/algoviz/internal/seq"
)

type BinaryPhase string

const (
	BinaryStart  BinaryPhase = "start"
	BinaryRange  BinaryPhase = "range"
	BinaryMid    BinaryPhase = "mid"
	BinaryDecide BinaryPhase = "decide"
	BinaryDone   BinaryPhase = "done"
)

type BinarySearchState struct {
	Array       []float64   `json:"array"`
	Target      float64     `json:"target"`
	Low         int         `json:"low"`
	High        int         `json:"high"`
	Mid         int         `json:"mid"`
	FoundIndex  int         `json:"found_index"`
	Phase       BinaryPhase `json:"phase"`
	Visited     []int       `json:"visited"`
	Comparisons int         `json:"comparisons"`
}

// NewBinarySearch searches array, which must already be sorted ascending.
func NewBinarySearch(array []float64, target float64) BinarySearchState {
	return BinarySearchState{Array: clone(array), Target: target}.Reset()
}

func (s BinarySearchState) Kind() seq.Kind { return KindBinarySearch }

func (s BinarySearchState) Clone() BinarySearchState {
	s.Array = clone(s.Array)
	s.Visited = slices.Clone(s.Visited)
	return s
}

func (s BinarySearchState) Reset() BinarySearchState {
	return BinarySearchState{
		Array:      clone(s.Array),
		Target:     s.Target,
		Low:        -1,
		High:       -1,
		Mid:        -1,
		FoundIndex: -1,
		Phase:      BinaryStart,
	}
}

func (s BinarySearchState) Clear() BinarySearchState {
	s.Array = nil
	return s.Reset()
}

func (s BinarySearchState) Validate() error {
	if err := validateArray(s.Array); err != nil {
		return err
	}
	if !slices.IsSorted(s.Array) {
		return seq.Invalid("array", "Array must be sorted in ascending order.")
	}
	return ValidateTarget(s.Target)
}

func (s BinarySearchState) Values() []float64 { return s.Array }

func (s BinarySearchState) Counts() (int, int) { return s.Comparisons, 0 }

// StepBinarySearch emits a start step, then three sub-steps per iteration:
// the current range, the computed mid and the branch decision.
func StepBinarySearch(s BinarySearchState) seq.Transition[BinarySearchState] {
	t := Format(s.Target)
	switch s.Phase {
	case BinaryStart:
		s.Low, s.High = 0, len(s.Array)-1
		s.Phase = BinaryRange
		return next(s, "Starting binary search for %s...", t)

	case BinaryRange:
		if s.Low > s.High {
			s.Mid = -1
			s.Phase = BinaryDone
			return done(s, "Search completed: element %s not found.", t)
		}
		s.Phase = BinaryMid
		return next(s, "Current search range: [%d .. %d]", s.Low, s.High)

	case BinaryMid:
		s.Mid = (s.Low + s.High) / 2
		s.Visited = append(s.Visited, s.Mid)
		s.Phase = BinaryDecide
		return next(s, "Checking mid = %d (%s)", s.Mid, Format(s.Array[s.Mid]))

	case BinaryDecide:
		v := s.Array[s.Mid]
		s.Comparisons++
		switch {
		case v == s.Target:
			s.FoundIndex = s.Mid
			s.Phase = BinaryDone
			return done(s, "Found %s at index %d", t, s.Mid)
		case s.Target < v:
			msg := fmt.Sprintf("%s < %s: discarding right half (indices %d..%d)", t, Format(v), s.Mid, s.High)
			s.High = s.Mid - 1
			s.Phase = BinaryRange
			return next(s, "%s", msg)
		default:
			msg := fmt.Sprintf("%s > %s: discarding left half (indices %d..%d)", t, Format(v), s.Low, s.Mid)
			s.Low = s.Mid + 1
			s.Phase = BinaryRange
			return next(s, "%s", msg)
		}
	}
	return done(s, "Search completed.")
}

func next[S any](s S, format string, args ...any) seq.Transition[S] {
	return seq.Transition[S]{Next: s, Annotation: fmt.Sprintf(format, args...)}
}

func done[S any](s S, format string, args ...any) seq.Transition[S] {
	return seq.Transition[S]{Next: s, Done: true, Annotation: fmt.Sprintf(format, args...)}
}
