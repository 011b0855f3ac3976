package algo

import "github.com/san-kum/algoviz/internal/seq"

type LinearSearchState struct {
	Array       []float64 `json:"array"`
	Target      float64   `json:"target"`
	Index       int       `json:"index"`
	Current     int       `json:"current"`
	FoundIndex  int       `json:"found_index"`
	Comparisons int       `json:"comparisons"`
}

func NewLinearSearch(array []float64, target float64) LinearSearchState {
	return LinearSearchState{Array: clone(array), Target: target}.Reset()
}

func (s LinearSearchState) Kind() seq.Kind { return KindLinearSearch }

func (s LinearSearchState) Clone() LinearSearchState {
	s.Array = clone(s.Array)
	return s
}

func (s LinearSearchState) Reset() LinearSearchState {
	return LinearSearchState{
		Array:      clone(s.Array),
		Target:     s.Target,
		Current:    -1,
		FoundIndex: -1,
	}
}

func (s LinearSearchState) Clear() LinearSearchState {
	s.Array = nil
	return s.Reset()
}

func (s LinearSearchState) Validate() error {
	if err := validateArray(s.Array); err != nil {
		return err
	}
	return ValidateTarget(s.Target)
}

func (s LinearSearchState) Values() []float64 { return s.Array }

func (s LinearSearchState) Counts() (int, int) { return s.Comparisons, 0 }

// StepLinearSearch examines one index per step and stops at the first match.
func StepLinearSearch(s LinearSearchState) seq.Transition[LinearSearchState] {
	t := Format(s.Target)
	if s.Index >= len(s.Array) {
		s.Current = -1
		return done(s, "Element %s not found in the array.", t)
	}

	s.Current = s.Index
	s.Comparisons++
	v := s.Array[s.Current]
	if v == s.Target {
		s.FoundIndex = s.Current
		return done(s, "Element %s found at index %d.", t, s.Current)
	}

	s.Index++
	if s.Index >= len(s.Array) {
		return done(s, "Element %s not found in the array.", t)
	}
	return next(s, "Index %d holds %s, not %s", s.Current, Format(v), t)
}
