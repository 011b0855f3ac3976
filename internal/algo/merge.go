package algo

import (
	"cmp"
	"slices"

	"github.com/san-kum/algoviz/internal/seq"
)

type MergePhase string

const (
	MergeSplit MergePhase = "split"
	MergeMerge MergePhase = "merge"
	MergeDone  MergePhase = "done"
)

// MergeNode is one sub-array of the split tree, covering Original[Lo:Hi].
type MergeNode struct {
	Level  int       `json:"level"`
	Lo     int       `json:"lo"`
	Hi     int       `json:"hi"`
	Items  []float64 `json:"items"`
	Merged []float64 `json:"merged,omitempty"`
	Parent int       `json:"parent"`
	Left   int       `json:"left"`
	Right  int       `json:"right"`
}

func (n MergeNode) Leaf() bool { return n.Left < 0 }

type span struct {
	Lo, Hi, Level, Parent int
}

type MergeSortState struct {
	Original []float64   `json:"original"`
	Nodes    []MergeNode `json:"nodes"`
	Phase    MergePhase  `json:"phase"`
	Pending  []span      `json:"-"`
	// Order lists internal nodes deepest level first, left to right.
	Order  []int `json:"order"`
	Cursor int   `json:"cursor"`
	// Active is the node being merged, or -1.
	Active      int       `json:"active"`
	LeftHead    int       `json:"left_head"`
	RightHead   int       `json:"right_head"`
	Buffer      []float64 `json:"buffer"`
	Result      []float64 `json:"result"`
	Comparisons int       `json:"comparisons"`
}

func NewMergeSort(array []float64) MergeSortState {
	return MergeSortState{Original: clone(array)}.Reset()
}

func (s MergeSortState) Kind() seq.Kind { return KindMergeSort }

func (s MergeSortState) Clone() MergeSortState {
	s.Original = clone(s.Original)
	s.Nodes = slices.Clone(s.Nodes)
	for i := range s.Nodes {
		s.Nodes[i].Items = clone(s.Nodes[i].Items)
		s.Nodes[i].Merged = clone(s.Nodes[i].Merged)
	}
	s.Pending = slices.Clone(s.Pending)
	s.Order = slices.Clone(s.Order)
	s.Buffer = clone(s.Buffer)
	s.Result = clone(s.Result)
	return s
}

func (s MergeSortState) Reset() MergeSortState {
	out := MergeSortState{
		Original: clone(s.Original),
		Phase:    MergeSplit,
		Active:   -1,
	}
	if len(s.Original) > 0 {
		out.Pending = []span{{Lo: 0, Hi: len(s.Original), Level: 0, Parent: -1}}
	}
	return out
}

func (s MergeSortState) Clear() MergeSortState {
	s.Original = nil
	return s.Reset()
}

func (s MergeSortState) Validate() error { return validateArray(s.Original) }

func (s MergeSortState) Values() []float64 {
	if s.Result != nil {
		return s.Result
	}
	return s.Original
}

func (s MergeSortState) Counts() (int, int) { return s.Comparisons, 0 }

// Depth is the number of levels in the split tree built so far.
func (s MergeSortState) Depth() int {
	d := 0
	for _, n := range s.Nodes {
		d = max(d, n.Level+1)
	}
	return d
}

// Level returns the nodes of one tree level, left to right.
func (s MergeSortState) Level(l int) []MergeNode {
	var out []MergeNode
	for _, n := range s.Nodes {
		if n.Level == l {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b MergeNode) int { return cmp.Compare(a.Lo, b.Lo) })
	return out
}

// Leaves returns the singleton nodes ordered by position.
func (s MergeSortState) Leaves() []MergeNode {
	var out []MergeNode
	for _, n := range s.Nodes {
		if n.Leaf() {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b MergeNode) int { return cmp.Compare(a.Lo, b.Lo) })
	return out
}

// StepMergeSort emits one step per split node, then merges bottom-up:
// one step to open a merge, one per element placed, one to close it.
func StepMergeSort(s MergeSortState) seq.Transition[MergeSortState] {
	switch s.Phase {
	case MergeSplit:
		return s.split()
	case MergeMerge:
		return s.merge()
	}
	return done(s, "Final sorted: %s", FormatAll(s.Result))
}

func (s MergeSortState) split() seq.Transition[MergeSortState] {
	sp := s.Pending[len(s.Pending)-1]
	s.Pending = s.Pending[:len(s.Pending)-1]

	idx := len(s.Nodes)
	node := MergeNode{
		Level:  sp.Level,
		Lo:     sp.Lo,
		Hi:     sp.Hi,
		Items:  clone(s.Original[sp.Lo:sp.Hi]),
		Parent: sp.Parent,
		Left:   -1,
		Right:  -1,
	}
	if sp.Parent >= 0 {
		p := &s.Nodes[sp.Parent]
		if p.Left < 0 {
			p.Left = idx
		} else {
			p.Right = idx
		}
	}

	msg := "Leaf " + FormatAll(node.Items)
	if sp.Hi-sp.Lo > 1 {
		mid := sp.Lo + (sp.Hi-sp.Lo)/2
		s.Pending = append(s.Pending,
			span{Lo: mid, Hi: sp.Hi, Level: sp.Level + 1, Parent: idx},
			span{Lo: sp.Lo, Hi: mid, Level: sp.Level + 1, Parent: idx},
		)
		msg = "Split " + FormatAll(node.Items) + " at level " + itoa(sp.Level)
	} else {
		node.Merged = clone(node.Items)
	}
	s.Nodes = append(s.Nodes, node)

	if len(s.Pending) > 0 {
		return next(s, "%s", msg)
	}

	s.Order = s.mergeOrder()
	if len(s.Order) == 0 {
		s.Result = clone(s.Nodes[0].Merged)
		s.Phase = MergeDone
		return done(s, "%s. Final sorted: %s", msg, FormatAll(s.Result))
	}
	s.Phase = MergeMerge
	return next(s, "%s. Built split tree.", msg)
}

func (s MergeSortState) mergeOrder() []int {
	var order []int
	for i, n := range s.Nodes {
		if !n.Leaf() {
			order = append(order, i)
		}
	}
	slices.SortFunc(order, func(a, b int) int {
		na, nb := s.Nodes[a], s.Nodes[b]
		if c := cmp.Compare(nb.Level, na.Level); c != 0 {
			return c
		}
		return cmp.Compare(na.Lo, nb.Lo)
	})
	return order
}

func (s MergeSortState) merge() seq.Transition[MergeSortState] {
	if s.Active < 0 {
		s.Active = s.Order[s.Cursor]
		s.LeftHead, s.RightHead = 0, 0
		s.Buffer = nil
		n := s.Nodes[s.Active]
		l, r := s.Nodes[n.Left].Merged, s.Nodes[n.Right].Merged
		return next(s, "Merging %s & %s into parent at level %d", FormatAll(l), FormatAll(r), n.Level)
	}

	n := s.Nodes[s.Active]
	l, r := s.Nodes[n.Left].Merged, s.Nodes[n.Right].Merged

	switch {
	case s.LeftHead < len(l) && s.RightHead < len(r):
		a, b := l[s.LeftHead], r[s.RightHead]
		s.Comparisons++
		if a <= b {
			s.Buffer = append(s.Buffer, a)
			s.LeftHead++
			return next(s, "Compare %s vs %s: take %s from left", Format(a), Format(b), Format(a))
		}
		s.Buffer = append(s.Buffer, b)
		s.RightHead++
		return next(s, "Compare %s vs %s: take %s from right", Format(a), Format(b), Format(b))

	case s.LeftHead < len(l):
		v := l[s.LeftHead]
		s.Buffer = append(s.Buffer, v)
		s.LeftHead++
		return next(s, "Move leftover %s from left", Format(v))

	case s.RightHead < len(r):
		v := r[s.RightHead]
		s.Buffer = append(s.Buffer, v)
		s.RightHead++
		return next(s, "Move leftover %s from right", Format(v))
	}

	s.Nodes[s.Active].Merged = s.Buffer
	msg := "Merged " + FormatAll(s.Buffer) + " placed at level " + itoa(n.Level)
	s.Buffer = nil
	s.Active = -1
	s.Cursor++
	if s.Cursor < len(s.Order) {
		return next(s, "%s", msg)
	}
	s.Result = clone(s.Nodes[0].Merged)
	s.Phase = MergeDone
	return done(s, "%s. Final sorted: %s", msg, FormatAll(s.Result))
}
