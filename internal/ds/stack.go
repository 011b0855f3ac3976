package ds

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/san-kum/algoviz/internal/seq"
)

// ElemKind is fixed by the first value pushed onto a stack.
type ElemKind string

const (
	KindUnset  ElemKind = ""
	KindNumber ElemKind = "number"
	KindText   ElemKind = "string"
)

func kindOf(v string) ElemKind {
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return KindNumber
	}
	return KindText
}

type Stack struct {
	capacity  int
	items     []string
	kind      ElemKind
	highlight Highlight
	now       Clock
}

func NewStack(capacity int, now Clock) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = defaultClock
	}
	return &Stack{capacity: capacity, now: now}
}

// Push adds v on top. A full stack or a value of the wrong kind leaves the
// contents unchanged.
func (s *Stack) Push(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return seq.Invalid("value", "Please enter a value to push into the stack.")
	}
	k := kindOf(v)
	switch {
	case s.kind == KindNumber && k == KindText:
		return seq.Invalid("value", "Invalid input: Only numbers are allowed.")
	case s.kind == KindText && k == KindNumber:
		return seq.Invalid("value", "Invalid input: Only text strings are allowed.")
	}
	if s.IsFull() {
		s.highlight = mark(s.now, StackHighlight, -1, "check-full")
		return &seq.CapacityError{Container: "stack", Op: "push", Capacity: s.capacity}
	}
	if s.kind == KindUnset {
		s.kind = k
	}
	s.items = append(s.items, v)
	s.highlight = mark(s.now, StackHighlight, len(s.items)-1, "push")
	return nil
}

func (s *Stack) Pop() (string, error) {
	v, err := s.Peek()
	if err != nil {
		return "", &seq.EmptyError{Container: "stack", Op: "pop"}
	}
	s.items = s.items[:len(s.items)-1]
	s.highlight = Highlight{}
	return v, nil
}

func (s *Stack) Peek() (string, error) {
	if len(s.items) == 0 {
		return "", &seq.EmptyError{Container: "stack", Op: "peek"}
	}
	return s.items[len(s.items)-1], nil
}

// MarkTop highlights the top slot without removing it.
func (s *Stack) MarkTop(kind string) {
	s.highlight = mark(s.now, StackHighlight, len(s.items)-1, kind)
}

// MarkWhole highlights the container as a whole.
func (s *Stack) MarkWhole(kind string) {
	s.highlight = mark(s.now, StackHighlight, -1, kind)
}

func (s *Stack) IsEmpty() bool { return len(s.items) == 0 }

func (s *Stack) IsFull() bool { return len(s.items) >= s.capacity }

func (s *Stack) Len() int { return len(s.items) }

func (s *Stack) Cap() int { return s.capacity }

func (s *Stack) Kind() ElemKind { return s.kind }

// Values lists the elements bottom to top.
func (s *Stack) Values() []string { return slices.Clone(s.items) }

// Highlight returns the current highlight if it has not expired.
func (s *Stack) Highlight() (Highlight, bool) {
	if s.highlight.Active(s.now()) {
		return s.highlight, true
	}
	return Highlight{}, false
}

func (s *Stack) ClearHighlight() { s.highlight = Highlight{} }

// Reset empties the stack and unlocks its element kind.
func (s *Stack) Reset() {
	s.items = nil
	s.kind = KindUnset
	s.highlight = Highlight{}
}

func (s *Stack) Clone() *Stack {
	c := *s
	c.items = slices.Clone(s.items)
	return &c
}

func (s *Stack) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items     []string  `json:"items"`
		Capacity  int       `json:"capacity"`
		Kind      ElemKind  `json:"kind"`
		Highlight Highlight `json:"highlight"`
	}{s.items, s.capacity, s.kind, s.highlight})
}
