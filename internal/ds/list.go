package ds

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/seq"
)

type listNode struct {
	value float64
	next  *listNode
}

// LinkedList is a bounded singly linked list of numbers.
type LinkedList struct {
	head     *listNode
	size     int
	capacity int
}

func NewLinkedList(capacity int) *LinkedList {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LinkedList{capacity: capacity}
}

func (l *LinkedList) InsertHead(v float64) error {
	if l.size >= l.capacity {
		return &seq.CapacityError{Container: "list", Op: "insert", Capacity: l.capacity}
	}
	l.head = &listNode{value: v, next: l.head}
	l.size++
	return nil
}

func (l *LinkedList) InsertTail(v float64) error {
	if l.size >= l.capacity {
		return &seq.CapacityError{Container: "list", Op: "insert", Capacity: l.capacity}
	}
	n := &listNode{value: v}
	if l.head == nil {
		l.head = n
	} else {
		cur := l.head
		for cur.next != nil {
			cur = cur.next
		}
		cur.next = n
	}
	l.size++
	return nil
}

// Delete removes the first node holding v.
func (l *LinkedList) Delete(v float64) error {
	if l.head == nil {
		return &seq.EmptyError{Container: "list", Op: "delete"}
	}
	if l.head.value == v {
		l.head = l.head.next
		l.size--
		return nil
	}
	for cur := l.head; cur.next != nil; cur = cur.next {
		if cur.next.value == v {
			cur.next = cur.next.next
			l.size--
			return nil
		}
	}
	return seq.Invalid("value", "Element %s not found in the list.", algo.Format(v))
}

// Find returns the position of the first node holding v, or -1.
func (l *LinkedList) Find(v float64) int {
	i := 0
	for cur := l.head; cur != nil; cur = cur.next {
		if cur.value == v {
			return i
		}
		i++
	}
	return -1
}

func (l *LinkedList) Values() []float64 {
	out := make([]float64, 0, l.size)
	for cur := l.head; cur != nil; cur = cur.next {
		out = append(out, cur.value)
	}
	return out
}

func (l *LinkedList) Len() int { return l.size }

func (l *LinkedList) Cap() int { return l.capacity }

func (l *LinkedList) IsEmpty() bool { return l.size == 0 }

func (l *LinkedList) IsFull() bool { return l.size >= l.capacity }

func (l *LinkedList) Reset() {
	l.head = nil
	l.size = 0
}

func (l *LinkedList) Clone() *LinkedList {
	c := &LinkedList{capacity: l.capacity}
	tail := &c.head
	for cur := l.head; cur != nil; cur = cur.next {
		*tail = &listNode{value: cur.value}
		tail = &(*tail).next
	}
	c.size = l.size
	return c
}

func (l *LinkedList) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Nodes    []float64 `json:"nodes"`
		Capacity int       `json:"capacity"`
	}{l.Values(), l.capacity})
}

const KindListSearch seq.Kind = "list_search"

// ListSearchState walks a snapshot of a linked list node by node.
type ListSearchState struct {
	Nodes       []float64 `json:"nodes"`
	Target      float64   `json:"target"`
	Current     int       `json:"current"`
	FoundIndex  int       `json:"found_index"`
	Comparisons int       `json:"comparisons"`
}

func NewListSearch(l *LinkedList, target float64) ListSearchState {
	return ListSearchState{Nodes: l.Values(), Target: target}.Reset()
}

func (s ListSearchState) Kind() seq.Kind { return KindListSearch }

func (s ListSearchState) Clone() ListSearchState {
	s.Nodes = append([]float64(nil), s.Nodes...)
	return s
}

func (s ListSearchState) Reset() ListSearchState {
	return ListSearchState{
		Nodes:      append([]float64(nil), s.Nodes...),
		Target:     s.Target,
		Current:    -1,
		FoundIndex: -1,
	}
}

func (s ListSearchState) Clear() ListSearchState {
	s.Nodes = nil
	return s.Reset()
}

func (s ListSearchState) Validate() error {
	if len(s.Nodes) == 0 {
		return seq.Invalid("list", "Insert at least one node first.")
	}
	if slices.ContainsFunc(s.Nodes, math.IsNaN) {
		return seq.Invalid("list", "Node values must be numbers.")
	}
	return algo.ValidateTarget(s.Target)
}

func (s ListSearchState) Values() []float64 { return s.Nodes }

func (s ListSearchState) Counts() (int, int) { return s.Comparisons, 0 }

// StepListSearch follows one next pointer per step.
func StepListSearch(s ListSearchState) seq.Transition[ListSearchState] {
	s.Current++
	t := algo.Format(s.Target)
	if s.Current >= len(s.Nodes) {
		s.Current = -1
		return seq.Transition[ListSearchState]{Next: s, Done: true, Annotation: "Reached null: element " + t + " not found in the list."}
	}
	s.Comparisons++
	v := algo.Format(s.Nodes[s.Current])
	if s.Nodes[s.Current] == s.Target {
		s.FoundIndex = s.Current
		return seq.Transition[ListSearchState]{Next: s, Done: true, Annotation: "Element " + t + " found at node " + itoa(s.Current) + "."}
	}
	return seq.Transition[ListSearchState]{Next: s, Annotation: "Node " + itoa(s.Current) + " holds " + v + ", following next"}
}

const KindListScript seq.Kind = "list"

// ListScriptState replays insert, delete and find operations on a linked
// list. Marked is the node touched by the last operation, or -1.
type ListScriptState struct {
	List      *LinkedList `json:"list"`
	Ops       []Op        `json:"ops"`
	Pos       int         `json:"pos"`
	Marked    int         `json:"marked"`
	Deleting  bool        `json:"deleting"`
	LastError string      `json:"last_error,omitempty"`
	Failures  int         `json:"failures"`
}

// NewListScript seeds a list with initial, which must fit in capacity.
func NewListScript(capacity int, initial []float64, ops []Op) (ListScriptState, error) {
	l := NewLinkedList(capacity)
	for _, v := range initial {
		if err := l.InsertTail(v); err != nil {
			return ListScriptState{}, err
		}
	}
	return ListScriptState{List: l, Ops: slices.Clone(ops), Marked: -1}, nil
}

func (s ListScriptState) Kind() seq.Kind { return KindListScript }

func (s ListScriptState) Values() []float64 { return s.List.Values() }

func (s ListScriptState) Clone() ListScriptState {
	s.List = s.List.Clone()
	s.Ops = slices.Clone(s.Ops)
	return s
}

func (s ListScriptState) Reset() ListScriptState {
	s = s.Clone()
	s.Marked = -1
	s.Deleting = false
	s.LastError = ""
	return s
}

func (s ListScriptState) Clear() ListScriptState {
	s = s.Clone()
	s.List.Reset()
	s.Ops = nil
	s.Pos = 0
	s.Marked = -1
	s.Deleting = false
	s.LastError = ""
	s.Failures = 0
	return s
}

func (s ListScriptState) Validate() error {
	if err := validateOps(s.Ops, "insert_head", "insert_tail", "delete", "find", "isempty", "isfull"); err != nil {
		return err
	}
	if slices.ContainsFunc(s.List.Values(), math.IsNaN) {
		return seq.Invalid("list", "Node values must be numbers.")
	}
	return nil
}

func parseNode(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) {
		return 0, seq.Invalid("value", "Invalid input: %q is not a number.", v)
	}
	return f, nil
}

// StepListScript applies one operation. Delete takes two steps: the node
// is marked first and unlinked on the next step.
func StepListScript(s ListScriptState) seq.Transition[ListScriptState] {
	l := s.List
	s.LastError = ""
	s.Marked = -1

	op := s.Ops[s.Pos]
	if s.Deleting {
		v, _ := parseNode(op.Value)
		_ = l.Delete(v)
		s.Deleting = false
		s.Pos++
		return s.finish(fmt.Sprintf("Deleted %s from the list.", algo.Format(v)))
	}

	var msg string
	switch op.Name {
	case "insert_head", "insert_tail":
		v, err := parseNode(op.Value)
		if err != nil {
			return s.fail(err)
		}
		if op.Name == "insert_head" {
			err = l.InsertHead(v)
			s.Marked = 0
		} else {
			err = l.InsertTail(v)
			s.Marked = l.Len() - 1
		}
		if err != nil {
			s.Marked = -1
			return s.fail(err)
		}
		where := "head"
		if op.Name == "insert_tail" {
			where = "tail"
		}
		msg = fmt.Sprintf("Inserted %s at the %s.", algo.Format(v), where)
	case "delete":
		v, err := parseNode(op.Value)
		if err != nil {
			return s.fail(err)
		}
		if l.IsEmpty() {
			return s.fail(&seq.EmptyError{Container: "list", Op: "delete"})
		}
		i := l.Find(v)
		if i < 0 {
			return s.fail(seq.Invalid("value", "Element %s not found in the list.", algo.Format(v)))
		}
		s.Marked = i
		s.Deleting = true
		return seq.Transition[ListScriptState]{Next: s, Annotation: fmt.Sprintf("Deleting %s at node %d...", algo.Format(v), i)}
	case "find":
		v, err := parseNode(op.Value)
		if err != nil {
			return s.fail(err)
		}
		if i := l.Find(v); i >= 0 {
			s.Marked = i
			msg = fmt.Sprintf("Element %s found at node %d.", algo.Format(v), i)
		} else {
			msg = fmt.Sprintf("Element %s not found in the list.", algo.Format(v))
		}
	case "isempty":
		msg = "No, the list is not empty."
		if l.IsEmpty() {
			msg = "Yes, the list is empty."
		}
	case "isfull":
		msg = fmt.Sprintf("No, the list is not full. Current size: %d/%d.", l.Len(), l.Cap())
		if l.IsFull() {
			msg = fmt.Sprintf("Yes, the list is full (size = %d).", l.Cap())
		}
	}
	s.Pos++
	return s.finish(msg)
}

func (s ListScriptState) fail(err error) seq.Transition[ListScriptState] {
	s.LastError = seq.Message(err)
	s.Failures++
	s.Pos++
	return s.finish(s.LastError)
}

func (s ListScriptState) finish(msg string) seq.Transition[ListScriptState] {
	return seq.Transition[ListScriptState]{Next: s, Done: s.Pos >= len(s.Ops), Annotation: msg}
}
