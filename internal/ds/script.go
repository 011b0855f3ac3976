package ds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/algoviz/internal/seq"
)

const (
	KindStackScript seq.Kind = "stack"
	KindQueueScript seq.Kind = "queue"
)

// Op is one scripted container operation.
type Op struct {
	Name  string `yaml:"op" json:"op"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}

func (o Op) String() string {
	if o.Value == "" {
		return o.Name
	}
	return o.Name + " " + o.Value
}

var opArity = map[string]int{
	"push": 1, "pop": 0, "peek": 0,
	"enqueue": 1, "dequeue": 0, "front": 0, "rear": 0,
	"insert_head": 1, "insert_tail": 1, "delete": 1, "find": 1,
	"isempty": 0, "isfull": 0,
}

// ParseOps reads tokens such as "push 3 pop isempty". An operation that
// takes a value consumes the following token.
func ParseOps(tokens []string) ([]Op, error) {
	var ops []Op
	for i := 0; i < len(tokens); i++ {
		name := strings.ToLower(strings.TrimSpace(tokens[i]))
		if name == "" {
			continue
		}
		arity, ok := opArity[name]
		if !ok {
			return nil, seq.Invalid("ops", "unknown operation %q", tokens[i])
		}
		op := Op{Name: name}
		if arity == 1 {
			if i+1 >= len(tokens) {
				return nil, seq.Invalid("ops", "%s needs a value", name)
			}
			i++
			op.Value = tokens[i]
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func validateOps(ops []Op, allowed ...string) error {
	if len(ops) == 0 {
		return seq.Invalid("ops", "Enter at least one operation.")
	}
	for _, op := range ops {
		ok := false
		for _, a := range allowed {
			if op.Name == a {
				ok = true
				break
			}
		}
		if !ok {
			return seq.Invalid("ops", "operation %q is not supported here", op.Name)
		}
	}
	return nil
}

func itoa(i int) string { return strconv.Itoa(i) }

type StackScriptState struct {
	Stack     *Stack `json:"stack"`
	Ops       []Op   `json:"ops"`
	Pos       int    `json:"pos"`
	Popping   bool   `json:"popping"`
	LastError string `json:"last_error,omitempty"`
	Failures  int    `json:"failures"`
}

func NewStackScript(capacity int, now Clock, ops []Op) StackScriptState {
	return StackScriptState{Stack: NewStack(capacity, now), Ops: append([]Op(nil), ops...)}
}

func (s StackScriptState) Kind() seq.Kind { return KindStackScript }

func (s StackScriptState) Clone() StackScriptState {
	s.Stack = s.Stack.Clone()
	s.Ops = append([]Op(nil), s.Ops...)
	return s
}

// Reset drops highlights and any half-finished pop.
func (s StackScriptState) Reset() StackScriptState {
	s = s.Clone()
	s.Stack.ClearHighlight()
	s.Popping = false
	s.LastError = ""
	return s
}

func (s StackScriptState) Clear() StackScriptState {
	s = s.Clone()
	s.Stack.Reset()
	s.Ops = nil
	s.Pos = 0
	s.Popping = false
	s.LastError = ""
	s.Failures = 0
	return s
}

func (s StackScriptState) Validate() error {
	return validateOps(s.Ops, "push", "pop", "peek", "isempty", "isfull")
}

// StepStackScript applies one operation. Pop takes two steps: the top is
// highlighted first and removed on the next step. A failed operation is
// reported in the annotation and leaves the stack unchanged.
func StepStackScript(s StackScriptState) seq.Transition[StackScriptState] {
	st := s.Stack
	s.LastError = ""

	if s.Popping {
		v, _ := st.Pop()
		s.Popping = false
		s.Pos++
		return s.finish(fmt.Sprintf("Popped \"%s\" from the stack.", v))
	}

	op := s.Ops[s.Pos]
	var msg string
	switch op.Name {
	case "push":
		if err := st.Push(op.Value); err != nil {
			return s.fail(err)
		}
		v, _ := st.Peek()
		msg = fmt.Sprintf("Pushed \"%s\" into the stack (%s mode).", v, st.Kind())
	case "pop":
		v, err := st.Peek()
		if err != nil {
			st.MarkWhole("check-empty")
			return s.fail(&seq.EmptyError{Container: "stack", Op: "pop"})
		}
		st.MarkTop("pop")
		s.Popping = true
		return seq.Transition[StackScriptState]{Next: s, Annotation: fmt.Sprintf("Popping \"%s\"...", v)}
	case "peek":
		v, err := st.Peek()
		if err != nil {
			st.MarkWhole("check-empty")
			return s.fail(err)
		}
		st.MarkTop("peek")
		msg = fmt.Sprintf("Top element is \"%s\".", v)
	case "isempty":
		st.MarkWhole("check-empty")
		msg = "No, the stack is not empty."
		if st.IsEmpty() {
			msg = "Yes, the stack is empty."
		}
	case "isfull":
		st.MarkWhole("check-full")
		msg = fmt.Sprintf("No, the stack is not full. Current size: %d/%d.", st.Len(), st.Cap())
		if st.IsFull() {
			msg = fmt.Sprintf("Yes, the stack is full (size = %d).", st.Cap())
		}
	}
	s.Pos++
	return s.finish(msg)
}

func (s StackScriptState) fail(err error) seq.Transition[StackScriptState] {
	s.LastError = seq.Message(err)
	s.Failures++
	s.Pos++
	return s.finish(s.LastError)
}

func (s StackScriptState) finish(msg string) seq.Transition[StackScriptState] {
	return seq.Transition[StackScriptState]{Next: s, Done: s.Pos >= len(s.Ops), Annotation: msg}
}

type QueueScriptState struct {
	Queue     *Queue `json:"queue"`
	Ops       []Op   `json:"ops"`
	Pos       int    `json:"pos"`
	Dequeuing bool   `json:"dequeuing"`
	LastError string `json:"last_error,omitempty"`
	Failures  int    `json:"failures"`
}

func NewQueueScript(capacity int, now Clock, ops []Op) QueueScriptState {
	return QueueScriptState{Queue: NewQueue(capacity, now), Ops: append([]Op(nil), ops...)}
}

func (s QueueScriptState) Kind() seq.Kind { return KindQueueScript }

func (s QueueScriptState) Clone() QueueScriptState {
	s.Queue = s.Queue.Clone()
	s.Ops = append([]Op(nil), s.Ops...)
	return s
}

func (s QueueScriptState) Reset() QueueScriptState {
	s = s.Clone()
	s.Queue.Calm()
	s.Dequeuing = false
	s.LastError = ""
	return s
}

func (s QueueScriptState) Clear() QueueScriptState {
	s = s.Clone()
	s.Queue.Reset()
	s.Ops = nil
	s.Pos = 0
	s.Dequeuing = false
	s.LastError = ""
	s.Failures = 0
	return s
}

func (s QueueScriptState) Validate() error {
	return validateOps(s.Ops, "enqueue", "dequeue", "front", "rear", "isempty", "isfull")
}

// StepQueueScript applies one operation. Nodes enqueued on the previous
// step settle first; dequeue marks the front on one step and removes it
// on the next.
func StepQueueScript(s QueueScriptState) seq.Transition[QueueScriptState] {
	q := s.Queue
	q.Settle()
	s.LastError = ""

	if s.Dequeuing {
		n, _ := q.Dequeue()
		s.Dequeuing = false
		s.Pos++
		return s.finish(fmt.Sprintf("Dequeued \"%s\" from the front.", n.Value))
	}

	op := s.Ops[s.Pos]
	var msg string
	switch op.Name {
	case "enqueue":
		n, err := q.Enqueue(op.Value)
		if err != nil {
			return s.fail(err)
		}
		msg = fmt.Sprintf("Enqueued \"%s\" at the rear of the queue.", n.Value)
	case "dequeue":
		n, err := q.BeginDequeue()
		if err != nil {
			return s.fail(err)
		}
		s.Dequeuing = true
		return seq.Transition[QueueScriptState]{Next: s, Annotation: fmt.Sprintf("Dequeuing \"%s\" from the front...", n.Value)}
	case "front":
		n, err := q.Front()
		if err != nil {
			return s.fail(err)
		}
		msg = fmt.Sprintf("Front element is \"%s\".", n.Value)
	case "rear":
		n, err := q.Rear()
		if err != nil {
			return s.fail(err)
		}
		msg = fmt.Sprintf("Rear element is \"%s\".", n.Value)
	case "isempty":
		q.MarkTrack("empty")
		msg = "No, the queue is not empty."
		if q.IsEmpty() {
			msg = "Yes, the queue is empty."
		}
	case "isfull":
		q.MarkTrack("full")
		msg = fmt.Sprintf("No, the queue is not full. Current size: %d/%d.", q.Len(), q.Cap())
		if q.IsFull() {
			msg = fmt.Sprintf("Yes, the queue is full (size = %d).", q.Cap())
		}
	}
	s.Pos++
	return s.finish(msg)
}

func (s QueueScriptState) fail(err error) seq.Transition[QueueScriptState] {
	s.LastError = seq.Message(err)
	s.Failures++
	s.Pos++
	return s.finish(s.LastError)
}

func (s QueueScriptState) finish(msg string) seq.Transition[QueueScriptState] {
	return seq.Transition[QueueScriptState]{Next: s, Done: s.Pos >= len(s.Ops), Annotation: msg}
}
