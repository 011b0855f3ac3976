package ds

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/san-kum/algoviz/internal/seq"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestStackLIFO(t *testing.T) {
	s := NewStack(0, nil)
	for _, v := range []string{"1", "2", "3"} {
		if err := s.Push(v); err != nil {
			t.Fatalf("push %s: %v", v, err)
		}
	}
	for _, want := range []string{"3", "2", "1"} {
		got, err := s.Pop()
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
	if !s.IsEmpty() {
		t.Error("expected empty stack")
	}
}

func TestStackFullLeavesContents(t *testing.T) {
	clk := newClock()
	s := NewStack(2, clk.now)
	_ = s.Push("a")
	_ = s.Push("b")

	err := s.Push("c")
	if !errors.Is(err, seq.ErrCapacity) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if err.Error() != "Cannot push: the stack is full (max size = 2)." {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !slices.Equal(s.Values(), []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", s.Values())
	}

	h, ok := s.Highlight()
	if !ok || h.Kind != "check-full" || h.Index != -1 {
		t.Errorf("expected check-full highlight, got %+v %v", h, ok)
	}
	clk.advance(StackHighlight)
	if _, ok := s.Highlight(); ok {
		t.Error("expected highlight to expire after 700ms")
	}
}

func TestStackEmpty(t *testing.T) {
	s := NewStack(0, nil)
	if _, err := s.Pop(); !errors.Is(err, seq.ErrEmpty) {
		t.Errorf("expected empty error, got %v", err)
	}
	if _, err := s.Peek(); !errors.Is(err, seq.ErrEmpty) {
		t.Errorf("expected empty error, got %v", err)
	}
}

func TestStackKindLock(t *testing.T) {
	tests := []struct {
		name  string
		first string
		next  string
		msg   string
	}{
		{"numbers", "4", "abc", "Invalid input: Only numbers are allowed."},
		{"text", "abc", "4.5", "Invalid input: Only text strings are allowed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStack(0, nil)
			if err := s.Push(tt.first); err != nil {
				t.Fatal(err)
			}
			err := s.Push(tt.next)
			if !errors.Is(err, seq.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if seq.Message(err) != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, seq.Message(err))
			}
			if s.Len() != 1 {
				t.Errorf("expected len 1, got %d", s.Len())
			}
		})
	}

	s := NewStack(0, nil)
	_ = s.Push("1")
	s.Reset()
	if err := s.Push("x"); err != nil {
		t.Errorf("expected kind to unlock after reset, got %v", err)
	}
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(0, nil)
	for _, v := range []string{"a", "b", "c"} {
		if _, err := q.Enqueue(v); err != nil {
			t.Fatal(err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		n, err := q.Dequeue()
		if err != nil {
			t.Fatal(err)
		}
		if n.Value != want {
			t.Errorf("expected %s, got %s", want, n.Value)
		}
	}
	if _, err := q.Dequeue(); !errors.Is(err, seq.ErrEmpty) {
		t.Errorf("expected empty error, got %v", err)
	}
}

func TestQueueIDsAndStatus(t *testing.T) {
	q := NewQueue(0, nil)
	a, _ := q.Enqueue("a")
	b, _ := q.Enqueue("b")
	if a.ID >= b.ID {
		t.Errorf("expected increasing ids, got %d then %d", a.ID, b.ID)
	}
	if a.Status != StatusJustEnqueued {
		t.Errorf("expected just_enqueued, got %s", a.Status)
	}

	q.Settle()
	front, _ := q.BeginDequeue()
	if front.Status != StatusDequeuing {
		t.Errorf("expected dequeuing, got %s", front.Status)
	}
	if q.Len() != 2 {
		t.Errorf("expected begin dequeue to keep the node, len %d", q.Len())
	}

	q.Reset()
	c, _ := q.Enqueue("c")
	if c.ID <= b.ID {
		t.Errorf("expected ids to keep increasing after reset, got %d", c.ID)
	}
}

func TestQueueFull(t *testing.T) {
	clk := newClock()
	q := NewQueue(1, clk.now)
	_, _ = q.Enqueue("x")
	_, err := q.Enqueue("y")
	if !errors.Is(err, seq.ErrCapacity) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if got := q.Values(); !slices.Equal(got, []string{"x"}) {
		t.Errorf("expected [x], got %v", got)
	}
	if h, ok := q.Track(); !ok || h.Kind != "full" {
		t.Errorf("expected full track highlight, got %+v", h)
	}
	clk.advance(QueueHighlight)
	if _, ok := q.Track(); ok {
		t.Error("expected track highlight to expire after 600ms")
	}
}

func TestLinkedList(t *testing.T) {
	l := NewLinkedList(3)
	_ = l.InsertTail(2)
	_ = l.InsertHead(1)
	_ = l.InsertTail(3)
	if !slices.Equal(l.Values(), []float64{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", l.Values())
	}
	if err := l.InsertTail(4); !errors.Is(err, seq.ErrCapacity) {
		t.Errorf("expected capacity error, got %v", err)
	}
	if l.Find(3) != 2 || l.Find(9) != -1 {
		t.Error("unexpected find result")
	}
	if err := l.Delete(9); !errors.Is(err, seq.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	_ = l.Delete(1)
	_ = l.Delete(3)
	_ = l.Delete(2)
	if err := l.Delete(2); !errors.Is(err, seq.ErrEmpty) {
		t.Errorf("expected empty error, got %v", err)
	}
}

func TestListSearch(t *testing.T) {
	l := NewLinkedList(0)
	for _, v := range []float64{5, 8, 13} {
		_ = l.InsertTail(v)
	}

	ts, err := seq.Drain(NewListSearch(l, 13), StepListSearch, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 3 {
		t.Errorf("expected 3 steps, got %d", len(ts))
	}
	final, _ := seq.Final(ts)
	if final.FoundIndex != 2 {
		t.Errorf("expected found index 2, got %d", final.FoundIndex)
	}

	ts, _ = seq.Drain(NewListSearch(l, 99), StepListSearch, 0)
	final, _ = seq.Final(ts)
	if final.FoundIndex != -1 || len(ts) != 4 {
		t.Errorf("expected not found after 4 steps, got %d after %d", final.FoundIndex, len(ts))
	}

	if _, err := seq.Drain(NewListSearch(NewLinkedList(0), 1), StepListSearch, 0); !errors.Is(err, seq.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestParseOps(t *testing.T) {
	ops, err := ParseOps([]string{"push", "3", "POP", "isEmpty"})
	if err != nil {
		t.Fatal(err)
	}
	want := []Op{{Name: "push", Value: "3"}, {Name: "pop"}, {Name: "isempty"}}
	if !slices.Equal(ops, want) {
		t.Errorf("expected %v, got %v", want, ops)
	}

	if _, err := ParseOps([]string{"push"}); !errors.Is(err, seq.ErrValidation) {
		t.Errorf("expected missing value error, got %v", err)
	}
	if _, err := ParseOps([]string{"jump"}); !errors.Is(err, seq.ErrValidation) {
		t.Errorf("expected unknown op error, got %v", err)
	}
}

func TestStackScript(t *testing.T) {
	ops, _ := ParseOps([]string{"push", "1", "push", "2", "push", "3", "pop", "isfull", "pop", "pop"})
	ts, err := seq.Drain(NewStackScript(2, nil, ops), StepStackScript, 0)
	if err != nil {
		t.Fatal(err)
	}

	var notes []string
	for _, tr := range ts {
		notes = append(notes, tr.Annotation)
	}
	want := []string{
		`Pushed "1" into the stack (number mode).`,
		`Pushed "2" into the stack (number mode).`,
		"Cannot push: the stack is full (max size = 2).",
		`Popping "2"...`,
		`Popped "2" from the stack.`,
		"No, the stack is not full. Current size: 1/2.",
		`Popping "1"...`,
		`Popped "1" from the stack.`,
		"Cannot pop: the stack is already empty.",
	}
	if !slices.Equal(notes, want) {
		t.Errorf("expected\n%v\ngot\n%v", want, notes)
	}

	final, _ := seq.Final(ts)
	if final.Failures != 2 || !final.Stack.IsEmpty() {
		t.Errorf("expected 2 failures and an empty stack, got %d %v", final.Failures, final.Stack.Values())
	}
}

func TestQueueScript(t *testing.T) {
	ops, _ := ParseOps([]string{"enqueue", "a", "enqueue", "b", "front", "dequeue", "rear", "dequeue", "dequeue"})
	ts, err := seq.Drain(NewQueueScript(0, nil, ops), StepQueueScript, 0)
	if err != nil {
		t.Fatal(err)
	}

	if ts[0].Next.Queue.Nodes()[0].Status != StatusJustEnqueued {
		t.Error("expected fresh node to be just_enqueued")
	}
	if ts[1].Next.Queue.Nodes()[0].Status != StatusNormal {
		t.Error("expected earlier node to settle on the next step")
	}

	dq := ts[3]
	if dq.Annotation != `Dequeuing "a" from the front...` || dq.Next.Queue.Nodes()[0].Status != StatusDequeuing {
		t.Errorf("unexpected dequeue start %q", dq.Annotation)
	}
	if ts[4].Annotation != `Dequeued "a" from the front.` {
		t.Errorf("unexpected dequeue end %q", ts[4].Annotation)
	}

	last := ts[len(ts)-1]
	if last.Annotation != "Cannot dequeue: the queue is already empty." || !last.Done {
		t.Errorf("unexpected final step %q", last.Annotation)
	}
}

func TestScriptStatesDoNotAlias(t *testing.T) {
	ops, _ := ParseOps([]string{"push", "1"})
	s := NewStackScript(0, nil, ops)
	tr := StepStackScript(s.Clone())
	if s.Stack.Len() != 0 || tr.Next.Stack.Len() != 1 {
		t.Error("expected step to work on a copy")
	}
	if err := s.Clear().Validate(); !errors.Is(err, seq.ErrValidation) {
		t.Errorf("expected cleared script to be invalid, got %v", err)
	}
}

func TestListScript(t *testing.T) {
	ops, err := ParseOps([]string{"insert_head", "2", "insert_tail", "13", "find", "8", "delete", "8", "delete", "99", "insert_tail", "NaN"})
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewListScript(3, []float64{5, 8}, ops)
	if err != nil {
		t.Fatal(err)
	}
	ts, err := seq.Drain(s, StepListScript, 0)
	if err != nil {
		t.Fatal(err)
	}

	var notes []string
	for _, tr := range ts {
		notes = append(notes, tr.Annotation)
	}
	want := []string{
		"Inserted 2 at the head.",
		"Cannot insert: the list is full (max size = 3).",
		"Element 8 found at node 2.",
		"Deleting 8 at node 2...",
		"Deleted 8 from the list.",
		"Element 99 not found in the list.",
		`Invalid input: "NaN" is not a number.`,
	}
	if !slices.Equal(notes, want) {
		t.Errorf("expected\n%v\ngot\n%v", want, notes)
	}
	if ts[2].Next.Marked != 2 || ts[3].Next.Marked != 2 {
		t.Errorf("expected node 2 marked, got %d %d", ts[2].Next.Marked, ts[3].Next.Marked)
	}

	final, _ := seq.Final(ts)
	if !slices.Equal(final.List.Values(), []float64{2, 5}) || final.Failures != 3 {
		t.Errorf("expected [2 5] with 3 failures, got %v %d", final.List.Values(), final.Failures)
	}
	if !slices.Equal(s.List.Values(), []float64{5, 8}) {
		t.Errorf("expected initial list untouched, got %v", s.List.Values())
	}

	if _, err := NewListScript(1, []float64{1, 2}, ops); !errors.Is(err, seq.ErrCapacity) {
		t.Errorf("expected capacity error, got %v", err)
	}
	if err := s.Clear().Validate(); !errors.Is(err, seq.ErrValidation) {
		t.Errorf("expected cleared script to be invalid, got %v", err)
	}
}

func TestListScriptDeleteFromEmpty(t *testing.T) {
	ops, _ := ParseOps([]string{"delete", "1", "isempty"})
	s, _ := NewListScript(0, nil, ops)
	ts, err := seq.Drain(s, StepListScript, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ts[0].Annotation != "Cannot delete: the list is already empty." || ts[1].Annotation != "Yes, the list is empty." {
		t.Errorf("unexpected annotations %q %q", ts[0].Annotation, ts[1].Annotation)
	}
}
