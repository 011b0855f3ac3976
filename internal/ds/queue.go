package ds

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/san-kum/algoviz/internal/seq"
)

type NodeStatus string

const (
	StatusNormal       NodeStatus = "normal"
	StatusJustEnqueued NodeStatus = "just_enqueued"
	StatusDequeuing    NodeStatus = "dequeuing"
)

type QueueNode struct {
	ID     int        `json:"id"`
	Value  string     `json:"value"`
	Status NodeStatus `json:"status"`
}

// Queue is a bounded FIFO. Node ids increase monotonically for the life
// of the queue, including across Reset.
type Queue struct {
	capacity int
	nodes    []QueueNode
	nextID   int
	track    Highlight
	now      Clock
}

func NewQueue(capacity int, now Clock) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = defaultClock
	}
	return &Queue{capacity: capacity, now: now, nextID: 1}
}

func (q *Queue) Enqueue(v string) (QueueNode, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return QueueNode{}, seq.Invalid("value", "Please enter a value to enqueue into the queue.")
	}
	if q.IsFull() {
		q.track = mark(q.now, QueueHighlight, -1, "full")
		return QueueNode{}, &seq.CapacityError{Container: "queue", Op: "enqueue", Capacity: q.capacity}
	}
	n := QueueNode{ID: q.nextID, Value: v, Status: StatusJustEnqueued}
	q.nextID++
	q.nodes = append(q.nodes, n)
	return n, nil
}

// BeginDequeue marks the front node as leaving without removing it.
func (q *Queue) BeginDequeue() (QueueNode, error) {
	if len(q.nodes) == 0 {
		q.track = mark(q.now, QueueHighlight, -1, "empty")
		return QueueNode{}, &seq.EmptyError{Container: "queue", Op: "dequeue"}
	}
	q.nodes[0].Status = StatusDequeuing
	return q.nodes[0], nil
}

func (q *Queue) Dequeue() (QueueNode, error) {
	if len(q.nodes) == 0 {
		q.track = mark(q.now, QueueHighlight, -1, "empty")
		return QueueNode{}, &seq.EmptyError{Container: "queue", Op: "dequeue"}
	}
	n := q.nodes[0]
	q.nodes = slices.Delete(q.nodes, 0, 1)
	return n, nil
}

func (q *Queue) Front() (QueueNode, error) {
	if len(q.nodes) == 0 {
		q.track = mark(q.now, QueueHighlight, -1, "empty")
		return QueueNode{}, &seq.EmptyError{Container: "queue", Op: "read front"}
	}
	return q.nodes[0], nil
}

func (q *Queue) Rear() (QueueNode, error) {
	if len(q.nodes) == 0 {
		q.track = mark(q.now, QueueHighlight, -1, "empty")
		return QueueNode{}, &seq.EmptyError{Container: "queue", Op: "read rear"}
	}
	return q.nodes[len(q.nodes)-1], nil
}

// Settle turns freshly enqueued nodes into normal ones.
func (q *Queue) Settle() {
	for i := range q.nodes {
		if q.nodes[i].Status == StatusJustEnqueued {
			q.nodes[i].Status = StatusNormal
		}
	}
}

// MarkTrack highlights the queue track (the empty/full indicator).
func (q *Queue) MarkTrack(kind string) {
	q.track = mark(q.now, QueueHighlight, -1, kind)
}

func (q *Queue) Track() (Highlight, bool) {
	if q.track.Active(q.now()) {
		return q.track, true
	}
	return Highlight{}, false
}

func (q *Queue) IsEmpty() bool { return len(q.nodes) == 0 }

func (q *Queue) IsFull() bool { return len(q.nodes) >= q.capacity }

func (q *Queue) Len() int { return len(q.nodes) }

func (q *Queue) Cap() int { return q.capacity }

// Nodes lists the queue front to rear.
func (q *Queue) Nodes() []QueueNode { return slices.Clone(q.nodes) }

func (q *Queue) Values() []string {
	out := make([]string, len(q.nodes))
	for i, n := range q.nodes {
		out[i] = n.Value
	}
	return out
}

func (q *Queue) Reset() {
	q.nodes = nil
	q.track = Highlight{}
}

// Calm settles every node and drops highlights, keeping the contents.
func (q *Queue) Calm() {
	for i := range q.nodes {
		q.nodes[i].Status = StatusNormal
	}
	q.track = Highlight{}
}

func (q *Queue) Clone() *Queue {
	c := *q
	c.nodes = slices.Clone(q.nodes)
	return &c
}

func (q *Queue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Nodes    []QueueNode `json:"nodes"`
		Capacity int         `json:"capacity"`
		Track    Highlight   `json:"track"`
	}{q.nodes, q.capacity, q.track})
}
