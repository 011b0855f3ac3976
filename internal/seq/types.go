package seq

import (
	"context"
	"fmt"
	"time"
)

// Kind names the algorithm driving a sequencer.
type Kind string

// View is the read-only face of an algorithm state, used wherever the
// concrete type is not known (frames, storage, rendering).
type View interface {
	Kind() Kind
}

// State is implemented by every algorithm state. Implementations are value
// types: Clone must deep-copy slices so a committed state never aliases
// the one handed to the step function.
type State[S any] interface {
	View
	Clone() S
	// Reset returns a copy with derived highlight fields cleared and the data kept.
	Reset() S
	// Clear returns a copy with the data discarded.
	Clear() S
	// Validate reports whether the state can be run.
	Validate() error
}

// Transition is the result of one step.
type Transition[S any] struct {
	Next       S
	Done       bool
	Annotation string
}

// StepFunc advances a state by exactly one discrete step. It must be pure.
type StepFunc[S any] func(S) Transition[S]

type Status int

const (
	Idle Status = iota
	Running
	Paused
	Completed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, error) {
	for _, s := range []Status{Idle, Running, Paused, Completed, Cancelled} {
		if s.String() == name {
			return s, nil
		}
	}
	return Idle, fmt.Errorf("unknown status %q", name)
}

// Finished reports whether the status ends a run.
func (s Status) Finished() bool { return s == Completed || s == Cancelled }

// Snapshot is a typed, immutable copy of a sequencer's committed state.
type Snapshot[S any] struct {
	State      S
	Status     Status
	Annotation string
	Step       int
}

// Frame is the untyped snapshot pushed to observers and presentation layers.
type Frame struct {
	RunID      string    `json:"run_id"`
	Kind       Kind      `json:"kind"`
	State      View      `json:"state"`
	Status     Status    `json:"status"`
	Annotation string    `json:"annotation"`
	Step       int       `json:"step"`
	At         time.Time `json:"at"`
}

type Observer interface {
	OnStep(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (fn ObserverFunc) OnStep(f Frame) { fn(f) }

// Player is the algorithm-independent control surface of a sequencer.
type Player interface {
	ID() string
	Kind() Kind
	Start(ctx context.Context) error
	Pause() error
	Resume() error
	Cancel() error
	Reset() error
	Clear() error
	StepOnce() error
	SetDelay(d time.Duration) error
	Delay() time.Duration
	Frame() Frame
	Subscribe(o Observer) (unsubscribe func())
	Wait(ctx context.Context) error
}

// Sleeper suspends the run loop. It must return early with ctx.Err() when
// ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoSleep skips every suspension. Used for headless runs.
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
