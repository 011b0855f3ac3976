package seq

import (
	"errors"
	"testing"
	"time"
)

func TestErrorsUnwrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		msg    string
	}{
		{"validation", Invalid("target", "Target must be a number."), ErrValidation, "target: Target must be a number."},
		{"capacity", &CapacityError{Container: "stack", Op: "push", Capacity: 10}, ErrCapacity, "Cannot push: the stack is full (max size = 10)."},
		{"empty", &EmptyError{Container: "queue", Op: "dequeue"}, ErrEmpty, "Cannot dequeue: the queue is already empty."},
		{"illegal", &IllegalStateError{Op: "pause", Status: Idle}, ErrIllegalState, "cannot pause while idle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("expected %v to wrap %v", tt.err, tt.target)
			}
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestStatusText(t *testing.T) {
	for _, s := range []Status{Idle, Running, Paused, Completed, Cancelled} {
		b, _ := s.MarshalText()
		var got Status
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if got != s {
			t.Errorf("expected %v, got %v", s, got)
		}
	}
	if _, err := ParseStatus("bogus"); err == nil {
		t.Error("expected error for unknown status")
	}
	if !Completed.Finished() || Paused.Finished() {
		t.Error("unexpected Finished result")
	}
}

func TestClampDelay(t *testing.T) {
	if ClampDelay(0) != MinDelay {
		t.Errorf("expected %v, got %v", MinDelay, ClampDelay(0))
	}
	if ClampDelay(MaxDelay*2) != MaxDelay {
		t.Errorf("expected %v, got %v", MaxDelay, ClampDelay(MaxDelay*2))
	}
	if ClampDelay(10*time.Millisecond) != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %v", ClampDelay(10*time.Millisecond))
	}
	if ClampDelay(time.Minute) != 5*time.Second {
		t.Errorf("expected 5s, got %v", ClampDelay(time.Minute))
	}
}

func TestMessage(t *testing.T) {
	if got := Message(Invalid("array", "Generate or enter an array first.")); got != "Generate or enter an array first." {
		t.Errorf("expected bare message, got %q", got)
	}
	err := &EmptyError{Container: "stack", Op: "pop"}
	if got := Message(err); got != err.Error() {
		t.Errorf("expected %q, got %q", err.Error(), got)
	}
}
