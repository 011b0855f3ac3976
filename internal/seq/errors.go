package seq

import (
	"errors"
	"fmt"
)

// Error classes surfaced by sequencers and containers. None of them are
// fatal: callers report the message and carry on.
var (
	// ErrValidation indicates bad or missing input.
	ErrValidation = errors.New("seq: invalid input")

	// ErrCapacity indicates a bounded container is full.
	ErrCapacity = errors.New("seq: capacity exceeded")

	// ErrEmpty indicates an element was required but none was present.
	ErrEmpty = errors.New("seq: empty")

	// ErrIllegalState indicates a control operation invalid for the current status.
	ErrIllegalState = errors.New("seq: illegal state")

	// ErrStepLimit indicates a step function did not finish within the allowed steps.
	ErrStepLimit = errors.New("seq: step limit exceeded")
)

// ValidationError carries a user-facing message about a rejected input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// CapacityError reports a push or enqueue on a full container.
type CapacityError struct {
	Container string
	Op        string
	Capacity  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Cannot %s: the %s is full (max size = %d).", e.Op, e.Container, e.Capacity)
}

func (e *CapacityError) Unwrap() error { return ErrCapacity }

// EmptyError reports an operation that needs an element on an empty container.
type EmptyError struct {
	Container string
	Op        string
}

func (e *EmptyError) Error() string {
	return fmt.Sprintf("Cannot %s: the %s is already empty.", e.Op, e.Container)
}

func (e *EmptyError) Unwrap() error { return ErrEmpty }

// IllegalStateError reports a control operation that the current status forbids.
type IllegalStateError struct {
	Op     string
	Status Status
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.Status)
}

func (e *IllegalStateError) Unwrap() error { return ErrIllegalState }

// Message returns the user-facing text of err, without a field prefix.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
