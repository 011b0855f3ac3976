package seq

import "fmt"

// Drain runs step from initial until it reports Done, without timers.
// It returns every transition in order. limit bounds the number of steps;
// a limit <= 0 means 10000.
func Drain[S State[S]](initial S, step StepFunc[S], limit int) ([]Transition[S], error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10000
	}

	var out []Transition[S]
	cur := initial.Clone()
	for i := 0; i < limit; i++ {
		t := step(cur.Clone())
		out = append(out, t)
		if t.Done {
			return out, nil
		}
		cur = t.Next
	}
	return out, fmt.Errorf("%s after %d steps: %w", initial.Kind(), limit, ErrStepLimit)
}

// Final returns the last state of a drained run.
func Final[S any](ts []Transition[S]) (S, bool) {
	if len(ts) == 0 {
		var zero S
		return zero, false
	}
	return ts[len(ts)-1].Next, true
}
