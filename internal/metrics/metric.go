package metrics

import (
	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/seq"
)

// Metric accumulates a single number over the frames of one run.
type Metric interface {
	Name() string
	Observe(f seq.Frame)
	Value() float64
	Reset()
}

// Observer fans frames out to ms.
func Observer(ms ...Metric) seq.Observer {
	return seq.ObserverFunc(func(f seq.Frame) {
		for _, m := range ms {
			m.Observe(f)
		}
	})
}

// Defaults returns a fresh set of the standard run metrics.
func Defaults() []Metric {
	return []Metric{NewSteps(), NewComparisons(), NewSwaps(), NewPauses()}
}

// Values collects the current value of every metric by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

type Steps struct {
	steps int
}

func NewSteps() *Steps { return &Steps{} }

func (s *Steps) Name() string { return "steps" }

func (s *Steps) Observe(f seq.Frame) { s.steps = f.Step }

func (s *Steps) Value() float64 { return float64(s.steps) }

func (s *Steps) Reset() { s.steps = 0 }

type Comparisons struct {
	n int
}

func NewComparisons() *Comparisons { return &Comparisons{} }

func (c *Comparisons) Name() string { return "comparisons" }

func (c *Comparisons) Observe(f seq.Frame) {
	if ct, ok := f.State.(algo.Counter); ok {
		c.n, _ = ct.Counts()
	}
}

func (c *Comparisons) Value() float64 { return float64(c.n) }

func (c *Comparisons) Reset() { c.n = 0 }

type Swaps struct {
	n int
}

func NewSwaps() *Swaps { return &Swaps{} }

func (s *Swaps) Name() string { return "swaps" }

func (s *Swaps) Observe(f seq.Frame) {
	if ct, ok := f.State.(algo.Counter); ok {
		_, s.n = ct.Counts()
	}
}

func (s *Swaps) Value() float64 { return float64(s.n) }

func (s *Swaps) Reset() { s.n = 0 }

// Pauses counts transitions into Paused.
type Pauses struct {
	n    int
	last seq.Status
}

func NewPauses() *Pauses { return &Pauses{} }

func (p *Pauses) Name() string { return "pauses" }

func (p *Pauses) Observe(f seq.Frame) {
	if f.Status == seq.Paused && p.last != seq.Paused {
		p.n++
	}
	p.last = f.Status
}

func (p *Pauses) Value() float64 { return float64(p.n) }

func (p *Pauses) Reset() {
	p.n = 0
	p.last = seq.Idle
}
