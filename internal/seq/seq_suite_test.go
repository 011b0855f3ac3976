package seq_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/algoviz/internal/seq"
)

func TestSeq(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sequencer Suite")
}

// countState walks Items left to right, one index per step.
type countState struct {
	Items []int
	Pos   int
	Mark  int
}

func (c countState) Kind() seq.Kind { return "count" }

func (c countState) Clone() countState {
	c.Items = append([]int(nil), c.Items...)
	return c
}

func (c countState) Reset() countState {
	c = c.Clone()
	c.Mark = -1
	return c
}

func (c countState) Clear() countState {
	return countState{Mark: -1}
}

func (c countState) Validate() error {
	if len(c.Items) == 0 {
		return seq.Invalid("array", "Generate or enter an array first.")
	}
	return nil
}

func countStep(c countState) seq.Transition[countState] {
	c.Mark = c.Pos
	c.Pos++
	return seq.Transition[countState]{
		Next:       c,
		Done:       c.Pos >= len(c.Items),
		Annotation: "visit",
	}
}

func newCount(n int) countState {
	items := make([]int, n)
	for i := range items {
		items[i] = i * 10
	}
	return countState{Items: items, Mark: -1}
}

// gate is a Sleeper that only returns when ticked or cancelled.
type gate chan struct{}

func (g gate) sleep(ctx context.Context, _ time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g:
		return nil
	}
}

func (g gate) tick() {
	select {
	case g <- struct{}{}:
	case <-time.After(time.Second):
		Fail("run loop never asked to sleep")
	}
}
