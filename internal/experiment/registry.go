package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/ds"
	"github.com/san-kum/algoviz/internal/seq"
)

// Inputs are the caller-owned values a sequencer is built from.
type Inputs struct {
	Array    []float64
	Target   *float64
	Capacity int
	Ops      []ds.Op
	Clock    ds.Clock
}

func (in Inputs) target() (float64, error) {
	if in.Target == nil {
		return 0, seq.Invalid("target", "Enter a target value.")
	}
	return *in.Target, nil
}

type Builder func(in Inputs, opts ...seq.Option) (seq.Player, error)

type entry struct {
	build       Builder
	description string
	search      bool
}

type Registry struct {
	algorithms map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{algorithms: make(map[string]entry)}

	r.register(algo.KindLinearSearch, "scan left to right until the target is found", true,
		func(in Inputs, opts ...seq.Option) (seq.Player, error) {
			t, err := in.target()
			if err != nil {
				return nil, err
			}
			return player(algo.NewLinearSearch(in.Array, t), algo.StepLinearSearch, opts)
		})
	r.register(algo.KindBinarySearch, "halve a sorted range around its mid point", true,
		func(in Inputs, opts ...seq.Option) (seq.Player, error) {
			t, err := in.target()
			if err != nil {
				return nil, err
			}
			return player(algo.NewBinarySearch(in.Array, t), algo.StepBinarySearch, opts)
		})
	r.register(algo.KindBubbleSort, "swap adjacent pairs until no pair is out of order", false,
		func(in Inputs, opts ...seq.Option) (seq.Player, error) {
			return player(algo.NewBubbleSort(in.Array), algo.StepBubbleSort, opts)
		})
	r.register(algo.KindSelectionSort, "move the minimum of the unsorted tail to its front", false,
		func(in Inputs, opts ...seq.Option) (seq.Player, error) {
			return player(algo.NewSelectionSort(in.Array), algo.StepSelectionSort, opts)
		})
	r.register(algo.KindMergeSort, "split to singletons then merge runs bottom-up", false,
		func(in Inputs, opts ...seq.Option) (seq.Player, error) {
			return player(algo.NewMergeSort(in.Array), algo.StepMergeSort, opts)
		})
	r.register(ds.KindListSearch, "follow next pointers through a linked list", true,
		func(in Inputs, opts ...seq.Option) (seq.Player, error) {
			t, err := in.target()
			if err != nil {
				return nil, err
			}
			l := ds.NewLinkedList(max(in.Capacity, len(in.Array)))
			for _, v := range in.Array {
				if err := l.InsertTail(v); err != nil {
					return nil, err
				}
			}
			return player(ds.NewListSearch(l, t), ds.StepListSearch, opts)
		})
	r.register(ds.KindStackScript, "replay push/pop operations on a bounded stack", false,
		func(in Inputs, opts ...seq.Option) (seq.Player, error) {
			return player(ds.NewStackScript(in.Capacity, in.Clock, in.Ops), ds.StepStackScript, opts)
		})
	r.register(ds.KindQueueScript, "replay enqueue/dequeue operations on a bounded queue", false,
		func(in Inputs, opts ...seq.Option) (seq.Player, error) {
			return player(ds.NewQueueScript(in.Capacity, in.Clock, in.Ops), ds.StepQueueScript, opts)
		})
	r.register(ds.KindListScript, "replay insert/delete/find operations on a linked list", false,
		func(in Inputs, opts ...seq.Option) (seq.Player, error) {
			st, err := ds.NewListScript(in.Capacity, in.Array, in.Ops)
			if err != nil {
				return nil, err
			}
			return player(st, ds.StepListScript, opts)
		})

	return r
}

func (r *Registry) register(kind seq.Kind, desc string, search bool, b Builder) {
	r.algorithms[string(kind)] = entry{build: b, description: desc, search: search}
}

func player[S seq.State[S]](initial S, step seq.StepFunc[S], opts []seq.Option) (seq.Player, error) {
	s, err := seq.New(initial, step, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Registry) Build(name string, in Inputs, opts ...seq.Option) (seq.Player, error) {
	e, ok := r.algorithms[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", name)
	}
	return e.build(in, opts...)
}

func (r *Registry) Describe(name string) string {
	return r.algorithms[name].description
}

// NeedsTarget reports whether the algorithm is a search.
func (r *Registry) NeedsTarget(name string) bool {
	return r.algorithms[name].search
}

// IsContainer reports whether the algorithm replays container operations
// rather than working on an array.
func (r *Registry) IsContainer(name string) bool {
	switch seq.Kind(name) {
	case ds.KindStackScript, ds.KindQueueScript, ds.KindListScript:
		return true
	}
	return false
}

func (r *Registry) ListAlgorithms() []string {
	names := make([]string, 0, len(r.algorithms))
	for name := range r.algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListSorts returns the array sorting algorithms.
func (r *Registry) ListSorts() []string {
	return []string{string(algo.KindBubbleSort), string(algo.KindMergeSort), string(algo.KindSelectionSort)}
}
