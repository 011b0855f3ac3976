package algo

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/san-kum/algoviz/internal/seq"
)

const (
	KindLinearSearch  seq.Kind = "linear_search"
	KindBinarySearch  seq.Kind = "binary_search"
	KindBubbleSort    seq.Kind = "bubble_sort"
	KindSelectionSort seq.Kind = "selection_sort"
	KindMergeSort     seq.Kind = "merge_sort"
)

// Counter is implemented by states that track work done so far.
type Counter interface {
	Counts() (comparisons, swaps int)
}

// Arrayed is implemented by states that expose their current values.
type Arrayed interface {
	Values() []float64
}

const msgNoArray = "Generate or enter an array first."

func validateArray(a []float64) error {
	if len(a) == 0 {
		return seq.Invalid("array", msgNoArray)
	}
	if slices.ContainsFunc(a, math.IsNaN) {
		return seq.Invalid("array", "Invalid input: use only numbers separated by commas.")
	}
	return nil
}

// ValidateTarget rejects a target no element can ever equal.
func ValidateTarget(t float64) error {
	if math.IsNaN(t) {
		return seq.Invalid("target", "Target must be a number.")
	}
	return nil
}

// Format renders a value without a trailing ".0" for integers.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func FormatAll(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Format(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func clone(a []float64) []float64 {
	if a == nil {
		return nil
	}
	return slices.Clone(a)
}

func itoa(i int) string { return strconv.Itoa(i) }
