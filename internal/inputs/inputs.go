package inputs

import (
	"math"
	"math/rand"
	"slices"
	"strconv"
	"strings"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/seq"
)

const (
	MinValue = 10
	MaxValue = 99
)

// SizeRange bounds the length of a generated array.
type SizeRange struct {
	Min     int
	Max     int
	Default int
	Sorted  bool
}

func (r SizeRange) Clamp(n int) int {
	if n <= 0 {
		n = r.Default
	}
	return max(r.Min, min(n, r.Max))
}

var sizes = map[seq.Kind]SizeRange{
	algo.KindLinearSearch:  {Min: 2, Max: 15, Default: 8},
	algo.KindBinarySearch:  {Min: 4, Max: 16, Default: 8, Sorted: true},
	algo.KindBubbleSort:    {Min: 2, Max: 16, Default: 8},
	algo.KindSelectionSort: {Min: 2, Max: 16, Default: 10},
	algo.KindMergeSort:     {Min: 2, Max: 16, Default: 8},
}

// Size returns the generation bounds for kind.
func Size(kind seq.Kind) SizeRange {
	if r, ok := sizes[kind]; ok {
		return r
	}
	return SizeRange{Min: 2, Max: 16, Default: 8}
}

// ParseArray reads comma separated numbers such as "10, 22,35".
func ParseArray(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, seq.Invalid("array", "Enter values separated by commas (e.g. 10,22,35).")
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || math.IsNaN(v) {
			return nil, seq.Invalid("array", "Invalid input: use only numbers separated by commas.")
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, seq.Invalid("array", "Enter values separated by commas (e.g. 10,22,35).")
	}
	return out, nil
}

func ParseTarget(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, seq.Invalid("target", "Enter a target value.")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, seq.Invalid("target", "Target must be a number.")
	}
	return v, nil
}

// RandomArray returns n values in [MinValue, MaxValue].
func RandomArray(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(MinValue + rng.Intn(MaxValue-MinValue+1))
	}
	return out
}

// Generate builds a random array for kind, clamping n to its size range
// and sorting when the algorithm needs sorted input.
func Generate(rng *rand.Rand, kind seq.Kind, n int) []float64 {
	r := Size(kind)
	out := RandomArray(rng, r.Clamp(n))
	if r.Sorted {
		slices.Sort(out)
	}
	return out
}

// Prepare adapts user input to kind. Binary search sorts its input the
// way the manual entry box does.
func Prepare(kind seq.Kind, array []float64) []float64 {
	out := slices.Clone(array)
	if Size(kind).Sorted {
		slices.Sort(out)
	}
	return out
}

// FormatArray is the inverse of ParseArray.
func FormatArray(a []float64) string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = algo.Format(v)
	}
	return strings.Join(parts, ",")
}
