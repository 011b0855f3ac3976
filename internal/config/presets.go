package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/algoviz/internal/ds"
)

func target(v float64) *float64 { return &v }

func opsOf(tokens ...string) []ds.Op {
	ops, err := ds.ParseOps(tokens)
	if err != nil {
		panic(err)
	}
	return ops
}

var Presets = map[string]map[string]*Config{
	"binary_search": {
		"example": {
			Algorithm: "binary_search", Array: []float64{12, 19, 27, 33, 41, 58, 66, 79},
			Target: target(58), DelayMs: 1400,
		},
		"missing": {
			Algorithm: "binary_search", Array: []float64{12, 19, 27, 33, 41, 58, 66, 79},
			Target: target(50), DelayMs: 1400,
		},
		"large": {
			Algorithm: "binary_search", Size: 16, Target: target(42), Speed: SpeedFast,
		},
	},
	"linear_search": {
		"example": {
			Algorithm: "linear_search", Array: []float64{10, 22, 35, 47, 51, 68},
			Target: target(47),
		},
		"missing": {
			Algorithm: "linear_search", Array: []float64{10, 22, 35, 47, 51, 68},
			Target: target(99),
		},
	},
	"bubble_sort": {
		"default": {
			Algorithm: "bubble_sort", Array: []float64{50, 30, 70, 20, 90, 40}, DelayMs: 820,
		},
		"reversed": {
			Algorithm: "bubble_sort", Array: []float64{90, 80, 70, 60, 50, 40, 30, 20}, Speed: SpeedFast,
		},
		"sorted": {
			Algorithm: "bubble_sort", Array: []float64{10, 20, 30, 40, 50}, Speed: SpeedMedium,
		},
	},
	"selection_sort": {
		"default": {
			Algorithm: "selection_sort", Array: []float64{29, 10, 14, 37, 13}, DelayMs: 650,
		},
		"random": {
			Algorithm: "selection_sort", Size: 10, Speed: SpeedFast,
		},
	},
	"merge_sort": {
		"default": {
			Algorithm: "merge_sort", Array: []float64{5, 2, 4, 7, 1, 3, 2, 6}, DelayMs: 520,
		},
		"odd": {
			Algorithm: "merge_sort", Array: []float64{38, 27, 43, 3, 9, 82, 10}, Speed: SpeedMedium,
		},
	},
	"list_search": {
		"example": {
			Algorithm: "list_search", Array: []float64{5, 8, 13, 21, 34}, Target: target(21),
		},
	},
	"stack": {
		"overflow": {
			Algorithm: "stack", MaxCapacity: 3,
			Ops: opsOf("push", "1", "push", "2", "push", "3", "push", "4", "isfull", "pop", "pop", "pop", "pop"),
		},
		"mixed": {
			Algorithm: "stack",
			Ops:       opsOf("push", "7", "push", "hello", "peek", "isempty"),
		},
	},
	"list": {
		"edit": {
			Algorithm: "list", Array: []float64{5, 8, 13}, MaxCapacity: 5,
			Ops: opsOf("insert_head", "2", "insert_tail", "21", "find", "13", "delete", "8", "insert_tail", "34", "insert_tail", "55", "isfull", "delete", "99"),
		},
	},
	"queue": {
		"fifo": {
			Algorithm: "queue", MaxCapacity: 3,
			Ops: opsOf("enqueue", "a", "enqueue", "b", "enqueue", "c", "enqueue", "d", "front", "dequeue", "rear", "dequeue", "dequeue", "dequeue"),
		},
	},
}

func GetPreset(algorithm, preset string) *Config {
	algoPresets, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	cfg, ok := algoPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

// FromPreset returns the default config with the named preset applied.
func FromPreset(algorithm, preset string) (*Config, error) {
	p := GetPreset(algorithm, preset)
	if p == nil {
		return nil, fmt.Errorf("unknown preset %q for %s", preset, algorithm)
	}
	cfg := DefaultConfig()
	cfg.Merge(p)
	return cfg, nil
}

func ListPresets(algorithm string) []string {
	algoPresets, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(algoPresets))
	for name := range algoPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
