// Package algo holds the pure step functions animated by the sequencer:
// linear and binary search, bubble, selection and merge sort.
//
// Each algorithm has a value-typed state and a StepFunc that advances it by
// one visible sub-step, with a human readable annotation.
package algo
