// Package seq implements the step sequencer: a generic engine that walks a
// pure step function forward one committed step per tick, with pause,
// resume, cancel, reset and clear, and pushes immutable frames to observers.
package seq
