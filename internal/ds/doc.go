// Package ds provides the bounded containers shown by the visualizer
// (stack, queue, singly linked list) and step functions that replay
// scripted operations on them one at a time.
package ds
