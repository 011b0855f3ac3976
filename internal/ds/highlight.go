package ds

import "time"

const (
	DefaultCapacity = 10

	StackHighlight = 700 * time.Millisecond
	QueueHighlight = 600 * time.Millisecond
)

// Clock returns the current time. Tests swap it for a fixed one.
type Clock func() time.Time

// Highlight marks a slot touched by the last operation. Index -1 means the
// container as a whole (the full/empty indicators).
type Highlight struct {
	Index int       `json:"index"`
	Kind  string    `json:"kind"`
	Until time.Time `json:"until"`
}

func (h Highlight) Active(now time.Time) bool {
	return h.Kind != "" && now.Before(h.Until)
}

func mark(now Clock, d time.Duration, index int, kind string) Highlight {
	return Highlight{Index: index, Kind: kind, Until: now().Add(d)}
}

var defaultClock Clock = time.Now
