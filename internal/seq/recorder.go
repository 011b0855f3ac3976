package seq

import "sync"

// Recorder keeps every frame it observes.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnStep(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Steps returns only frames that carry a committed step, dropping pure
// status changes.
func (r *Recorder) Steps() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Frame
	last := 0
	for _, f := range r.frames {
		if f.Step > last {
			out = append(out, f)
		}
		last = f.Step
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.frames = nil
	r.mu.Unlock()
}
