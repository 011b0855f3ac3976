package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/algoviz/internal/seq"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws every frame it observes to w. It is meant for
// non-interactive runs where a full program would be overkill.
type LiveRenderer struct {
	mu        sync.Mutex
	w         io.Writer
	minGap    time.Duration
	lastFrame time.Time
	clear     bool
}

// NewLiveRenderer draws at most frameRate frames per second. Terminal
// frames are always drawn. A zero frameRate draws everything.
func NewLiveRenderer(w io.Writer, frameRate int, clear bool) *LiveRenderer {
	var gap time.Duration
	if frameRate > 0 {
		gap = time.Second / time.Duration(frameRate)
	}
	return &LiveRenderer{w: w, minGap: gap, clear: clear}
}

func (r *LiveRenderer) OnStep(f seq.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !f.Status.Finished() && time.Since(r.lastFrame) < r.minGap {
		return
	}
	r.lastFrame = time.Now()

	var b strings.Builder
	if r.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString("  " + Header(f) + "\n")
	b.WriteString("  " + strings.Repeat("─", 60) + "\n")
	for _, line := range strings.Split(RenderState(f.State, f.At), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("  " + strings.Repeat("─", 60) + "\n")
	if f.Annotation != "" {
		b.WriteString("  " + f.Annotation + "\n")
	}
	if !r.clear {
		b.WriteString("\n")
	}

	fmt.Fprint(r.w, b.String())
}

func (r *LiveRenderer) Start() {
	if r.clear {
		fmt.Fprint(r.w, hideCursor)
	}
}

func (r *LiveRenderer) Stop() {
	if r.clear {
		fmt.Fprint(r.w, showCursor)
	}
}
