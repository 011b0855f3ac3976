package server

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/experiment"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/seq"
)

const streamBuffer = 64

type session struct {
	id        string
	algorithm string
	input     []float64
	created   time.Time

	ctx    context.Context
	cancel context.CancelFunc

	// ctlMu serialises control actions.
	ctlMu    sync.Mutex
	player   seq.Player
	recorder *seq.Recorder
	metrics  []metrics.Metric
	unsubs   []func()

	mu        sync.Mutex
	started   time.Time
	listeners map[chan seq.Frame]struct{}
}

func newSession(id string, cfg experiment.Config, p seq.Player) *session {
	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		ctx:       ctx,
		cancel:    cancel,
		id:        id,
		algorithm: cfg.Algorithm,
		input:     append([]float64(nil), cfg.Inputs.Array...),
		created:   time.Now(),
		player:    p,
		recorder:  seq.NewRecorder(),
		metrics:   metrics.Defaults(),
		listeners: make(map[chan seq.Frame]struct{}),
	}
	sess.unsubs = append(sess.unsubs,
		p.Subscribe(sess.recorder),
		p.Subscribe(metrics.Observer(sess.metrics...)),
		p.Subscribe(seq.ObserverFunc(sess.broadcast)),
	)
	return sess
}

// broadcast runs on the sequencer's goroutine and must not block. A
// listener that falls behind loses frames.
func (s *session) broadcast(f seq.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.listeners {
		select {
		case ch <- f:
		default:
		}
	}
}

func (s *session) listen() (<-chan seq.Frame, func()) {
	ch := make(chan seq.Frame, streamBuffer)
	s.mu.Lock()
	s.listeners[ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.listeners[ch]; ok {
			delete(s.listeners, ch)
			close(ch)
		}
	}
}

// control applies a named action to the player. Runs live as long as the
// session, not the request that started them.
func (s *session) control(action string, delayMs int) error {
	s.ctlMu.Lock()
	defer s.ctlMu.Unlock()

	switch action {
	case "start":
		if st := s.player.Frame().Status; st == seq.Running || st == seq.Paused {
			return &seq.IllegalStateError{Op: "start", Status: st}
		}
		s.recorder.Reset()
		for _, m := range s.metrics {
			m.Reset()
		}
		s.mu.Lock()
		s.started = time.Now()
		s.mu.Unlock()
		return s.player.Start(s.ctx)
	case "pause":
		return s.player.Pause()
	case "resume":
		return s.player.Resume()
	case "step":
		return s.player.StepOnce()
	case "cancel":
		return s.player.Cancel()
	case "reset":
		return s.player.Reset()
	case "clear":
		return s.player.Clear()
	case "speed":
		if delayMs <= 0 {
			return seq.Invalid("delay_ms", "delay_ms must be positive")
		}
		return s.player.SetDelay(time.Duration(config.ClampDelayMs(delayMs)) * time.Millisecond)
	default:
		return seq.Invalid("action", "unknown action %q", action)
	}
}

// result packages the last run for storage.
func (s *session) result(runID string) *experiment.Result {
	final := s.player.Frame()
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started.IsZero() {
		started = s.created
	}
	return &experiment.Result{
		RunID:      runID,
		Algorithm:  s.algorithm,
		Status:     final.Status,
		Steps:      final.Step,
		Input:      s.input,
		Final:      final,
		Frames:     s.recorder.Frames(),
		Metrics:    metrics.Values(s.metrics),
		Elapsed:    final.At.Sub(started),
		StartedAt:  started,
		Annotation: final.Annotation,
	}
}

func (s *session) close() {
	_ = s.player.Cancel()
	s.cancel()
	for _, u := range s.unsubs {
		u()
	}
	s.mu.Lock()
	for ch := range s.listeners {
		delete(s.listeners, ch)
		close(ch)
	}
	s.mu.Unlock()
}
