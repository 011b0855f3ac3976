package seq

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	errStopped = errors.New("seq: run stopped")
	errPaused  = errors.New("seq: run paused")
)

// Sequencer drives a StepFunc over a State, one committed step per tick.
//
// Every state change is committed while holding emitMu and then mu;
// observers are notified with emitMu still held, so they see frames in
// commit order. Observers must not call control methods synchronously.
type Sequencer[S State[S]] struct {
	id     string
	kind   Kind
	step   StepFunc[S]
	sleep  Sleeper
	poll   time.Duration
	logger *slog.Logger

	emitMu sync.Mutex

	mu         sync.RWMutex
	initial    S
	state      S
	status     Status
	annotation string
	steps      int
	delay      time.Duration
	at         time.Time
	cancel     context.CancelFunc
	done       chan struct{}

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// New validates initial and returns an Idle sequencer over a private copy of it.
func New[S State[S]](initial S, step StepFunc[S], opts ...Option) (*Sequencer[S], error) {
	if step == nil {
		return nil, Invalid("step", "step function is required")
	}
	if err := initial.Validate(); err != nil {
		return nil, err
	}

	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	s := &Sequencer[S]{
		id:        cfg.id,
		kind:      initial.Kind(),
		step:      step,
		sleep:     cfg.sleep,
		poll:      cfg.poll,
		delay:     cfg.delay,
		initial:   initial.Clone(),
		state:     initial.Clone(),
		status:    Idle,
		at:        time.Now(),
		observers: make(map[int]Observer),
	}
	s.logger = cfg.logger.With("run_id", s.id, "algorithm", string(s.kind))
	return s, nil
}

func (s *Sequencer[S]) ID() string { return s.id }

func (s *Sequencer[S]) Kind() Kind { return s.kind }

func (s *Sequencer[S]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Sequencer[S]) Delay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delay
}

// Snapshot returns a copy of the last committed state.
func (s *Sequencer[S]) Snapshot() Snapshot[S] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot[S]{
		State:      s.state.Clone(),
		Status:     s.status,
		Annotation: s.annotation,
		Step:       s.steps,
	}
}

func (s *Sequencer[S]) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frameLocked()
}

func (s *Sequencer[S]) frameLocked() Frame {
	return Frame{
		RunID:      s.id,
		Kind:       s.kind,
		State:      s.state.Clone(),
		Status:     s.status,
		Annotation: s.annotation,
		Step:       s.steps,
		At:         s.at,
	}
}

// Subscribe registers o for every committed frame.
func (s *Sequencer[S]) Subscribe(o Observer) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *Sequencer[S]) notify(f Frame) {
	s.obsMu.Lock()
	obs := make([]Observer, 0, len(s.observers))
	for _, id := range slices.Sorted(maps.Keys(s.observers)) {
		obs = append(obs, s.observers[id])
	}
	s.obsMu.Unlock()

	for _, o := range obs {
		o.OnStep(f)
	}
}

// commit applies fn to the guarded fields and publishes the resulting frame.
// fn returns false to abort without publishing.
func (s *Sequencer[S]) commit(fn func() (bool, error)) error {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	ok, err := fn()
	if err != nil || !ok {
		s.mu.Unlock()
		return err
	}
	s.at = time.Now()
	f := s.frameLocked()
	s.mu.Unlock()

	s.notify(f)
	return nil
}

// Start begins a run from the current inputs. A finished or idle
// sequencer always restarts from step zero.
func (s *Sequencer[S]) Start(ctx context.Context) error {
	s.mu.RLock()
	status, prev := s.status, s.done
	s.mu.RUnlock()
	if status == Running || status == Paused {
		return &IllegalStateError{Op: "start", Status: status}
	}
	if prev != nil {
		<-prev
	}

	var (
		runCtx context.Context
		done   chan struct{}
	)
	err := s.commit(func() (bool, error) {
		if s.status == Running || s.status == Paused {
			return false, &IllegalStateError{Op: "start", Status: s.status}
		}
		if err := s.initial.Validate(); err != nil {
			return false, err
		}
		if s.cancel != nil {
			s.cancel()
		}
		runCtx, s.cancel = context.WithCancel(ctx)
		done = make(chan struct{})
		s.done = done
		s.state = s.initial.Clone()
		s.steps = 0
		s.annotation = ""
		s.status = Running
		return true, nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("run started", "delay", s.Delay())
	go s.run(runCtx, done)
	return nil
}

func (s *Sequencer[S]) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		// parent context ended underneath a live run
		_ = s.commit(func() (bool, error) {
			if s.done != done || (s.status != Running && s.status != Paused) {
				return false, nil
			}
			s.status = Cancelled
			s.state = s.state.Reset()
			return true, nil
		})
		s.logger.Debug("run exited", "status", s.Status().String())
	}()

	for {
		if err := s.waitWhilePaused(ctx); err != nil {
			return
		}
		finished, err := s.advance(ctx, Running)
		if errors.Is(err, errPaused) {
			continue
		}
		if err != nil || finished {
			return
		}
		if err := s.sleep(ctx, s.Delay()); err != nil {
			return
		}
	}
}

func (s *Sequencer[S]) waitWhilePaused(ctx context.Context) error {
	for {
		switch s.Status() {
		case Running:
			return nil
		case Paused:
			if err := s.sleep(ctx, s.poll); err != nil {
				return err
			}
		default:
			return errStopped
		}
	}
}

// advance commits exactly one step if the sequencer is in want.
func (s *Sequencer[S]) advance(ctx context.Context, want Status) (bool, error) {
	var (
		finished bool
		steps    int
	)
	err := s.commit(func() (bool, error) {
		if s.status != want {
			if want == Running && s.status == Paused {
				return false, errPaused
			}
			if want == Running {
				return false, errStopped
			}
			return false, &IllegalStateError{Op: "step", Status: s.status}
		}
		if ctx != nil && ctx.Err() != nil {
			return false, ctx.Err()
		}
		t := s.step(s.state.Clone())
		s.state = t.Next
		s.annotation = t.Annotation
		s.steps++
		if t.Done {
			s.status = Completed
			finished = true
		}
		steps = s.steps
		return true, nil
	})
	if finished {
		s.logger.Debug("run completed", "steps", steps)
	}
	return finished, err
}

func (s *Sequencer[S]) Pause() error {
	return s.transition("pause", Running, Paused)
}

// Resume continues a paused run without reinitialising its state.
func (s *Sequencer[S]) Resume() error {
	return s.transition("resume", Paused, Running)
}

func (s *Sequencer[S]) transition(op string, from, to Status) error {
	return s.commit(func() (bool, error) {
		if s.status != from {
			return false, &IllegalStateError{Op: op, Status: s.status}
		}
		s.status = to
		return true, nil
	})
}

// StepOnce advances a paused run by a single step.
func (s *Sequencer[S]) StepOnce() error {
	_, err := s.advance(nil, Paused)
	return err
}

// Cancel stops the run. At most the in-flight step completes.
func (s *Sequencer[S]) Cancel() error {
	return s.stop(func() {
		s.status = Cancelled
		s.state = s.state.Reset()
	})
}

// Reset returns to Idle with the original inputs.
func (s *Sequencer[S]) Reset() error {
	return s.stop(func() {
		s.status = Idle
		s.state = s.initial.Clone()
		s.annotation = ""
		s.steps = 0
	})
}

// Clear returns to Idle and discards the input data.
func (s *Sequencer[S]) Clear() error {
	return s.stop(func() {
		s.initial = s.initial.Clear()
		s.status = Idle
		s.state = s.initial.Clone()
		s.annotation = ""
		s.steps = 0
	})
}

// Load replaces the inputs. Not allowed while a run is live.
func (s *Sequencer[S]) Load(initial S) error {
	if err := initial.Validate(); err != nil {
		return err
	}
	return s.commit(func() (bool, error) {
		if s.status == Running || s.status == Paused {
			return false, &IllegalStateError{Op: "load", Status: s.status}
		}
		s.initial = initial.Clone()
		s.state = initial.Clone()
		s.status = Idle
		s.annotation = ""
		s.steps = 0
		return true, nil
	})
}

func (s *Sequencer[S]) stop(apply func()) error {
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)
	err := s.commit(func() (bool, error) {
		apply()
		cancel, done = s.cancel, s.done
		s.cancel = nil
		return true, nil
	})
	if err != nil {
		return err
	}
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return nil
}

// SetDelay changes the inter-step delay. Rejected while running.
func (s *Sequencer[S]) SetDelay(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == Running {
		return &IllegalStateError{Op: "change speed", Status: s.status}
	}
	s.delay = ClampDelay(d)
	return nil
}

// Wait blocks until the current run loop exits or ctx ends.
func (s *Sequencer[S]) Wait(ctx context.Context) error {
	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
