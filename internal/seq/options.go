package seq

import (
	"log/slog"
	"time"
)

// Every inter-step delay, whatever its source, is clamped to
// [MinDelay, MaxDelay].
const (
	MinDelayMs = 50
	MaxDelayMs = 5000

	MinDelay = MinDelayMs * time.Millisecond
	MaxDelay = MaxDelayMs * time.Millisecond

	DefaultDelay        = 820 * time.Millisecond
	DefaultPollInterval = 300 * time.Millisecond
)

type settings struct {
	id     string
	delay  time.Duration
	poll   time.Duration
	sleep  Sleeper
	logger *slog.Logger
}

func defaultSettings() settings {
	return settings{
		delay: DefaultDelay,
		poll:  DefaultPollInterval,
		sleep: Sleep,
	}
}

type Option func(*settings)

// WithDelay sets the pause between steps, clamped to [MinDelay, MaxDelay].
func WithDelay(d time.Duration) Option {
	return func(s *settings) { s.delay = ClampDelay(d) }
}

// WithPollInterval sets how often a paused run checks whether it was resumed.
func WithPollInterval(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.poll = d
		}
	}
}

func WithSleeper(fn Sleeper) Option {
	return func(s *settings) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithID overrides the generated run id.
func WithID(id string) Option {
	return func(s *settings) { s.id = id }
}

func ClampDelay(d time.Duration) time.Duration {
	if d < MinDelay {
		return MinDelay
	}
	if d > MaxDelay {
		return MaxDelay
	}
	return d
}
