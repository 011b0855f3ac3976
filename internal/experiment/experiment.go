package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/ds"
	"github.com/san-kum/algoviz/internal/inputs"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/seq"
)

type Config struct {
	Algorithm string
	Inputs    Inputs
	Delay     time.Duration
	Poll      time.Duration
	// Headless skips every delay.
	Headless bool
	RunID    string
}

// containers start empty when no array is given.
var containers = map[seq.Kind]bool{
	ds.KindStackScript: true,
	ds.KindQueueScript: true,
	ds.KindListScript:  true,
}

// FromConfig resolves a file/flag config into experiment inputs. Arrays
// missing from cfg are generated with rng.
func FromConfig(cfg *config.Config, rng *rand.Rand) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	kind := seq.Kind(cfg.Algorithm)

	array := cfg.Array
	if len(array) == 0 && !containers[kind] {
		if rng == nil {
			rng = rand.New(rand.NewSource(cfg.Seed))
		}
		array = inputs.Generate(rng, kind, cfg.Size)
	}

	var target *float64
	if cfg.Target != nil {
		t := *cfg.Target
		target = &t
	}

	return Config{
		Algorithm: cfg.Algorithm,
		Inputs: Inputs{
			Array:    inputs.Prepare(kind, array),
			Target:   target,
			Capacity: cfg.MaxCapacity,
			Ops:      cfg.Ops,
		},
		Delay: cfg.Delay(),
		Poll:  cfg.Poll(),
	}, nil
}

type Result struct {
	RunID      string             `json:"run_id"`
	Algorithm  string             `json:"algorithm"`
	Status     seq.Status         `json:"status"`
	Steps      int                `json:"steps"`
	Input      []float64          `json:"input,omitempty"`
	Final      seq.Frame          `json:"final"`
	Frames     []seq.Frame        `json:"-"`
	Metrics    map[string]float64 `json:"metrics"`
	Elapsed    time.Duration      `json:"elapsed"`
	StartedAt  time.Time          `json:"started_at"`
	Annotation string             `json:"annotation"`
}

type Experiment struct {
	cfg      Config
	player   seq.Player
	recorder *seq.Recorder
	metrics  []metrics.Metric
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg, recorder: seq.NewRecorder()}
}

func (e *Experiment) Setup(reg *Registry, ms []metrics.Metric, observers ...seq.Observer) error {
	opts := []seq.Option{
		seq.WithDelay(e.cfg.Delay),
		seq.WithPollInterval(e.cfg.Poll),
		seq.WithLogger(slog.Default()),
	}
	if e.cfg.Headless {
		opts = append(opts, seq.WithSleeper(seq.NoSleep))
	}
	if e.cfg.RunID != "" {
		opts = append(opts, seq.WithID(e.cfg.RunID))
	}

	p, err := reg.Build(e.cfg.Algorithm, e.cfg.Inputs, opts...)
	if err != nil {
		return err
	}
	e.player = p
	e.metrics = ms

	p.Subscribe(e.recorder)
	if len(ms) > 0 {
		p.Subscribe(metrics.Observer(ms...))
	}
	for _, o := range observers {
		p.Subscribe(o)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.player == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	for _, m := range e.metrics {
		m.Reset()
	}
	e.recorder.Reset()

	start := time.Now()
	if err := e.player.Start(ctx); err != nil {
		return nil, err
	}
	if err := e.player.Wait(ctx); err != nil {
		return nil, err
	}

	final := e.player.Frame()
	return &Result{
		RunID:      e.player.ID(),
		Algorithm:  e.cfg.Algorithm,
		Status:     final.Status,
		Steps:      final.Step,
		Input:      append([]float64(nil), e.cfg.Inputs.Array...),
		Final:      final,
		Frames:     e.recorder.Frames(),
		Metrics:    metrics.Values(e.metrics),
		Elapsed:    time.Since(start),
		StartedAt:  start,
		Annotation: final.Annotation,
	}, nil
}

// Player returns the underlying sequencer for interactive control.
func (e *Experiment) Player() seq.Player {
	return e.player
}
