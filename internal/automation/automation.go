package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"slices"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/experiment"
	"github.com/san-kum/algoviz/internal/inputs"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/seq"
)

// Scenario is a scripted list of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Seed        int64          `yaml:"seed"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Unset fields fall back to the config defaults.
type ScenarioStep struct {
	config.Config `yaml:",inline"`
	SaveAs        string `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, seq.Invalid("steps", "scenario has no steps")
	}
	return &scenario, nil
}

// RunScenario runs every step headless, in order, and stops at the first
// step that fails to build or run.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]experiment.Result, error) {
	results := make([]experiment.Result, 0, len(scenario.Steps))
	rng := rand.New(rand.NewSource(scenario.Seed))

	for i, step := range scenario.Steps {
		cfg := config.DefaultConfig()
		cfg.Merge(&step.Config)

		slog.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "algorithm", cfg.Algorithm)

		ecfg, err := experiment.FromConfig(cfg, rng)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		ecfg.Headless = true

		exp := experiment.New(ecfg)
		if err := exp.Setup(registry, metrics.Defaults()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, *result)
	}

	return results, nil
}

// Comparison summarises one algorithm's headless run over a shared input.
type Comparison struct {
	Algorithm   string     `json:"algorithm"`
	Status      seq.Status `json:"status"`
	Steps       int        `json:"steps"`
	Comparisons int        `json:"comparisons"`
	Swaps       int        `json:"swaps"`
	Final       []float64  `json:"final"`
}

// Compare runs each sort over its own copy of array concurrently. Results
// follow the order of sorts.
func Compare(ctx context.Context, registry *experiment.Registry, sorts []string, array []float64) ([]Comparison, error) {
	out := make([]Comparison, len(sorts))
	g, ctx := errgroup.WithContext(ctx)

	for i, name := range sorts {
		g.Go(func() error {
			res, err := runHeadless(ctx, registry, name, experiment.Inputs{Array: slices.Clone(array)})
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			out[i] = summarise(res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Sweep describes a run of one algorithm over growing random inputs.
type Sweep struct {
	Algorithm string
	MinSize   int
	MaxSize   int
	Trials    int
	Seed      int64
}

type SweepResult struct {
	Size        int     `json:"size"`
	Steps       float64 `json:"steps"`
	Comparisons float64 `json:"comparisons"`
	Swaps       float64 `json:"swaps"`
}

// RunSweep averages step and comparison counts over Trials random arrays
// for every size in [MinSize, MaxSize].
func RunSweep(ctx context.Context, sweep *Sweep, registry *experiment.Registry) ([]SweepResult, error) {
	if registry.NeedsTarget(sweep.Algorithm) || registry.IsContainer(sweep.Algorithm) {
		return nil, seq.Invalid("algorithm", "sweeps only support sorting algorithms")
	}
	if sweep.MinSize < 1 || sweep.MaxSize < sweep.MinSize {
		return nil, seq.Invalid("size", "invalid size range %d..%d", sweep.MinSize, sweep.MaxSize)
	}
	trials := max(sweep.Trials, 1)
	rng := rand.New(rand.NewSource(sweep.Seed))

	results := make([]SweepResult, 0, sweep.MaxSize-sweep.MinSize+1)
	for n := sweep.MinSize; n <= sweep.MaxSize; n++ {
		var acc SweepResult
		for t := 0; t < trials; t++ {
			res, err := runHeadless(ctx, registry, sweep.Algorithm, experiment.Inputs{Array: inputs.RandomArray(rng, n)})
			if err != nil {
				return nil, err
			}
			c := summarise(res)
			acc.Steps += float64(c.Steps)
			acc.Comparisons += float64(c.Comparisons)
			acc.Swaps += float64(c.Swaps)
		}
		results = append(results, SweepResult{
			Size:        n,
			Steps:       acc.Steps / float64(trials),
			Comparisons: acc.Comparisons / float64(trials),
			Swaps:       acc.Swaps / float64(trials),
		})
		slog.Debug("sweep", "algorithm", sweep.Algorithm, "size", n)
	}
	return results, nil
}

func runHeadless(ctx context.Context, registry *experiment.Registry, name string, in experiment.Inputs) (*experiment.Result, error) {
	exp := experiment.New(experiment.Config{
		Algorithm: name,
		Inputs:    in,
		Headless:  true,
	})
	if err := exp.Setup(registry, metrics.Defaults()); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func summarise(res *experiment.Result) Comparison {
	c := Comparison{
		Algorithm:   res.Algorithm,
		Status:      res.Status,
		Steps:       res.Steps,
		Comparisons: int(res.Metrics["comparisons"]),
		Swaps:       int(res.Metrics["swaps"]),
	}
	if a, ok := res.Final.State.(algo.Arrayed); ok {
		c.Final = a.Values()
	}
	return c
}
