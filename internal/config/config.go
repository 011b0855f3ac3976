package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/ds"
	"github.com/san-kum/algoviz/internal/seq"
)

const (
	MinDelayMs     = seq.MinDelayMs
	MaxDelayMs     = seq.MaxDelayMs
	DefaultPollMs  = 300
	DefaultAlgo    = "binary_search"
	DefaultSpeedMs = 820
)

// Speed tiers map to inter-step delays.
const (
	SpeedSlow   = "slow"
	SpeedMedium = "medium"
	SpeedFast   = "fast"
)

var speedDelays = map[string]int{
	SpeedSlow:   820,
	SpeedMedium: 500,
	SpeedFast:   150,
}

// algorithmDelays are the delays each visualizer page shipped with.
var algorithmDelays = map[string]int{
	string(algo.KindLinearSearch):  700,
	string(algo.KindBinarySearch):  1400,
	string(algo.KindBubbleSort):    820,
	string(algo.KindSelectionSort): 650,
	string(algo.KindMergeSort):     520,
	string(ds.KindListSearch):      700,
	string(ds.KindStackScript):     int(ds.StackHighlight / time.Millisecond),
	string(ds.KindQueueScript):     int(ds.QueueHighlight / time.Millisecond),
	string(ds.KindListScript):      700,
}

type Config struct {
	Algorithm   string    `yaml:"algorithm" json:"algorithm" validate:"required,oneof=linear_search binary_search bubble_sort selection_sort merge_sort list_search stack queue list"`
	Array       []float64 `yaml:"array,omitempty" json:"array,omitempty" validate:"max=64"`
	Size        int       `yaml:"size,omitempty" json:"size,omitempty" validate:"gte=0,lte=64"`
	Target      *float64  `yaml:"target,omitempty" json:"target,omitempty"`
	DelayMs     int       `yaml:"delay_ms" json:"delay_ms" validate:"gte=0"`
	Speed       string    `yaml:"speed,omitempty" json:"speed,omitempty" validate:"omitempty,oneof=slow medium fast"`
	MaxCapacity int       `yaml:"max_capacity" json:"max_capacity" validate:"gte=1,lte=100"`
	PollMs      int       `yaml:"poll_ms" json:"poll_ms" validate:"gte=0,lte=5000"`
	Seed        int64     `yaml:"seed,omitempty" json:"seed,omitempty"`
	Ops         []ds.Op   `yaml:"ops,omitempty" json:"ops,omitempty" validate:"max=200"`
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm:   DefaultAlgo,
		MaxCapacity: ds.DefaultCapacity,
		PollMs:      DefaultPollMs,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks struct tags and reports the first failure as a
// ValidationError naming the yaml field.
func (c *Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return seq.Invalid(fieldName(fe.Field()), "failed %q check (value %v)", fe.Tag(), fe.Value())
	}
	return err
}

func fieldName(f string) string {
	switch f {
	case "DelayMs":
		return "delay_ms"
	case "MaxCapacity":
		return "max_capacity"
	case "PollMs":
		return "poll_ms"
	}
	b := []byte(f)
	if len(b) > 0 && b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}

// Delay resolves the inter-step delay: an explicit delay_ms wins, then
// the speed tier, then the algorithm's own default. The result is clamped
// to [MinDelayMs, MaxDelayMs].
func (c *Config) Delay() time.Duration {
	ms := c.DelayMs
	if ms == 0 && c.Speed != "" {
		ms = speedDelays[c.Speed]
	}
	if ms == 0 {
		ms = AlgorithmDelay(c.Algorithm)
	}
	return time.Duration(ClampDelayMs(ms)) * time.Millisecond
}

func (c *Config) Poll() time.Duration {
	if c.PollMs <= 0 {
		return DefaultPollMs * time.Millisecond
	}
	return time.Duration(c.PollMs) * time.Millisecond
}

func ClampDelayMs(ms int) int {
	return max(MinDelayMs, min(ms, MaxDelayMs))
}

func AlgorithmDelay(name string) int {
	if ms, ok := algorithmDelays[name]; ok {
		return ms
	}
	return DefaultSpeedMs
}

// SpeedDelay returns the delay for a named tier.
func SpeedDelay(tier string) (time.Duration, bool) {
	ms, ok := speedDelays[tier]
	return time.Duration(ms) * time.Millisecond, ok
}

// SpeedTier labels a delay the way the speed slider does.
func SpeedTier(d time.Duration) string {
	switch ms := d.Milliseconds(); {
	case ms >= 650:
		return SpeedSlow
	case ms >= 350:
		return SpeedMedium
	default:
		return SpeedFast
	}
}

// Merge copies the fields set in other over c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Algorithm != "" {
		c.Algorithm = other.Algorithm
	}
	if len(other.Array) > 0 {
		c.Array = append([]float64(nil), other.Array...)
	}
	if other.Size > 0 {
		c.Size = other.Size
	}
	if other.Target != nil {
		t := *other.Target
		c.Target = &t
	}
	if other.DelayMs > 0 {
		c.DelayMs = other.DelayMs
	}
	if other.Speed != "" {
		c.Speed = other.Speed
	}
	if other.MaxCapacity > 0 {
		c.MaxCapacity = other.MaxCapacity
	}
	if other.PollMs > 0 {
		c.PollMs = other.PollMs
	}
	if other.Seed != 0 {
		c.Seed = other.Seed
	}
	if len(other.Ops) > 0 {
		c.Ops = append([]ds.Op(nil), other.Ops...)
	}
}
