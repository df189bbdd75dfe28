package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the root configuration structure
type Config struct {
	Seed      int64          `yaml:"seed"`
	World     WorldConfig    `yaml:"world"`
	Physics   PhysicsConfig  `yaml:"physics"`
	GA        GAConfig       `yaml:"ga"`
	Fitness   FitnessConfig  `yaml:"fitness"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Logging   LogConfig      `yaml:"logging"`
	Storage   StorageConfig  `yaml:"storage"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}

// Vec2 is a plain 2D pair as written in YAML
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// WorldConfig defines the arena geometry. Y grows upwards: gravity pulls
// towards y=0, so the start sits near the bottom and the target near the top.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Start        *Vec2   `yaml:"start"`
	Target       *Vec2   `yaml:"target"`
	TargetRadius float64 `yaml:"target_radius"`
	CellSize     int     `yaml:"cell_size"`
}

// PhysicsConfig defines the velocity limit. Thrust gain and gravity are
// fixed constants of the env package.
type PhysicsConfig struct {
	MaxVelocity float64 `yaml:"max_velocity"`
	Clamp       string  `yaml:"clamp"` // legacy|cap
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Population     int      `yaml:"population"`
	Lifespan       int      `yaml:"lifespan"`
	MutationRate   *float64 `yaml:"mutation_rate"`
	ForceMagnitude float64  `yaml:"force_magnitude"`
}

// FitnessConfig defines fitness function parameters
type FitnessConfig struct {
	Mode         string   `yaml:"mode"` // min_distance|final_distance
	CrashPenalty *float64 `yaml:"crash_penalty"`
	CrashFloor   *float64 `yaml:"crash_floor"`
}

// RectConfig is a rectangle of obstacle cells in world units
type RectConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// ObstacleConfig lists obstacle cells painted before the first generation
type ObstacleConfig struct {
	Cells []Vec2       `yaml:"cells"`
	Rects []RectConfig `yaml:"rects"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	EveryGenSummary bool   `yaml:"every_gen_summary"`
	CSVPath         string `yaml:"csv_path"`
	JSONPath        string `yaml:"json_path"`
	ChartPath       string `yaml:"chart_path"`
	ChartEvery      int    `yaml:"chart_every"`
	ReplayEvery     int    `yaml:"replay_every"`
	ReplayDir       string `yaml:"replay_dir"`
}

// StorageConfig defines the run history database. Empty path disables it.
type StorageConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// MetricsConfig defines the Prometheus endpoint. Empty address disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Clamp modes
const (
	ClampLegacy = "legacy"
	ClampCap    = "cap"
)

// Fitness modes
const (
	FitnessMinDistance   = "min_distance"
	FitnessFinalDistance = "final_distance"
)

// Load reads a YAML config file and returns a validated Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes, applies defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.World.Width == 0 {
		cfg.World.Width = 800
	}
	if cfg.World.Height == 0 {
		cfg.World.Height = 600
	}
	if cfg.World.Start == nil {
		cfg.World.Start = &Vec2{X: cfg.World.Width / 2, Y: 20}
	}
	if cfg.World.Target == nil {
		cfg.World.Target = &Vec2{X: cfg.World.Width / 2, Y: cfg.World.Height - 60}
	}
	if cfg.World.TargetRadius == 0 {
		cfg.World.TargetRadius = 20
	}
	if cfg.World.CellSize == 0 {
		cfg.World.CellSize = 5
	}
	if cfg.Physics.MaxVelocity == 0 {
		cfg.Physics.MaxVelocity = 60
	}
	if cfg.Physics.Clamp == "" {
		cfg.Physics.Clamp = ClampLegacy
	}
	if cfg.GA.Population == 0 {
		cfg.GA.Population = 100
	}
	if cfg.GA.Lifespan == 0 {
		cfg.GA.Lifespan = 400
	}
	if cfg.GA.MutationRate == nil {
		cfg.GA.MutationRate = ptr(0.01)
	}
	if cfg.GA.ForceMagnitude == 0 {
		cfg.GA.ForceMagnitude = 0.2
	}
	if cfg.Fitness.Mode == "" {
		cfg.Fitness.Mode = FitnessMinDistance
	}
	if cfg.Fitness.CrashPenalty == nil {
		cfg.Fitness.CrashPenalty = ptr(0.5)
	}
	if cfg.Fitness.CrashFloor == nil {
		cfg.Fitness.CrashFloor = ptr(0.001)
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/data.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/run.jsonl"
	}
	if cfg.Logging.ChartPath == "" {
		cfg.Logging.ChartPath = "runs/chart.png"
	}
	if cfg.Logging.ChartEvery == 0 {
		cfg.Logging.ChartEvery = 10
	}
	if cfg.Logging.ReplayEvery == 0 {
		cfg.Logging.ReplayEvery = 50
	}
	if cfg.Logging.ReplayDir == "" {
		cfg.Logging.ReplayDir = "artifacts"
	}
}

// Validate rejects configurations that make physics or selection ill-defined
func (c *Config) Validate() error {
	switch {
	case c.GA.Population <= 0:
		return fmt.Errorf("%w: ga.population must be positive, got %d", ErrInvalid, c.GA.Population)
	case c.GA.Lifespan <= 0:
		return fmt.Errorf("%w: ga.lifespan must be positive, got %d", ErrInvalid, c.GA.Lifespan)
	case c.GA.MutationRate == nil:
		return fmt.Errorf("%w: ga.mutation_rate is required", ErrInvalid)
	case *c.GA.MutationRate < 0 || *c.GA.MutationRate > 1:
		return fmt.Errorf("%w: ga.mutation_rate must be in [0,1], got %g", ErrInvalid, *c.GA.MutationRate)
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world size must be positive, got %gx%g", ErrInvalid, c.World.Width, c.World.Height)
	case c.World.CellSize <= 0:
		return fmt.Errorf("%w: world.cell_size must be positive, got %d", ErrInvalid, c.World.CellSize)
	case c.World.TargetRadius <= 0:
		return fmt.Errorf("%w: world.target_radius must be positive, got %g", ErrInvalid, c.World.TargetRadius)
	case c.World.Start == nil || c.World.Target == nil:
		return fmt.Errorf("%w: world.start and world.target are required", ErrInvalid)
	case c.Fitness.CrashPenalty == nil || *c.Fitness.CrashPenalty < 0:
		return fmt.Errorf("%w: fitness.crash_penalty must be non-negative", ErrInvalid)
	case c.Fitness.CrashFloor == nil || *c.Fitness.CrashFloor < 0:
		return fmt.Errorf("%w: fitness.crash_floor must be non-negative", ErrInvalid)
	case c.Physics.MaxVelocity <= 0:
		return fmt.Errorf("%w: physics.max_velocity must be positive, got %g", ErrInvalid, c.Physics.MaxVelocity)
	}

	switch c.Physics.Clamp {
	case ClampLegacy, ClampCap:
	default:
		return fmt.Errorf("%w: unknown physics.clamp %q", ErrInvalid, c.Physics.Clamp)
	}
	switch c.Fitness.Mode {
	case FitnessMinDistance, FitnessFinalDistance:
	default:
		return fmt.Errorf("%w: unknown fitness.mode %q", ErrInvalid, c.Fitness.Mode)
	}
	return nil
}

// ptr returns a pointer to v for optional fields where zero is meaningful
func ptr[T any](v T) *T {
	return &v
}

// WriteYAML stores the effective configuration next to run artifacts
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// YAML returns the effective configuration as YAML text
func (c *Config) YAML() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}
