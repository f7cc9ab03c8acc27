// Package config provides configuration loading and access for the scenes.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Audio     AudioConfig     `yaml:"audio"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig holds the initial generation parameters for the point field.
type FieldConfig struct {
	Mode            string  `yaml:"mode"` // galaxy, scatter or wave
	Count           int     `yaml:"count"`
	MaxCount        int     `yaml:"max_count"` // allocation ceiling for Count
	Size            float64 `yaml:"size"`
	SizeVariation   float64 `yaml:"size_variation"`
	Radius          float64 `yaml:"radius"`
	Branches        int     `yaml:"branches"`
	Spin            float64 `yaml:"spin"`
	Randomness      float64 `yaml:"randomness"`
	RandomnessPower float64 `yaml:"randomness_power"`
	InsideColor     string  `yaml:"inside_color"`
	OutsideColor    string  `yaml:"outside_color"`
	Seed            int64   `yaml:"seed"` // 0 = time-based
	Animate         bool    `yaml:"animate"`
}

// PhysicsConfig holds rigid-body world parameters.
type PhysicsConfig struct {
	Gravity          []float64 `yaml:"gravity"`
	FixedStep        float64   `yaml:"fixed_step"`
	MaxSubSteps      int       `yaml:"max_sub_steps"`
	SolverIterations int       `yaml:"solver_iterations"`
	Friction         float64   `yaml:"friction"`
	Restitution      float64   `yaml:"restitution"`
	FloorY           float64   `yaml:"floor_y"`
	LinearDamping    float64   `yaml:"linear_damping"`
	AngularDamping   float64   `yaml:"angular_damping"`
}

// SpawnConfig holds parameters for randomly spawned bodies.
type SpawnConfig struct {
	Initial        int     `yaml:"initial"` // bodies spawned at startup
	Mass           float64 `yaml:"mass"`
	MaxRadius      float64 `yaml:"max_radius"`
	MaxBoxSize     float64 `yaml:"max_box_size"`
	MinDimension   float64 `yaml:"min_dimension"` // lower clamp for random sizes
	Height         float64 `yaml:"height"`
	Spread         float64 `yaml:"spread"`
	BoxProbability float64 `yaml:"box_probability"`
}

// AudioConfig holds collision sound parameters.
type AudioConfig struct {
	Enabled         bool    `yaml:"enabled"`
	SampleRate      int     `yaml:"sample_rate"`
	ImpactThreshold float64 `yaml:"impact_threshold"`
	MaxImpact       float64 `yaml:"max_impact"` // impact speed mapped to full volume
	Volume          float64 `yaml:"volume"`
	Frequency       float64 `yaml:"frequency"`
	DurationMS      int     `yaml:"duration_ms"`
}

// CameraConfig holds the orbit camera parameters.
type CameraConfig struct {
	Distance float64 `yaml:"distance"`
	Height   float64 `yaml:"height"`
	Speed    float64 `yaml:"speed"` // radians per second
	FOV      float64 `yaml:"fov"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow      int  `yaml:"perf_window"`
	StatsWindow     int  `yaml:"stats_window"` // ticks per frames.csv record
	BookmarkHistory int  `yaml:"bookmark_history"`
	Snapshots       bool `yaml:"snapshots"` // write a scene snapshot on each bookmark
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Gravity     mgl32.Vec3
	FixedStep32 float32
	FloorY32    float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	if len(c.Physics.Gravity) != 3 {
		return fmt.Errorf("physics.gravity: expected 3 components, got %d", len(c.Physics.Gravity))
	}
	c.Derived.Gravity = mgl32.Vec3{
		float32(c.Physics.Gravity[0]),
		float32(c.Physics.Gravity[1]),
		float32(c.Physics.Gravity[2]),
	}

	if c.Physics.FixedStep <= 0 {
		c.Physics.FixedStep = 1.0 / 60.0
	}
	if c.Physics.MaxSubSteps < 1 {
		c.Physics.MaxSubSteps = 1
	}
	if c.Physics.SolverIterations < 1 {
		c.Physics.SolverIterations = 1
	}
	c.Derived.FixedStep32 = float32(c.Physics.FixedStep)
	c.Derived.FloorY32 = float32(c.Physics.FloorY)

	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 300
	}
	if c.Telemetry.BookmarkHistory < 5 {
		c.Telemetry.BookmarkHistory = 5
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
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
