// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Particles ParticlesConfig `yaml:"particles"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Walls     WallsConfig     `yaml:"walls"`
	Histogram HistogramConfig `yaml:"histogram"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the size of the gas container in world units.
// The camera maps world units to screen pixels.
type WorldConfig struct {
	Width  int `yaml:"width"`  // 0 = use screen width
	Height int `yaml:"height"` // 0 = use screen height
}

// ParticlesConfig holds the particle population parameters.
type ParticlesConfig struct {
	Count           int     `yaml:"count"`
	MaxInitialSpeed float64 `yaml:"max_initial_speed"` // per-axis bound for seeded velocities
	PoolCapacity    int     `yaml:"pool_capacity"`     // 0 = count
	GridResX        int     `yaml:"grid_res_x"`        // grid columns; rows follow the aspect ratio
	Seed            uint64  `yaml:"seed"`
}

// PhysicsConfig holds time-step parameters.
type PhysicsConfig struct {
	DT     float64 `yaml:"dt"`
	MinDT  float64 `yaml:"min_dt"`
	MaxDT  float64 `yaml:"max_dt"`
	DTStep float64 `yaml:"dt_step"` // multiplier applied per frame while a speed key is held
}

// WallsConfig holds static wall parameters. A mask image takes precedence
// over procedural generation.
type WallsConfig struct {
	MaskPath     string  `yaml:"mask_path"`
	Generate     bool    `yaml:"generate"`
	NoiseScale   float64 `yaml:"noise_scale"`
	Threshold    float64 `yaml:"threshold"`
	Margin       int     `yaml:"margin"` // open border kept around generated walls, in pixels
	SphereRadius float64 `yaml:"sphere_radius"`
}

// HistogramConfig holds speed histogram parameters.
type HistogramConfig struct {
	Enabled bool `yaml:"enabled"`
	Bins    int  `yaml:"bins"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // simulated seconds per stats window
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	EquilibriumTolerance float64 `yaml:"equilibrium_tolerance"` // allowed |cv - rayleigh cv|
	EquilibriumWindows   int     `yaml:"equilibrium_windows"`
	EnergyDrift          float64 `yaml:"energy_drift"`          // relative kinetic energy change
	CollisionSpike       float64 `yaml:"collision_spike"`       // multiple of the rolling average
	PoolPressure         float64 `yaml:"pool_pressure"`         // fraction of the pool in use
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW    float64 // effective world width
	WorldH    float64 // effective world height
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	WorldW32  float32 // effective world width as float32
	WorldH32  float32 // effective world height as float32
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
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// validate rejects settings the simulation cannot run with.
func (c *Config) validate() error {
	if c.Particles.Count < 0 {
		return fmt.Errorf("particles.count must not be negative, got %d", c.Particles.Count)
	}
	if c.Particles.PoolCapacity != 0 && c.Particles.PoolCapacity < c.Particles.Count {
		return fmt.Errorf("particles.pool_capacity %d is smaller than particles.count %d",
			c.Particles.PoolCapacity, c.Particles.Count)
	}
	if c.Physics.MinDT <= 0 || c.Physics.MaxDT < c.Physics.MinDT {
		return fmt.Errorf("physics.min_dt/max_dt out of order: %v, %v", c.Physics.MinDT, c.Physics.MaxDT)
	}
	if c.Physics.DTStep <= 1 {
		return fmt.Errorf("physics.dt_step must exceed 1, got %v", c.Physics.DTStep)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW = float64(worldW)
	c.Derived.WorldH = float64(worldH)
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)

	c.Physics.DT = c.ClampDT(c.Physics.DT)
}

// ClampDT limits dt to the configured range.
func (c *Config) ClampDT(dt float64) float64 {
	if dt < c.Physics.MinDT {
		return c.Physics.MinDT
	}
	if dt > c.Physics.MaxDT {
		return c.Physics.MaxDT
	}
	return dt
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
