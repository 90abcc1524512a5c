// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Clock     ClockConfig     `yaml:"clock"`
	Agents    AgentsConfig    `yaml:"agents"`
	Sensor    SensorConfig    `yaml:"sensor"`
	Trail     TrailConfig     `yaml:"trail"`
	Spawner   SpawnerConfig   `yaml:"spawner"`
	GPU       GPUConfig       `yaml:"gpu"`
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

// ClockConfig holds the simulated calendar parameters.
// The year clock is a monotonic float advanced every frame; the spawner
// reacts to integer year boundaries.
type ClockConfig struct {
	StartYear      float64 `yaml:"start_year"`       // First simulated year
	EndYear        float64 `yaml:"end_year"`         // Clock wraps back to start after this
	YearsPerSecond float64 `yaml:"years_per_second"` // Simulated years per wall-clock second
	WindowYears    float64 `yaml:"window_years"`     // Sliding window for bridge/project activity
}

// AgentsConfig holds agent arena and kinematics parameters.
type AgentsConfig struct {
	Capacity          int     `yaml:"capacity"`            // Max concurrent agents (slot pool size)
	Speed             float64 `yaml:"speed"`               // Base speed in px/frame
	FrontierSpeedMult float64 `yaml:"frontier_speed_mult"` // Frontier agents move this much faster
	SpeedJitter       float64 `yaml:"speed_jitter"`        // ± fraction of speed randomized at spawn
	SpawnJitter       float64 `yaml:"spawn_jitter"`        // Position jitter radius at spawn (px)
	EcoMinAge         int     `yaml:"eco_min_age"`         // Ecosystem lifetime range (frames)
	EcoMaxAge         int     `yaml:"eco_max_age"`
	FrontierMinAge    int     `yaml:"frontier_min_age"` // Frontier lifetime range (frames)
	FrontierMaxAge    int     `yaml:"frontier_max_age"`
	ArrivalRadius     float64 `yaml:"arrival_radius"` // Frontier dies within this distance of target
	GraceFrames       int     `yaml:"grace_frames"`   // No arrival checks before this age
}

// SensorConfig holds the three-sensor steering geometry.
type SensorConfig struct {
	Angle        float64 `yaml:"angle"`         // Side sensor offset from heading (radians)
	Distance     float64 `yaml:"distance"`      // Sensor distance ahead of the agent (px)
	TurnStrength float64 `yaml:"turn_strength"` // Heading change when turning toward a side (radians)
	Jitter       float64 `yaml:"jitter"`        // Max random heading change on sensor tie (radians)
	GoalBias     float64 `yaml:"goal_bias"`     // Frontier heading pull toward its target per frame [0,1]
}

// TrailConfig holds trail field decay and deposition parameters.
type TrailConfig struct {
	DecayFactor     float64 `yaml:"decay_factor"`     // Per-frame geometric decay, < 1
	DepositRadius   float64 `yaml:"deposit_radius"`   // Falloff radius around each agent (px)
	DepositStrength float64 `yaml:"deposit_strength"` // Peak deposit per agent per frame
	FrontierWeight  float64 `yaml:"frontier_weight"`  // Role weight for frontier agents
	EcosystemWeight float64 `yaml:"ecosystem_weight"` // Role weight for ecosystem agents
	TintSaturation  float64 `yaml:"tint_saturation"`  // Saturation of the cluster-hue tint [0,1]
}

// SpawnerConfig holds spawn-selection scheduler parameters.
type SpawnerConfig struct {
	MinSimilarity       float64 `yaml:"min_similarity"`      // Bridges below this never qualify
	TrioSize            int     `yaml:"trio_size"`           // Protagonist cluster count
	TrioIntervalYears   int     `yaml:"trio_interval_years"` // Reselect trio every N years
	FrontierCap         int     `yaml:"frontier_cap"`        // Max concurrent frontier agents
	SpawnCapPerTick     int     `yaml:"spawn_cap_per_tick"`  // Hard per-tick spawn batch cap
	WeightRecency       float64 `yaml:"weight_recency"`      // Frontier score weights
	WeightIntensity     float64 `yaml:"weight_intensity"`
	WeightBridging      float64 `yaml:"weight_bridging"`
	CooldownYears       float64 `yaml:"cooldown_years"`        // Pathway recency debounce
	RecencySaturationYr float64 `yaml:"recency_saturation_yr"` // Recency score saturates here
	NounWords           int     `yaml:"noun_words"`            // Directive noun truncation
}

// GPUConfig holds GPU pipeline parameters.
type GPUConfig struct {
	ShaderAgentCap   int `yaml:"shader_agent_cap"`  // Static loop bound in the deposition shader
	ReadbackInterval int `yaml:"readback_interval"` // Frames between debug mirror readbacks (0 = never)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	TexSide   int     // ceil(sqrt(Agents.Capacity)), side of the agent textures
	DT32      float32 // Seconds per frame at target FPS
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

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	side := int(math.Ceil(math.Sqrt(float64(c.Agents.Capacity))))
	if side < 1 {
		side = 1
	}
	c.Derived.TexSide = side

	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.DT32 = 1.0 / float32(fps)
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
