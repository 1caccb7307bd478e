package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultParticles = 100
	DefaultDt        = 1.0 / 60.0
	DefaultDuration  = 5.0
	DefaultDamping   = 0.8
	DefaultDrag      = 0.01
	DefaultGravityY  = -9.81

	// MaxParticles bounds the particle count accepted from callers;
	// the all-pairs collision scan is quadratic and counts above this
	// stop being interactive.
	MaxParticles = 5000
)

type Config struct {
	Particles   int     `yaml:"particles"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Seed        int64   `yaml:"seed"`
	SampleEvery int     `yaml:"sample_every"`

	Gravity          VecConfig    `yaml:"gravity"`
	AirResistance    float64      `yaml:"air_resistance"`
	CollisionDamping float64      `yaml:"collision_damping"`
	Bounds           BoundsConfig `yaml:"bounds"`
	Spawn            SpawnConfig  `yaml:"spawn"`
}

type VecConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type BoundsConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// SpawnConfig describes the ranges used for randomized initial state.
type SpawnConfig struct {
	MassMin   float64 `yaml:"mass_min"`
	MassMax   float64 `yaml:"mass_max"`
	RadiusMin float64 `yaml:"radius_min"`
	RadiusMax float64 `yaml:"radius_max"`
	SpeedMax  float64 `yaml:"speed_max"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:        DefaultParticles,
		Dt:               DefaultDt,
		Duration:         DefaultDuration,
		SampleEvery:      1,
		Gravity:          VecConfig{X: 0, Y: DefaultGravityY},
		AirResistance:    DefaultDrag,
		CollisionDamping: DefaultDamping,
		Bounds:           BoundsConfig{MinX: -50, MinY: -50, MaxX: 50, MaxY: 50},
		Spawn: SpawnConfig{
			MassMin:   1.0,
			MassMax:   3.0,
			RadiusMin: 1.0,
			RadiusMax: 3.0,
			SpeedMax:  10.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

func (c *Config) Validate() error {
	if c.Particles < 1 || c.Particles > MaxParticles {
		return fmt.Errorf("config: particles must be in [1, %d], got %d", MaxParticles, c.Particles)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	if c.CollisionDamping < 0 || c.CollisionDamping > 1 {
		return fmt.Errorf("config: collision_damping must be in [0,1], got %f", c.CollisionDamping)
	}
	if c.AirResistance < 0 {
		return fmt.Errorf("config: air_resistance must be non-negative, got %f", c.AirResistance)
	}
	if c.Bounds.MaxX <= c.Bounds.MinX || c.Bounds.MaxY <= c.Bounds.MinY {
		return fmt.Errorf("config: bounds max must exceed min")
	}
	if c.Spawn.MassMin <= 0 || c.Spawn.MassMax < c.Spawn.MassMin {
		return fmt.Errorf("config: spawn mass range invalid")
	}
	return nil
}
