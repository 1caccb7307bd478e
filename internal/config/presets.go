package config

// Presets are named starting configurations for common demos.
var Presets = map[string]*Config{
	// Dense shower under gravity, lossy bounces.
	"rain": {
		Particles: 400, Dt: DefaultDt, Duration: 10.0, SampleEvery: 2,
		Gravity:          VecConfig{X: 0, Y: -9.81},
		AirResistance:    0.02,
		CollisionDamping: 0.5,
		Bounds:           BoundsConfig{MinX: -50, MinY: -50, MaxX: 50, MaxY: 50},
		Spawn:            SpawnConfig{MassMin: 0.5, MassMax: 1.0, RadiusMin: 0.5, RadiusMax: 1.0, SpeedMax: 2.0},
	},
	// Frictionless elastic collisions, no gravity.
	"billiards": {
		Particles: 16, Dt: DefaultDt, Duration: 20.0, SampleEvery: 1,
		Gravity:          VecConfig{},
		AirResistance:    0,
		CollisionDamping: 1.0,
		Bounds:           BoundsConfig{MinX: -30, MinY: -30, MaxX: 30, MaxY: 30},
		Spawn:            SpawnConfig{MassMin: 1.0, MassMax: 1.0, RadiusMin: 2.0, RadiusMax: 2.0, SpeedMax: 15.0},
	},
	// Fast particles thrown upward against gravity.
	"fountain": {
		Particles: 200, Dt: DefaultDt, Duration: 8.0, SampleEvery: 1,
		Gravity:          VecConfig{X: 0, Y: -20.0},
		AirResistance:    0.005,
		CollisionDamping: 0.8,
		Bounds:           BoundsConfig{MinX: -40, MinY: 0, MaxX: 40, MaxY: 80},
		Spawn:            SpawnConfig{MassMin: 1.0, MassMax: 2.0, RadiusMin: 0.5, RadiusMax: 1.5, SpeedMax: 30.0},
	},
	// No forces at all; drift and collide.
	"vacuum": {
		Particles: 50, Dt: DefaultDt, Duration: 15.0, SampleEvery: 1,
		Gravity:          VecConfig{},
		AirResistance:    0,
		CollisionDamping: 0.9,
		Bounds:           BoundsConfig{MinX: -50, MinY: -50, MaxX: 50, MaxY: 50},
		Spawn:            SpawnConfig{MassMin: 1.0, MassMax: 5.0, RadiusMin: 1.0, RadiusMax: 4.0, SpeedMax: 8.0},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
