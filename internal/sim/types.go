package sim

import (
	"errors"
	"fmt"

	"github.com/okrych/partsim/internal/particle"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidState indicates a particle went non-finite (NaN or Inf).
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrBadConfig indicates an unusable run configuration.
	ErrBadConfig = errors.New("sim: invalid configuration")
)

// Config describes one simulation run.
type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
	MinBound particle.Vec2
	MaxBound particle.Vec2
	// SampleEvery controls snapshot cadence: a frame is captured every
	// SampleEvery steps. Zero means every step.
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:          1.0 / 60.0,
		Duration:    5.0,
		MinBound:    particle.Vec2{X: -50, Y: -50},
		MaxBound:    particle.Vec2{X: 50, Y: 50},
		SampleEvery: 1,
	}
}

// Frame is a sampled snapshot of the full particle state.
type Frame struct {
	Step      int
	Time      float64
	Particles []particle.Particle
}

// Result collects the sampled frames and summary metrics of a run.
type Result struct {
	Frames     []Frame
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Metric observes the system once per step and reduces to a scalar.
type Metric interface {
	Name() string
	Observe(sys *particle.System, t float64)
	Value() float64
	Reset()
}

// Observer is called after every completed step, before sampling.
type Observer interface {
	OnStep(sys *particle.System, t float64)
}

// SimError records where a run stopped.
type SimError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e SimError) Unwrap() error {
	return e.Wrapped
}
