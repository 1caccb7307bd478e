// Package sim drives an engine through a fixed-step simulation loop:
// it owns run configuration, snapshot sampling, metric collection, and
// cancellation, while the engine stays a stateless per-call transform.
package sim

import (
	"context"
	"fmt"

	"github.com/okrych/partsim/internal/engine"
	"github.com/okrych/partsim/internal/particle"
)

// Runner executes fixed-step runs of a particle system with one engine.
// The runner is the system's only writer while a run is in progress;
// observers and metrics see the system between phase-complete steps.
type Runner struct {
	engine    *engine.Engine
	metrics   []Metric
	observers []Observer
}

func New(e *engine.Engine) *Runner {
	return &Runner{engine: e}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrBadConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrBadConfig, cfg.Duration)
	}
	if cfg.MaxBound.X <= cfg.MinBound.X || cfg.MaxBound.Y <= cfg.MinBound.Y {
		return fmt.Errorf("%w: max bound must exceed min bound", ErrBadConfig)
	}
	return nil
}

// Run steps sys for cfg.Duration at cfg.Dt, sampling snapshots at the
// configured cadence. Context cancellation is checked between steps
// and returns the partial result with the context's error. A particle
// going non-finite stops the run early; the cause is recorded in
// Result.Errors rather than returned, matching the no-fault contract
// of the engine itself.
func (r *Runner) Run(ctx context.Context, sys *particle.System, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	sampleEvery := cfg.SampleEvery
	if sampleEvery <= 0 {
		sampleEvery = 1
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Frames:  make([]Frame, 0, steps/sampleEvery+1),
		Times:   make([]float64, 0, steps/sampleEvery+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	result.Frames = append(result.Frames, Frame{Step: 0, Time: t, Particles: sys.Snapshot()})
	result.Times = append(result.Times, t)

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		r.engine.Step(sys, cfg.MinBound, cfg.MaxBound, cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if !sys.Valid() {
			result.Errors = append(result.Errors, SimError{Step: i, Time: t, Wrapped: ErrInvalidState})
			break
		}

		for _, m := range r.metrics {
			m.Observe(sys, t)
		}
		for _, o := range r.observers {
			o.OnStep(sys, t)
		}

		if i%sampleEvery == 0 {
			result.Frames = append(result.Frames, Frame{Step: i, Time: t, Particles: sys.Snapshot()})
			result.Times = append(result.Times, t)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps until cfg.Duration or until callback returns
// false. The callback receives the live system and must not retain it
// across calls; live consumers read it between steps only.
func (r *Runner) RunWithCallback(ctx context.Context, sys *particle.System, cfg Config, callback func(sys *particle.System, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(sys, t) {
			return nil
		}

		r.engine.Step(sys, cfg.MinBound, cfg.MaxBound, cfg.Dt)
		t += cfg.Dt

		if !sys.Valid() {
			return SimError{Step: int(t / cfg.Dt), Time: t, Wrapped: ErrInvalidState}
		}
	}

	return nil
}
