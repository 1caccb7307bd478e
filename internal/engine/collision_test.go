package engine

import (
	"math"
	"testing"

	"github.com/okrych/partsim/internal/particle"
)

// Equal masses approaching head-on with damping 1.0 swap velocities,
// and end at least sum-of-radii apart.
func TestElasticHeadOnSwap(t *testing.T) {
	e := New()
	e.SetCollisionDamping(1.0)

	p1 := newParticle(t, -0.5, 0, 1.0)
	p1.Radius = 1
	p1.Velocity = particle.Vec2{X: 5, Y: 0}

	p2 := newParticle(t, 0.5, 0, 1.0)
	p2.Radius = 1
	p2.Velocity = particle.Vec2{X: -5, Y: 0}

	sys := newSystem(t, p1, p2)
	e.HandleCollisions(sys)

	if sys.At(0).Velocity != (particle.Vec2{X: -5, Y: 0}) {
		t.Errorf("p1 velocity = %v, want (-5, 0)", sys.At(0).Velocity)
	}
	if sys.At(1).Velocity != (particle.Vec2{X: 5, Y: 0}) {
		t.Errorf("p2 velocity = %v, want (5, 0)", sys.At(1).Velocity)
	}

	dist := sys.At(1).Position.Sub(sys.At(0).Position).Length()
	if dist < 2 {
		t.Errorf("post-resolution distance = %f, want >= 2", dist)
	}
}

// Exactly touching is not a collision; detection requires strict
// overlap.
func TestTouchingIsNotColliding(t *testing.T) {
	e := New()

	p1 := newParticle(t, -1, 0, 1.0)
	p1.Radius = 1
	p2 := newParticle(t, 1, 0, 1.0)
	p2.Radius = 1
	p1.Velocity = particle.Vec2{X: 5, Y: 0}
	p2.Velocity = particle.Vec2{X: -5, Y: 0}

	sys := newSystem(t, p1, p2)
	e.HandleCollisions(sys)

	if sys.At(0).Velocity.X != 5 || sys.At(1).Velocity.X != -5 {
		t.Error("touching particles should not exchange impulse")
	}
}

func TestSeparatingPairGetsNoImpulse(t *testing.T) {
	e := New()
	e.SetCollisionDamping(1.0)

	// Overlapping but already moving apart.
	p1 := newParticle(t, -0.5, 0, 1.0)
	p1.Radius = 1
	p1.Velocity = particle.Vec2{X: -2, Y: 0}

	p2 := newParticle(t, 0.5, 0, 1.0)
	p2.Radius = 1
	p2.Velocity = particle.Vec2{X: 2, Y: 0}

	sys := newSystem(t, p1, p2)
	e.HandleCollisions(sys)

	if sys.At(0).Velocity != (particle.Vec2{X: -2, Y: 0}) || sys.At(1).Velocity != (particle.Vec2{X: 2, Y: 0}) {
		t.Error("separating pair received an impulse")
	}

	// Positional de-overlap still happens.
	dist := sys.At(1).Position.Sub(sys.At(0).Position).Length()
	if dist < 2 {
		t.Errorf("overlap not corrected: distance = %f", dist)
	}
}

func TestCoincidentCentersSkipped(t *testing.T) {
	e := New()

	p1 := newParticle(t, 3, 3, 1.0)
	p1.Velocity = particle.Vec2{X: 1, Y: 0}
	p2 := newParticle(t, 3, 3, 1.0)
	p2.Velocity = particle.Vec2{X: -1, Y: 0}

	sys := newSystem(t, p1, p2)
	e.HandleCollisions(sys)

	// Undefined normal: the pair is left entirely alone this step.
	if sys.At(0).Position != (particle.Vec2{X: 3, Y: 3}) || sys.At(1).Position != (particle.Vec2{X: 3, Y: 3}) {
		t.Error("coincident pair positions changed")
	}
	if sys.At(0).Velocity.X != 1 || sys.At(1).Velocity.X != -1 {
		t.Error("coincident pair velocities changed")
	}
}

func TestUnequalMassImpulse(t *testing.T) {
	e := New()
	e.SetCollisionDamping(1.0)

	p1 := newParticle(t, -0.5, 0, 1.0)
	p1.Radius = 1
	p1.Velocity = particle.Vec2{X: 4, Y: 0}

	p2 := newParticle(t, 0.5, 0, 3.0)
	p2.Radius = 1

	sys := newSystem(t, p1, p2)
	e.HandleCollisions(sys)

	// j = -(1+1)*(-4) / (1/1 + 1/3) = 6.
	// p1: 4 - 6/1 = -2, p2: 0 + 6/3 = 2.
	if math.Abs(sys.At(0).Velocity.X+2) > 1e-9 {
		t.Errorf("p1 velocity = %f, want -2", sys.At(0).Velocity.X)
	}
	if math.Abs(sys.At(1).Velocity.X-2) > 1e-9 {
		t.Errorf("p2 velocity = %f, want 2", sys.At(1).Velocity.X)
	}
}

// Momentum is conserved by the impulse exchange for any damping.
func TestImpulseConservesMomentum(t *testing.T) {
	for _, damping := range []float64{0.0, 0.5, 1.0} {
		e := New()
		e.SetCollisionDamping(damping)

		p1 := newParticle(t, -0.4, 0.1, 2.0)
		p1.Radius = 1
		p1.Velocity = particle.Vec2{X: 3, Y: -1}

		p2 := newParticle(t, 0.4, -0.1, 5.0)
		p2.Radius = 1
		p2.Velocity = particle.Vec2{X: -2, Y: 2}

		before := p1.Velocity.Scale(p1.Mass).Add(p2.Velocity.Scale(p2.Mass))

		sys := newSystem(t, p1, p2)
		e.HandleCollisions(sys)

		after := sys.At(0).Velocity.Scale(2.0).Add(sys.At(1).Velocity.Scale(5.0))
		if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
			t.Errorf("damping %f: momentum %v -> %v", damping, before, after)
		}
	}
}

// The scenario from the simulation contract: two touching particles
// closing at ±5 with damping 1 and no gravity or drag. The first step
// moves them into overlap; the step that detects the contact swaps
// their velocities and separates them.
func TestHeadOnScenarioOverSteps(t *testing.T) {
	e := New()
	e.SetCollisionDamping(1.0)
	e.SetGravity(particle.Vec2{})
	e.SetAirResistance(0)

	p1 := newParticle(t, -1, 0, 1.0)
	p1.Radius = 1
	p1.Velocity = particle.Vec2{X: 5, Y: 0}

	p2 := newParticle(t, 1, 0, 1.0)
	p2.Radius = 1
	p2.Velocity = particle.Vec2{X: -5, Y: 0}

	sys := newSystem(t, p1, p2)

	min := particle.Vec2{X: -100, Y: -100}
	max := particle.Vec2{X: 100, Y: 100}
	const dt = 0.1

	e.Step(sys, min, max, dt)
	e.Step(sys, min, max, dt)

	if sys.At(0).Velocity != (particle.Vec2{X: -5, Y: 0}) {
		t.Errorf("p1 velocity = %v, want (-5, 0)", sys.At(0).Velocity)
	}
	if sys.At(1).Velocity != (particle.Vec2{X: 5, Y: 0}) {
		t.Errorf("p2 velocity = %v, want (5, 0)", sys.At(1).Velocity)
	}

	dist := sys.At(1).Position.Sub(sys.At(0).Position).Length()
	if dist < 2 {
		t.Errorf("distance after resolution = %f, want >= 2", dist)
	}
}

// With three overlapping particles, pairs resolve in insertion order:
// (0,1) before (0,2) before (1,2). The result is deterministic across
// runs.
func TestPairOrderDeterministic(t *testing.T) {
	build := func() *particle.System {
		p0 := newParticle(t, 0, 0, 1.0)
		p1 := newParticle(t, 0.5, 0, 1.0)
		p2 := newParticle(t, 1.0, 0, 1.0)
		p0.Radius, p1.Radius, p2.Radius = 1, 1, 1
		p0.Velocity = particle.Vec2{X: 2, Y: 0}
		p2.Velocity = particle.Vec2{X: -2, Y: 0}
		return newSystem(t, p0, p1, p2)
	}

	e := New()
	a := build()
	b := build()
	e.HandleCollisions(a)
	e.HandleCollisions(b)

	for i := 0; i < 3; i++ {
		if a.At(i).Position != b.At(i).Position || a.At(i).Velocity != b.At(i).Velocity {
			t.Fatalf("particle %d diverged between identical runs", i)
		}
	}
}
