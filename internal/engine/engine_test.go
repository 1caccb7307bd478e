package engine

import (
	"math"
	"testing"

	"github.com/okrych/partsim/internal/particle"
)

func newParticle(t *testing.T, x, y, mass float64) particle.Particle {
	t.Helper()
	p, err := particle.New(particle.Vec2{X: x, Y: y}, mass)
	if err != nil {
		t.Fatalf("particle.New: %v", err)
	}
	return p
}

func newSystem(t *testing.T, ps ...particle.Particle) *particle.System {
	t.Helper()
	sys := particle.NewSystem(len(ps))
	for _, p := range ps {
		sys.Add(p)
	}
	return sys
}

func TestDefaults(t *testing.T) {
	e := New()

	if e.Gravity() != DefaultGravity {
		t.Errorf("gravity = %v, want %v", e.Gravity(), DefaultGravity)
	}
	if e.AirResistance() != DefaultAirResistance {
		t.Errorf("air resistance = %f, want %f", e.AirResistance(), DefaultAirResistance)
	}
	if e.CollisionDamping() != DefaultCollisionDamping {
		t.Errorf("damping = %f, want %f", e.CollisionDamping(), DefaultCollisionDamping)
	}
}

func TestSetterClamping(t *testing.T) {
	e := New()

	e.SetAirResistance(-3)
	if e.AirResistance() != 0 {
		t.Errorf("negative drag clamped to %f, want 0", e.AirResistance())
	}

	e.SetCollisionDamping(1.5)
	if e.CollisionDamping() != 1 {
		t.Errorf("damping clamped to %f, want 1", e.CollisionDamping())
	}
	e.SetCollisionDamping(-0.5)
	if e.CollisionDamping() != 0 {
		t.Errorf("damping clamped to %f, want 0", e.CollisionDamping())
	}
}

func TestEnginesAreIndependent(t *testing.T) {
	a := New()
	b := New()

	a.SetGravity(particle.Vec2{X: 1, Y: 1})

	if b.Gravity() == a.Gravity() {
		t.Error("configuring one engine leaked into another")
	}
}

func TestApplyGravityScalesWithMass(t *testing.T) {
	e := New()
	sys := newSystem(t, newParticle(t, 0, 0, 1.0), newParticle(t, 1, 0, 5.0))

	g := particle.Vec2{X: 0, Y: -10}
	e.ApplyGravity(sys, g)

	// Acceleration is force/mass, so all particles accelerate equally
	// under gravity regardless of mass.
	for i := 0; i < sys.Len(); i++ {
		if sys.At(i).Acceleration != g {
			t.Errorf("particle %d acceleration = %v, want %v", i, sys.At(i).Acceleration, g)
		}
	}
}

func TestAirResistanceOpposesVelocity(t *testing.T) {
	e := New()
	p := newParticle(t, 0, 0, 1.0)
	p.Velocity = particle.Vec2{X: 10, Y: 0}
	sys := newSystem(t, p)

	e.ApplyAirResistance(sys, 0.5)

	// F = -v̂ * k * |v|² = (-50, 0) on unit mass.
	got := sys.At(0).Acceleration
	if math.Abs(got.X+50) > 1e-9 || got.Y != 0 {
		t.Errorf("drag acceleration = %v, want (-50, 0)", got)
	}
}

func TestAirResistanceSkipsRestingParticles(t *testing.T) {
	e := New()
	sys := newSystem(t, newParticle(t, 0, 0, 1.0))

	e.ApplyAirResistance(sys, 10)

	if sys.At(0).Acceleration != (particle.Vec2{}) {
		t.Errorf("resting particle got drag: %v", sys.At(0).Acceleration)
	}
}

func TestApplyGlobalForce(t *testing.T) {
	e := New()
	sys := newSystem(t, newParticle(t, 0, 0, 2.0), newParticle(t, 1, 0, 4.0))

	e.ApplyGlobalForce(sys, particle.Vec2{X: 8, Y: 0})

	if sys.At(0).Acceleration.X != 4 {
		t.Errorf("mass 2 acceleration = %f, want 4", sys.At(0).Acceleration.X)
	}
	if sys.At(1).Acceleration.X != 2 {
		t.Errorf("mass 4 acceleration = %f, want 2", sys.At(1).Acceleration.X)
	}
}

func TestBoundaryContainment(t *testing.T) {
	e := New()
	e.SetCollisionDamping(0.5)

	p := newParticle(t, -60, 0, 1.0)
	p.Radius = 2
	p.Velocity = particle.Vec2{X: -10, Y: 0}
	sys := newSystem(t, p)

	min := particle.Vec2{X: -50, Y: -50}
	max := particle.Vec2{X: 50, Y: 50}
	e.ApplyBoundaryConstraints(sys, min, max)

	got := sys.At(0)
	if got.Position.X != min.X+got.Radius {
		t.Errorf("position.X = %f, want clamped to %f", got.Position.X, min.X+got.Radius)
	}
	if got.Velocity.X != 5 {
		t.Errorf("velocity.X = %f, want reflected and damped to 5", got.Velocity.X)
	}
	if got.Position.Y != 0 || got.Velocity.Y != 0 {
		t.Error("Y axis should be untouched")
	}
}

func TestBoundaryAxesIndependent(t *testing.T) {
	e := New()
	e.SetCollisionDamping(1.0)

	// Outside both axes at once: a corner hit.
	p := newParticle(t, 60, 60, 1.0)
	p.Radius = 1
	p.Velocity = particle.Vec2{X: 3, Y: 4}
	sys := newSystem(t, p)

	e.ApplyBoundaryConstraints(sys, particle.Vec2{X: -50, Y: -50}, particle.Vec2{X: 50, Y: 50})

	got := sys.At(0)
	if got.Position.X != 49 || got.Position.Y != 49 {
		t.Errorf("position = %v, want (49, 49)", got.Position)
	}
	if got.Velocity.X != -3 || got.Velocity.Y != -4 {
		t.Errorf("velocity = %v, want both axes reflected", got.Velocity)
	}
}

func TestBoundaryInsideIsNoOp(t *testing.T) {
	e := New()
	p := newParticle(t, 0, 0, 1.0)
	p.Velocity = particle.Vec2{X: 1, Y: 1}
	sys := newSystem(t, p)

	e.ApplyBoundaryConstraints(sys, particle.Vec2{X: -50, Y: -50}, particle.Vec2{X: 50, Y: 50})

	if sys.At(0).Position != (particle.Vec2{}) || sys.At(0).Velocity != (particle.Vec2{X: 1, Y: 1}) {
		t.Error("particle inside bounds was modified")
	}
}

func TestIntegrateAppliesConfiguredForces(t *testing.T) {
	e := New()
	e.SetGravity(particle.Vec2{X: 0, Y: -10})
	e.SetAirResistance(0)

	sys := newSystem(t, newParticle(t, 0, 100, 1.0))
	e.Integrate(sys, 0.1)

	got := sys.At(0)
	if math.Abs(got.Velocity.Y+1) > 1e-12 {
		t.Errorf("velocity.Y = %f, want -1", got.Velocity.Y)
	}
	if math.Abs(got.Position.Y-99.9) > 1e-12 {
		t.Errorf("position.Y = %f, want 99.9", got.Position.Y)
	}
	if got.Acceleration != (particle.Vec2{}) {
		t.Error("acceleration not reset after integrate")
	}
}
