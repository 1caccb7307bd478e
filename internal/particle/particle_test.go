package particle

import (
	"errors"
	"math"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	p, err := New(Vec2{X: 3, Y: -2}, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Position != (Vec2{X: 3, Y: -2}) {
		t.Errorf("position = %v, want (3,-2)", p.Position)
	}
	if p.Velocity != (Vec2{}) || p.Acceleration != (Vec2{}) {
		t.Error("velocity and acceleration should start at zero")
	}
	if p.Radius != DefaultRadius {
		t.Errorf("radius = %f, want %f", p.Radius, DefaultRadius)
	}
}

func TestNewRejectsNonPositiveMass(t *testing.T) {
	for _, mass := range []float64{0, -1, -0.001} {
		_, err := New(Vec2{}, mass)
		if !errors.Is(err, ErrNonPositiveMass) {
			t.Errorf("mass %f: err = %v, want ErrNonPositiveMass", mass, err)
		}
	}
}

func TestApplyForceAccumulates(t *testing.T) {
	p, _ := New(Vec2{}, 2.0)

	p.ApplyForce(Vec2{X: 4, Y: 0})
	p.ApplyForce(Vec2{X: 0, Y: -2})

	want := Vec2{X: 2, Y: -1}
	if p.Acceleration != want {
		t.Errorf("acceleration = %v, want %v", p.Acceleration, want)
	}
}

// A particle at rest under force F for one step of dt must end with
// velocity F/m*dt and position F/m*dt².
func TestForceLaw(t *testing.T) {
	const (
		mass = 4.0
		dt   = 0.1
		fx   = 8.0
	)

	p, _ := New(Vec2{}, mass)
	p.ApplyForce(Vec2{X: fx})
	p.Integrate(dt)

	wantV := fx / mass * dt
	wantX := fx / mass * dt * dt

	if math.Abs(p.Velocity.X-wantV) > 1e-12 {
		t.Errorf("velocity.X = %f, want %f", p.Velocity.X, wantV)
	}
	if math.Abs(p.Position.X-wantX) > 1e-12 {
		t.Errorf("position.X = %f, want %f", p.Position.X, wantX)
	}
}

// Velocity must update before position, using the updated velocity.
// With plain (non-symplectic) Euler the first step would not move the
// particle at all.
func TestIntegrateIsSemiImplicit(t *testing.T) {
	p, _ := New(Vec2{}, 1.0)
	p.ApplyForce(Vec2{X: 10})
	p.Integrate(0.5)

	if p.Position.X == 0 {
		t.Error("position unchanged after first step: integration is not semi-implicit")
	}
	if p.Position.X != p.Velocity.X*0.5 {
		t.Errorf("position.X = %f, want velocity*dt = %f", p.Position.X, p.Velocity.X*0.5)
	}
}

func TestIntegrateZeroDt(t *testing.T) {
	p, _ := New(Vec2{X: 1, Y: 2}, 1.0)
	p.Velocity = Vec2{X: 3, Y: 4}
	p.ApplyForce(Vec2{X: 100, Y: 100})

	p.Integrate(0)

	if p.Position != (Vec2{X: 1, Y: 2}) {
		t.Errorf("position changed with dt=0: %v", p.Position)
	}
	if p.Velocity != (Vec2{X: 3, Y: 4}) {
		t.Errorf("velocity changed with dt=0: %v", p.Velocity)
	}
	if p.Acceleration != (Vec2{}) {
		t.Error("acceleration not reset with dt=0")
	}
}

func TestIntegrateResetsAcceleration(t *testing.T) {
	p, _ := New(Vec2{}, 1.0)
	p.ApplyForce(Vec2{X: 5, Y: 5})
	p.Integrate(0.01)

	if p.Acceleration != (Vec2{}) {
		t.Errorf("acceleration = %v, want zero after integrate", p.Acceleration)
	}
}

func TestValid(t *testing.T) {
	p, _ := New(Vec2{}, 1.0)
	if !p.Valid() {
		t.Error("fresh particle should be valid")
	}

	p.Velocity.X = math.NaN()
	if p.Valid() {
		t.Error("NaN velocity should be invalid")
	}

	p.Velocity.X = 0
	p.Position.Y = math.Inf(1)
	if p.Valid() {
		t.Error("Inf position should be invalid")
	}
}

func TestVecNormalize(t *testing.T) {
	v := Vec2{X: 3, Y: 4}.Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("normalized length = %f, want 1", v.Length())
	}

	zero := Vec2{}.Normalize()
	if zero != (Vec2{}) {
		t.Errorf("zero vector normalized to %v, want zero", zero)
	}
}
