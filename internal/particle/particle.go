package particle

import "errors"

// DefaultRadius is used when the caller does not override a particle's
// radius after construction.
const DefaultRadius = 5.0

// ErrNonPositiveMass indicates a construction attempt with mass <= 0.
// Force application divides by mass, so such a particle is never allowed
// to exist.
var ErrNonPositiveMass = errors.New("particle: mass must be positive")

// Particle is a non-rotating point mass. Radius is used only for
// boundary and collision contact tests.
type Particle struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	Mass         float64
	Radius       float64
}

// New constructs a particle at pos with the given mass. Velocity and
// acceleration start at zero and the radius defaults to DefaultRadius;
// callers mutate fields directly to override.
func New(pos Vec2, mass float64) (Particle, error) {
	if mass <= 0 {
		return Particle{}, ErrNonPositiveMass
	}
	return Particle{
		Position: pos,
		Mass:     mass,
		Radius:   DefaultRadius,
	}, nil
}

// ApplyForce accumulates force/mass into the acceleration. Forces are
// not range-checked; NaN and Inf propagate.
func (p *Particle) ApplyForce(force Vec2) {
	p.Acceleration = p.Acceleration.Add(force.Scale(1 / p.Mass))
}

// Integrate advances the particle one step of semi-implicit Euler:
// velocity is updated from the accumulated acceleration first, then
// position from the updated velocity. The order matters for energy
// behavior and must not be swapped. Acceleration is reset afterwards,
// so a dt of zero produces no motion but still clears the accumulator.
func (p *Particle) Integrate(dt float64) {
	p.Velocity = p.Velocity.Add(p.Acceleration.Scale(dt))
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.Acceleration = Vec2{}
}

// Speed returns the magnitude of the velocity.
func (p Particle) Speed() float64 {
	return p.Velocity.Length()
}

// Valid reports whether every kinematic component is finite.
func (p Particle) Valid() bool {
	return p.Position.IsFinite() && p.Velocity.IsFinite() && p.Acceleration.IsFinite()
}
