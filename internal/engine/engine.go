// Package engine advances a particle system through discrete time steps
// under gravity and quadratic drag, keeps particles inside an
// axis-aligned box, and resolves pairwise collisions with an impulse
// model.
//
// An Engine holds only configuration; particle storage is always handed
// in by the caller, so one engine can serve many independently-owned
// systems and several engines with different configurations can
// coexist.
//
// The collision scan is the straightforward all-pairs O(n²) loop. That
// is a known scaling limit, not an accident: pair order (insertion
// order, i < j) is part of the observable behavior when three or more
// particles overlap at once, and a broad-phase would have to preserve
// it exactly.
package engine

import "github.com/okrych/partsim/internal/particle"

// Default engine configuration. Usable without any setter calls.
const (
	DefaultAirResistance    = 0.01
	DefaultCollisionDamping = 0.8
)

// DefaultGravity points down, in world units per second squared.
var DefaultGravity = particle.Vec2{X: 0, Y: -9.81}

// Engine applies forces, boundary constraints, and collision resolution
// to a particle system. Every method is a total function of the current
// state: no errors, no retries, degenerate geometry handled by skips.
type Engine struct {
	gravity          particle.Vec2
	airResistance    float64
	collisionDamping float64
}

func New() *Engine {
	return &Engine{
		gravity:          DefaultGravity,
		airResistance:    DefaultAirResistance,
		collisionDamping: DefaultCollisionDamping,
	}
}

func (e *Engine) Gravity() particle.Vec2    { return e.gravity }
func (e *Engine) AirResistance() float64    { return e.airResistance }
func (e *Engine) CollisionDamping() float64 { return e.collisionDamping }

func (e *Engine) SetGravity(g particle.Vec2) {
	e.gravity = g
}

// SetAirResistance sets the drag coefficient. Negative values clamp to
// zero.
func (e *Engine) SetAirResistance(k float64) {
	if k < 0 {
		k = 0
	}
	e.airResistance = k
}

// SetCollisionDamping sets the restitution coefficient, clamped to
// [0,1]. 1 is perfectly elastic, 0 fully inelastic.
func (e *Engine) SetCollisionDamping(d float64) {
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	e.collisionDamping = d
}

// ApplyGravity accumulates the force g*mass on every particle.
func (e *Engine) ApplyGravity(sys *particle.System, g particle.Vec2) {
	sys.Each(func(p *particle.Particle) {
		p.ApplyForce(g.Scale(p.Mass))
	})
}

// ApplyAirResistance accumulates quadratic drag opposing each
// particle's velocity: F = -normalize(v) * k * speed². Particles at
// rest get no drag.
func (e *Engine) ApplyAirResistance(sys *particle.System, k float64) {
	sys.Each(func(p *particle.Particle) {
		speed := p.Speed()
		if speed > 0 {
			drag := p.Velocity.Normalize().Scale(-k * speed * speed)
			p.ApplyForce(drag)
		}
	})
}

// ApplyGlobalForce accumulates the same force on every particle. Used
// for interactive forces; a zero force is a no-op.
func (e *Engine) ApplyGlobalForce(sys *particle.System, force particle.Vec2) {
	sys.Each(func(p *particle.Particle) {
		p.ApplyForce(force)
	})
}

// ApplyBoundaryConstraints clamps every particle into [min, max] per
// axis. Each axis is handled independently: the position is moved to
// the bound plus/minus the radius and that axis's velocity is reflected
// and scaled by the collision damping. A particle can be corrected on
// both axes in the same call.
func (e *Engine) ApplyBoundaryConstraints(sys *particle.System, min, max particle.Vec2) {
	damping := e.collisionDamping
	sys.Each(func(p *particle.Particle) {
		if p.Position.X-p.Radius < min.X {
			p.Position.X = min.X + p.Radius
			p.Velocity.X = -p.Velocity.X * damping
		}
		if p.Position.X+p.Radius > max.X {
			p.Position.X = max.X - p.Radius
			p.Velocity.X = -p.Velocity.X * damping
		}
		if p.Position.Y-p.Radius < min.Y {
			p.Position.Y = min.Y + p.Radius
			p.Velocity.Y = -p.Velocity.Y * damping
		}
		if p.Position.Y+p.Radius > max.Y {
			p.Position.Y = max.Y - p.Radius
			p.Velocity.Y = -p.Velocity.Y * damping
		}
	})
}

// Integrate applies the engine's gravity and drag to every particle and
// then advances each one by dt with semi-implicit Euler.
func (e *Engine) Integrate(sys *particle.System, dt float64) {
	e.ApplyGravity(sys, e.gravity)
	e.ApplyAirResistance(sys, e.airResistance)
	sys.Each(func(p *particle.Particle) {
		p.Integrate(dt)
	})
}

// Step runs one full simulation step in the reference order: boundary
// constraints first (wall contacts resolve against current-step
// positions), then pairwise collisions, then force application and
// integration. The three phases never interleave across particles.
func (e *Engine) Step(sys *particle.System, min, max particle.Vec2, dt float64) {
	e.ApplyBoundaryConstraints(sys, min, max)
	e.HandleCollisions(sys)
	e.Integrate(sys, dt)
}
