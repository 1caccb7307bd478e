package engine

import "github.com/okrych/partsim/internal/particle"

// HandleCollisions detects and resolves collisions over all unordered
// pairs (i, j), i < j, in insertion order. The order is the tie-break
// when three or more particles overlap in the same step: pair (0,1)
// resolves before (0,2), deterministically.
func (e *Engine) HandleCollisions(sys *particle.System) {
	n := sys.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p1, p2 := sys.At(i), sys.At(j)
			if collides(p1, p2) {
				resolveCollision(p1, p2, e.collisionDamping)
			}
		}
	}
}

// collides reports contact: center distance strictly less than the sum
// of the radii. Touching exactly is not a collision.
func collides(p1, p2 *particle.Particle) bool {
	dist := p2.Position.Sub(p1.Position).Length()
	return dist < p1.Radius+p2.Radius
}

// resolveCollision separates an overlapping pair and exchanges impulse
// along the contact normal.
func resolveCollision(p1, p2 *particle.Particle, restitution float64) {
	delta := p2.Position.Sub(p1.Position)
	dist := delta.Length()
	if dist == 0 {
		// Coincident centers have no defined normal; skip the pair
		// this step.
		return
	}
	normal := delta.Scale(1 / dist)

	// Positional correction: push each particle half the penetration
	// depth apart so overlap does not persist across steps.
	overlap := (p1.Radius + p2.Radius) - dist
	separation := overlap * 0.5
	p1.Position = p1.Position.Sub(normal.Scale(separation))
	p2.Position = p2.Position.Add(normal.Scale(separation))

	relativeVelocity := p2.Velocity.Sub(p1.Velocity)
	velAlongNormal := relativeVelocity.Dot(normal)

	// Already separating: applying an impulse would pull the pair back
	// together.
	if velAlongNormal > 0 {
		return
	}

	j := -(1 + restitution) * velAlongNormal
	j /= 1/p1.Mass + 1/p2.Mass

	impulse := normal.Scale(j)
	p1.Velocity = p1.Velocity.Sub(impulse.Scale(1 / p1.Mass))
	p2.Velocity = p2.Velocity.Add(impulse.Scale(1 / p2.Mass))
}
