package particle

// System owns an ordered, append-only collection of particles.
// Insertion order is the iteration order everywhere (including
// collision pair enumeration), which keeps runs reproducible.
//
// A System has a single writer at a time: the engine mutates it for the
// duration of one step, and readers take snapshots between steps.
type System struct {
	particles []Particle
}

// NewSystem returns an empty system with capacity for n particles.
func NewSystem(n int) *System {
	return &System{particles: make([]Particle, 0, n)}
}

// Add appends a particle. Particles are never removed; adding during
// iteration within a step is not supported.
func (s *System) Add(p Particle) {
	s.particles = append(s.particles, p)
}

func (s *System) Len() int {
	return len(s.particles)
}

// At returns a mutable pointer to the i-th particle in insertion order.
func (s *System) At(i int) *Particle {
	return &s.particles[i]
}

// Each calls fn with a mutable pointer to every particle in order.
func (s *System) Each(fn func(*Particle)) {
	for i := range s.particles {
		fn(&s.particles[i])
	}
}

// Snapshot returns a copy of the current particle state. Mutating the
// returned slice does not affect the system; this is the view handed to
// renderers and exporters.
func (s *System) Snapshot() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Valid reports whether every particle's state is finite.
func (s *System) Valid() bool {
	for i := range s.particles {
		if !s.particles[i].Valid() {
			return false
		}
	}
	return true
}
