package metrics

import (
	"github.com/okrych/partsim/internal/particle"
)

// KineticEnergy averages the system's total kinetic energy over the
// observed steps.
type KineticEnergy struct {
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{}
}

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(sys *particle.System, t float64) {
	sum := 0.0
	sys.Each(func(p *particle.Particle) {
		sum += 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
	})
	k.total += sum
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// TotalEnergy tracks kinetic plus gravitational potential energy
// against a fixed gravity vector, reporting the maximum relative drift
// from the first observation. Useful for judging integration quality
// under elastic settings.
type TotalEnergy struct {
	gravity  particle.Vec2
	initial  float64
	maxDrift float64
	samples  int
}

func NewTotalEnergy(gravity particle.Vec2) *TotalEnergy {
	return &TotalEnergy{gravity: gravity}
}

func (e *TotalEnergy) Name() string { return "energy_drift" }

func (e *TotalEnergy) Observe(sys *particle.System, t float64) {
	total := 0.0
	sys.Each(func(p *particle.Particle) {
		total += 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
		// Potential energy relative to the origin: -m * (g . x).
		total -= p.Mass * e.gravity.Dot(p.Position)
	})

	if e.samples == 0 {
		e.initial = total
	}
	e.samples++

	if e.initial != 0 {
		drift := abs(total-e.initial) / abs(e.initial)
		if drift > e.maxDrift {
			e.maxDrift = drift
		}
	}
}

func (e *TotalEnergy) Value() float64 {
	return e.maxDrift
}

func (e *TotalEnergy) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
