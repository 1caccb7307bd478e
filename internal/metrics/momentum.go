package metrics

import "github.com/okrych/partsim/internal/particle"

// Momentum reports the magnitude of the system's total linear momentum
// at the last observed step.
type Momentum struct {
	value float64
}

func NewMomentum() *Momentum {
	return &Momentum{}
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Observe(sys *particle.System, t float64) {
	var total particle.Vec2
	sys.Each(func(p *particle.Particle) {
		total = total.Add(p.Velocity.Scale(p.Mass))
	})
	m.value = total.Length()
}

func (m *Momentum) Value() float64 { return m.value }

func (m *Momentum) Reset() { m.value = 0 }

// MaxSpeed reports the fastest speed any particle reached during the
// run.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{}
}

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(sys *particle.System, t float64) {
	sys.Each(func(p *particle.Particle) {
		if s := p.Speed(); s > m.max {
			m.max = s
		}
	})
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
