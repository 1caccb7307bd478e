// Package viz renders a live terminal view of a running particle
// simulation. It reads snapshots between steps only and never mutates
// particle state itself.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/okrych/partsim/internal/engine"
	"github.com/okrych/partsim/internal/particle"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 300
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(38)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model owns the live simulation loop and its terminal presentation.
type Model struct {
	engine   *engine.Engine
	sys      *particle.System
	min, max particle.Vec2
	dt       float64
	t        float64
	steps    int

	canvas        *Canvas
	energyHistory []float64
	running       bool
	gravityOn     bool
	savedGravity  particle.Vec2
	pendingForce  particle.Vec2
	initial       []particle.Particle
}

// nudgeForce is the interactive force applied to every particle for
// one step when an arrow key is pressed.
const nudgeForce = 50.0

// NewModel builds the live view around an engine and a system the
// caller has already populated.
func NewModel(e *engine.Engine, sys *particle.System, min, max particle.Vec2, dt float64) Model {
	return Model{
		engine:        e,
		sys:           sys,
		min:           min,
		max:           max,
		dt:            dt,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		energyHistory: make([]float64, 0, historyCapacity),
		running:       true,
		gravityOn:     e.Gravity() != (particle.Vec2{}),
		savedGravity:  e.Gravity(),
		initial:       sys.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "g":
			m.toggleGravity()
		case "up":
			m.pendingForce = particle.Vec2{Y: nudgeForce}
		case "down":
			m.pendingForce = particle.Vec2{Y: -nudgeForce}
		case "left":
			m.pendingForce = particle.Vec2{X: -nudgeForce}
		case "right":
			m.pendingForce = particle.Vec2{X: nudgeForce}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	if m.pendingForce != (particle.Vec2{}) {
		m.engine.ApplyGlobalForce(m.sys, m.pendingForce)
		m.pendingForce = particle.Vec2{}
	}
	m.engine.Step(m.sys, m.min, m.max, m.dt)
	m.t += m.dt
	m.steps++

	ke := 0.0
	m.sys.Each(func(p *particle.Particle) {
		ke += 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
	})
	m.energyHistory = append(m.energyHistory, ke)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) reset() {
	fresh := particle.NewSystem(len(m.initial))
	for _, p := range m.initial {
		fresh.Add(p)
	}
	m.sys = fresh
	m.t = 0
	m.steps = 0
	m.energyHistory = m.energyHistory[:0]
}

func (m *Model) toggleGravity() {
	if m.gravityOn {
		m.savedGravity = m.engine.Gravity()
		m.engine.SetGravity(particle.Vec2{})
	} else {
		m.engine.SetGravity(m.savedGravity)
	}
	m.gravityOn = !m.gravityOn
}

func (m *Model) draw() {
	m.canvas.Clear()

	worldW := m.max.X - m.min.X
	worldH := m.max.Y - m.min.Y
	subW := float64(canvasWidth * 2)
	subH := float64(canvasHeight * 4)

	for _, p := range m.sys.Snapshot() {
		x := (p.Position.X - m.min.X) / worldW * subW
		// Terminal rows grow downward; world Y grows up.
		y := (1 - (p.Position.Y-m.min.Y)/worldH) * subH
		r := int(p.Radius / worldW * subW)
		m.canvas.FillCircle(int(x), int(y), r)
	}
}

func (m Model) View() string {
	m.draw()

	var stats strings.Builder
	stats.WriteString(headerStyle.Render("partsim live") + "\n")
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.2f s", m.t))
	row("steps", fmt.Sprintf("%d", m.steps))
	row("particles", fmt.Sprintf("%d", m.sys.Len()))
	row("gravity", fmt.Sprintf("(%.1f, %.1f)", m.engine.Gravity().X, m.engine.Gravity().Y))
	row("drag", fmt.Sprintf("%.3f", m.engine.AirResistance()))
	row("damping", fmt.Sprintf("%.2f", m.engine.CollisionDamping()))
	if m.running {
		row("state", "running")
	} else {
		row("state", "paused")
	}

	if len(m.energyHistory) > 2 {
		graph := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(6),
			asciigraph.Width(30),
			asciigraph.Caption("kinetic energy"),
		)
		stats.WriteString(graphStyle.Render(graph))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats.String()),
	)

	help := helpStyle.Render("space pause · r reset · g gravity · arrows nudge · q quit")
	return body + "\n" + help
}
