// Package profiler provides wall-clock timing around simulation work.
// The engine exposes no instrumentation of its own; callers wrap step
// calls with named timers and frame markers here.
package profiler

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

const maxHistory = 1000

// DefaultTargetFPS is the frame-rate goal the report judges against.
const DefaultTargetFPS = 60.0

// Stats summarizes every completed timing for one named timer, in
// milliseconds.
type Stats struct {
	Name      string  `json:"name"`
	TotalMs   float64 `json:"total_ms"`
	MinMs     float64 `json:"min_ms"`
	MaxMs     float64 `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	CallCount int     `json:"call_count"`
}

// Profiler tracks named timers, frame times, and fps history with a
// bounded window. Not safe for concurrent use; the simulation is
// single-threaded and so is its profiling.
type Profiler struct {
	startTimes    map[string]time.Time
	timingHistory map[string][]float64

	frameStart time.Time
	frameTimes []float64

	fpsHistory     []float64
	particleCounts []int

	targetFPS float64
}

func New() *Profiler {
	return &Profiler{
		startTimes:    make(map[string]time.Time),
		timingHistory: make(map[string][]float64),
		targetFPS:     DefaultTargetFPS,
	}
}

func (p *Profiler) SetTargetFPS(target float64) {
	p.targetFPS = target
}

// StartTimer begins a named timing window. Starting an already-running
// timer restarts it.
func (p *Profiler) StartTimer(name string) {
	p.startTimes[name] = time.Now()
}

// StopTimer ends a named timing window and records its duration.
// Stopping a timer that was never started is a no-op.
func (p *Profiler) StopTimer(name string) {
	start, ok := p.startTimes[name]
	if !ok {
		return
	}
	delete(p.startTimes, name)

	ms := float64(time.Since(start)) / float64(time.Millisecond)
	p.timingHistory[name] = appendBounded(p.timingHistory[name], ms)
}

// Time runs fn inside a named timer.
func (p *Profiler) Time(name string, fn func()) {
	p.StartTimer(name)
	fn()
	p.StopTimer(name)
}

func (p *Profiler) BeginFrame() {
	p.frameStart = time.Now()
}

func (p *Profiler) EndFrame() {
	ms := float64(time.Since(p.frameStart)) / float64(time.Millisecond)
	p.frameTimes = appendBounded(p.frameTimes, ms)
}

func (p *Profiler) UpdateFPS(fps float64) {
	p.fpsHistory = appendBounded(p.fpsHistory, fps)
}

func (p *Profiler) UpdateParticleCount(count int) {
	p.particleCounts = append(p.particleCounts, count)
	if len(p.particleCounts) > maxHistory {
		p.particleCounts = p.particleCounts[1:]
	}
}

// GetStats returns the aggregate timing stats for one named timer.
func (p *Profiler) GetStats(name string) Stats {
	s := Stats{Name: name}
	times := p.timingHistory[name]
	if len(times) == 0 {
		return s
	}

	s.MinMs = times[0]
	s.MaxMs = times[0]
	for _, t := range times {
		s.TotalMs += t
		if t < s.MinMs {
			s.MinMs = t
		}
		if t > s.MaxMs {
			s.MaxMs = t
		}
	}
	s.CallCount = len(times)
	s.AvgMs = s.TotalMs / float64(s.CallCount)
	return s
}

func (p *Profiler) AverageFPS() float64 {
	if len(p.fpsHistory) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range p.fpsHistory {
		sum += f
	}
	return sum / float64(len(p.fpsHistory))
}

// LastFrameTime returns the most recent frame duration in
// milliseconds.
func (p *Profiler) LastFrameTime() float64 {
	if len(p.frameTimes) == 0 {
		return 0
	}
	return p.frameTimes[len(p.frameTimes)-1]
}

// TargetMet reports whether the average fps reached at least 90% of
// the target.
func (p *Profiler) TargetMet() bool {
	return p.AverageFPS() >= p.targetFPS*0.9
}

// Report renders a human-readable summary of all collected timings.
func (p *Profiler) Report() string {
	var sb strings.Builder

	sb.WriteString("=== Performance Report ===\n")
	fmt.Fprintf(&sb, "average fps: %.1f\n", p.AverageFPS())
	fmt.Fprintf(&sb, "target fps: %.1f\n", p.targetFPS)
	fmt.Fprintf(&sb, "target met: %v\n", p.TargetMet())
	fmt.Fprintf(&sb, "last frame: %.2f ms\n", p.LastFrameTime())
	if n := len(p.particleCounts); n > 0 {
		fmt.Fprintf(&sb, "particles: %d\n", p.particleCounts[n-1])
	}

	names := make([]string, 0, len(p.timingHistory))
	for name := range p.timingHistory {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := p.GetStats(name)
		fmt.Fprintf(&sb, "%s: avg %.3f ms, min %.3f ms, max %.3f ms, calls %d\n",
			s.Name, s.AvgMs, s.MinMs, s.MaxMs, s.CallCount)
	}

	return sb.String()
}

// ExportFile writes all timer stats as JSON.
func (p *Profiler) ExportFile(path string) error {
	stats := make([]Stats, 0, len(p.timingHistory))
	names := make([]string, 0, len(p.timingHistory))
	for name := range p.timingHistory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats = append(stats, p.GetStats(name))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func (p *Profiler) Reset() {
	p.startTimes = make(map[string]time.Time)
	p.timingHistory = make(map[string][]float64)
	p.frameTimes = nil
	p.fpsHistory = nil
	p.particleCounts = nil
}

func appendBounded(history []float64, v float64) []float64 {
	history = append(history, v)
	if len(history) > maxHistory {
		history = history[1:]
	}
	return history
}
