// Package export captures per-frame particle snapshots and writes them
// out as a single JSON document. Capture cadence is the caller's
// choice; the exporter only stores what it is handed.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/okrych/partsim/internal/particle"
)

// DefaultMaxFrames bounds in-memory capture; the oldest frame is
// dropped once the limit is reached.
const DefaultMaxFrames = 1000

// Rough per-frame JSON size estimate used for the data-rate figure.
const (
	frameOverheadBytes = 200
	particleBytes      = 150
)

type ParticleRecord struct {
	Position     [2]float64 `json:"position"`
	Velocity     [2]float64 `json:"velocity"`
	Acceleration [2]float64 `json:"acceleration"`
	Mass         float64    `json:"mass"`
	Radius       float64    `json:"radius"`
}

type FrameRecord struct {
	Timestamp     float64          `json:"timestamp"`
	FrameNumber   int              `json:"frame_number"`
	FPS           float64          `json:"fps"`
	ParticleCount int              `json:"particle_count"`
	Particles     []ParticleRecord `json:"particles"`
}

type metadata struct {
	TotalFrames       int     `json:"total_frames"`
	StartTime         float64 `json:"start_time"`
	EndTime           float64 `json:"end_time"`
	Duration          float64 `json:"duration"`
	DataRateMBPerHour float64 `json:"data_rate_mb_per_hour"`
}

type document struct {
	SimulationData struct {
		Metadata   metadata          `json:"metadata"`
		CustomData map[string]string `json:"custom_data,omitempty"`
		Frames     []FrameRecord     `json:"frames"`
	} `json:"simulation_data"`
}

// Exporter accumulates frames up to a bounded count.
type Exporter struct {
	frames     []FrameRecord
	customData map[string]string
	maxFrames  int
	firstTime  float64
	lastTime   float64
}

func New() *Exporter {
	return &Exporter{
		customData: make(map[string]string),
		maxFrames:  DefaultMaxFrames,
	}
}

// SetMaxFrames changes the capture bound. Values below 1 are ignored.
func (e *Exporter) SetMaxFrames(n int) {
	if n >= 1 {
		e.maxFrames = n
	}
}

// CaptureFrame records a snapshot with its caller-supplied timestamp,
// frame number, and fps.
func (e *Exporter) CaptureFrame(particles []particle.Particle, timestamp float64, frameNumber int, fps float64) {
	frame := FrameRecord{
		Timestamp:     timestamp,
		FrameNumber:   frameNumber,
		FPS:           fps,
		ParticleCount: len(particles),
		Particles:     make([]ParticleRecord, len(particles)),
	}

	for i, p := range particles {
		frame.Particles[i] = ParticleRecord{
			Position:     [2]float64{p.Position.X, p.Position.Y},
			Velocity:     [2]float64{p.Velocity.X, p.Velocity.Y},
			Acceleration: [2]float64{p.Acceleration.X, p.Acceleration.Y},
			Mass:         p.Mass,
			Radius:       p.Radius,
		}
	}

	if len(e.frames) == 0 {
		e.firstTime = timestamp
	}
	e.lastTime = timestamp

	e.frames = append(e.frames, frame)
	if len(e.frames) > e.maxFrames {
		e.frames = e.frames[1:]
	}
}

// AddCustomData attaches a key/value pair to the exported metadata.
func (e *Exporter) AddCustomData(key, value string) {
	e.customData[key] = value
}

func (e *Exporter) FrameCount() int {
	return len(e.frames)
}

func (e *Exporter) Clear() {
	e.frames = nil
	e.customData = make(map[string]string)
	e.firstTime = 0
	e.lastTime = 0
}

// TotalDataSize estimates the serialized size of the captured frames in
// bytes.
func (e *Exporter) TotalDataSize() int {
	total := 0
	for _, f := range e.frames {
		total += frameOverheadBytes + len(f.Particles)*particleBytes
	}
	return total
}

// DataRate estimates capture throughput in MB per hour. Zero until at
// least two frames span a positive interval.
func (e *Exporter) DataRate() float64 {
	if len(e.frames) < 2 {
		return 0
	}
	hours := (e.lastTime - e.firstTime) / 3600.0
	if hours <= 0 {
		return 0
	}
	mb := float64(e.TotalDataSize()) / (1024.0 * 1024.0)
	return mb / hours
}

// Write serializes all captured frames to w.
func (e *Exporter) Write(w io.Writer) error {
	var doc document
	doc.SimulationData.Metadata = metadata{
		TotalFrames:       len(e.frames),
		StartTime:         e.firstTime,
		EndTime:           e.lastTime,
		Duration:          e.lastTime - e.firstTime,
		DataRateMBPerHour: e.DataRate(),
	}
	if len(e.customData) > 0 {
		doc.SimulationData.CustomData = e.customData
	}
	doc.SimulationData.Frames = e.frames

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteFile serializes all captured frames to the named file.
func (e *Exporter) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer file.Close()
	return e.Write(file)
}

// WriteCurrentFrame serializes only the most recent frame.
func (e *Exporter) WriteCurrentFrame(w io.Writer) error {
	if len(e.frames) == 0 {
		return fmt.Errorf("export: no frames captured")
	}
	out := struct {
		CurrentFrame FrameRecord `json:"current_frame"`
	}{CurrentFrame: e.frames[len(e.frames)-1]}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
