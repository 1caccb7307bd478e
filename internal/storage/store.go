package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okrych/partsim/internal/particle"
	"github.com/okrych/partsim/internal/sim"
)

// Store persists simulation runs under a base directory, one
// subdirectory per run holding metadata.json and frames.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string             `json:"id"`
	Timestamp        time.Time          `json:"timestamp"`
	Seed             int64              `json:"seed"`
	Particles        int                `json:"particles"`
	Dt               float64            `json:"dt"`
	Duration         float64            `json:"duration"`
	Gravity          [2]float64         `json:"gravity"`
	AirResistance    float64            `json:"air_resistance"`
	CollisionDamping float64            `json:"collision_damping"`
	Metrics          map[string]float64 `json:"metrics"`
}

// frames.csv columns, one row per particle per sampled frame.
var frameHeader = []string{"time", "frame", "index", "px", "py", "vx", "vy", "ax", "ay", "mass", "radius"}

// Save writes one run to disk and returns its generated id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(frameHeader); err != nil {
		return "", err
	}

	for _, frame := range result.Frames {
		for idx, p := range frame.Particles {
			row := []string{
				strconv.FormatFloat(frame.Time, 'f', 6, 64),
				strconv.Itoa(frame.Step),
				strconv.Itoa(idx),
				strconv.FormatFloat(p.Position.X, 'f', 6, 64),
				strconv.FormatFloat(p.Position.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Velocity.X, 'f', 6, 64),
				strconv.FormatFloat(p.Velocity.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Acceleration.X, 'f', 6, 64),
				strconv.FormatFloat(p.Acceleration.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Mass, 'f', 6, 64),
				strconv.FormatFloat(p.Radius, 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads a run's frames.csv back into sampled frames.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0)
	var current *sim.Frame

	for _, record := range records[1:] {
		if len(record) != len(frameHeader) {
			continue
		}

		vals := make([]float64, len(record))
		ok := true
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}

		step := int(vals[1])
		if current == nil || current.Step != step {
			frames = append(frames, sim.Frame{Step: step, Time: vals[0]})
			current = &frames[len(frames)-1]
		}

		current.Particles = append(current.Particles, particle.Particle{
			Position:     particle.Vec2{X: vals[3], Y: vals[4]},
			Velocity:     particle.Vec2{X: vals[5], Y: vals[6]},
			Acceleration: particle.Vec2{X: vals[7], Y: vals[8]},
			Mass:         vals[9],
			Radius:       vals[10],
		})
	}

	return frames, nil
}
