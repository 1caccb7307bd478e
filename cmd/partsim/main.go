package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/okrych/partsim/internal/config"
	"github.com/okrych/partsim/internal/engine"
	"github.com/okrych/partsim/internal/export"
	"github.com/okrych/partsim/internal/metrics"
	"github.com/okrych/partsim/internal/particle"
	"github.com/okrych/partsim/internal/profiler"
	"github.com/okrych/partsim/internal/sim"
	"github.com/okrych/partsim/internal/storage"
	"github.com/okrych/partsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	gravityX   float64
	gravityY   float64
	drag       float64
	damping    float64
	sample     int
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "partsim",
		Short: "2D particle simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [count]",
		Short: "run simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().Float64Var(&gravityX, "gx", 0, "gravity x")
	runCmd.Flags().Float64Var(&gravityY, "gy", config.DefaultGravityY, "gravity y")
	runCmd.Flags().Float64Var(&drag, "drag", config.DefaultDrag, "air resistance coefficient")
	runCmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "collision damping [0,1]")
	runCmd.Flags().IntVar(&sample, "sample", 1, "capture every n-th step")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run energy over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	liveCmd := &cobra.Command{
		Use:   "live [count]",
		Short: "run simulation with live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	liveCmd.Flags().Float64Var(&gravityX, "gx", 0, "gravity x")
	liveCmd.Flags().Float64Var(&gravityY, "gy", config.DefaultGravityY, "gravity y")
	liveCmd.Flags().Float64Var(&drag, "drag", config.DefaultDrag, "air resistance coefficient")
	liveCmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "collision damping [0,1]")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the all-pairs collision scan",
		RunE:  benchScan,
	}
	benchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	benchCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, liveCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig merges preset, config file, CLI flags, and the
// positional particle count into one validated config. Flags override
// the file, the file overrides the preset.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("gx") {
		cfg.Gravity.X = gravityX
	}
	if cmd.Flags().Changed("gy") {
		cfg.Gravity.Y = gravityY
	}
	if cmd.Flags().Changed("drag") {
		cfg.AirResistance = drag
	}
	if cmd.Flags().Changed("damping") {
		cfg.CollisionDamping = damping
	}
	if cmd.Flags().Changed("sample") {
		cfg.SampleEvery = sample
	}
	if cfg.Seed == 0 {
		cfg.Seed = seed
	}

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("particle count must be an integer, got %q", args[0])
		}
		cfg.Particles = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildEngine configures an engine from cfg.
func buildEngine(cfg *config.Config) *engine.Engine {
	e := engine.New()
	e.SetGravity(particle.Vec2{X: cfg.Gravity.X, Y: cfg.Gravity.Y})
	e.SetAirResistance(cfg.AirResistance)
	e.SetCollisionDamping(cfg.CollisionDamping)
	return e
}

// buildSystem populates a system with seeded random particles inside
// the configured bounds.
func buildSystem(cfg *config.Config) (*particle.System, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	sys := particle.NewSystem(cfg.Particles)

	spawn := cfg.Spawn
	for i := 0; i < cfg.Particles; i++ {
		pos := particle.Vec2{
			X: cfg.Bounds.MinX + rng.Float64()*(cfg.Bounds.MaxX-cfg.Bounds.MinX),
			Y: cfg.Bounds.MinY + rng.Float64()*(cfg.Bounds.MaxY-cfg.Bounds.MinY),
		}
		mass := spawn.MassMin + rng.Float64()*(spawn.MassMax-spawn.MassMin)

		p, err := particle.New(pos, mass)
		if err != nil {
			return nil, err
		}
		p.Radius = spawn.RadiusMin + rng.Float64()*(spawn.RadiusMax-spawn.RadiusMin)
		p.Velocity = particle.Vec2{
			X: (rng.Float64()*2 - 1) * spawn.SpeedMax,
			Y: (rng.Float64()*2 - 1) * spawn.SpeedMax,
		}
		sys.Add(p)
	}

	return sys, nil
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Seed:        cfg.Seed,
		MinBound:    particle.Vec2{X: cfg.Bounds.MinX, Y: cfg.Bounds.MinY},
		MaxBound:    particle.Vec2{X: cfg.Bounds.MaxX, Y: cfg.Bounds.MaxY},
		SampleEvery: cfg.SampleEvery,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng := buildEngine(cfg)
	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	runner := sim.New(eng)
	runner.AddMetric(metrics.NewKineticEnergy())
	runner.AddMetric(metrics.NewTotalEnergy(eng.Gravity()))
	runner.AddMetric(metrics.NewMomentum())
	runner.AddMetric(metrics.NewMaxSpeed())

	fmt.Printf("running %d particles for %.1fs...\n", cfg.Particles, cfg.Duration)
	start := time.Now()

	result, err := runner.Run(context.Background(), sys, simConfig(cfg))
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Seed:             cfg.Seed,
		Particles:        cfg.Particles,
		Dt:               cfg.Dt,
		Duration:         cfg.Duration,
		Gravity:          [2]float64{cfg.Gravity.X, cfg.Gravity.Y},
		AirResistance:    cfg.AirResistance,
		CollisionDamping: cfg.CollisionDamping,
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%d frames sampled)\n", result.StepsTaken, len(result.Frames))
	for _, simErr := range result.Errors {
		fmt.Printf("warning: %v\n", simErr)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tDURATION\tDT\tDAMPING")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2fs\t%.4fs\t%.2f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Duration,
			run.Dt,
			run.CollisionDamping,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d, frames: %d\n\n", meta.Particles, len(frames))

	energy := make([]float64, len(frames))
	for i, frame := range frames {
		ke := 0.0
		for _, p := range frame.Particles {
			ke += 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
		}
		energy[i] = ke
	}

	graph := asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total kinetic energy vs time"),
	)
	fmt.Println(graph)

	speeds := make([]float64, len(frames))
	for i, frame := range frames {
		max := 0.0
		for _, p := range frame.Particles {
			if s := p.Speed(); s > max {
				max = s
			}
		}
		speeds[i] = max
	}

	fmt.Println()
	graph = asciigraph.Plot(speeds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("max particle speed vs time"),
	)
	fmt.Println(graph)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	exp := export.New()
	if len(frames) > export.DefaultMaxFrames {
		exp.SetMaxFrames(len(frames))
	}
	exp.AddCustomData("run_id", meta.ID)
	exp.AddCustomData("seed", strconv.FormatInt(meta.Seed, 10))

	fps := 0.0
	if meta.Dt > 0 {
		fps = 1.0 / meta.Dt
	}
	for _, frame := range frames {
		exp.CaptureFrame(frame.Particles, frame.Time, frame.Step, fps)
	}

	return exp.Write(os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "frame", "index", "px", "py", "vx", "vy", "mass", "radius"}); err != nil {
		return err
	}

	for _, frame := range frames {
		for idx, p := range frame.Particles {
			row := []string{
				strconv.FormatFloat(frame.Time, 'f', 6, 64),
				strconv.Itoa(frame.Step),
				strconv.Itoa(idx),
				strconv.FormatFloat(p.Position.X, 'f', 6, 64),
				strconv.FormatFloat(p.Position.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Velocity.X, 'f', 6, 64),
				strconv.FormatFloat(p.Velocity.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Mass, 'f', 6, 64),
				strconv.FormatFloat(p.Radius, 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	eng := buildEngine(cfg)
	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(eng, sys,
		particle.Vec2{X: cfg.Bounds.MinX, Y: cfg.Bounds.MinY},
		particle.Vec2{X: cfg.Bounds.MaxX, Y: cfg.Bounds.MaxY},
		cfg.Dt)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// benchScan sweeps particle counts and times the step phases. The
// collision column grows quadratically with count; that is the
// documented cost of the all-pairs scan.
func benchScan(cmd *cobra.Command, args []string) error {
	counts := []int{50, 100, 250, 500, 1000}
	const steps = 120

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tTOTAL\tCOLLISIONS\tINTEGRATE\tSTEPS/SEC")

	for _, count := range counts {
		cfg := config.DefaultConfig()
		cfg.Particles = count
		cfg.Seed = seed
		cfg.Dt = dt

		eng := buildEngine(cfg)
		sys, err := buildSystem(cfg)
		if err != nil {
			return err
		}

		min := particle.Vec2{X: cfg.Bounds.MinX, Y: cfg.Bounds.MinY}
		max := particle.Vec2{X: cfg.Bounds.MaxX, Y: cfg.Bounds.MaxY}

		prof := profiler.New()
		start := time.Now()

		for i := 0; i < steps; i++ {
			prof.BeginFrame()
			eng.ApplyBoundaryConstraints(sys, min, max)
			prof.Time("collisions", func() {
				eng.HandleCollisions(sys)
			})
			prof.Time("integrate", func() {
				eng.Integrate(sys, cfg.Dt)
			})
			prof.EndFrame()
			prof.UpdateParticleCount(sys.Len())
		}

		elapsed := time.Since(start)
		collisions := prof.GetStats("collisions")
		integrate := prof.GetStats("integrate")

		fmt.Fprintf(w, "%d\t%d\t%v\t%.3fms\t%.3fms\t%.0f\n",
			count, steps, elapsed.Round(time.Microsecond),
			collisions.AvgMs, integrate.AvgMs,
			float64(steps)/elapsed.Seconds())
	}

	return w.Flush()
}
