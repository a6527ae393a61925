package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/tidwall/lotsa"

	"github.com/san-kum/grav2d/internal/bhtree"
	"github.com/san-kum/grav2d/internal/body"
	"github.com/san-kum/grav2d/internal/config"
	"github.com/san-kum/grav2d/internal/export"
	"github.com/san-kum/grav2d/internal/gravity"
	"github.com/san-kum/grav2d/internal/metrics"
	"github.com/san-kum/grav2d/internal/morton"
	"github.com/san-kum/grav2d/internal/scene"
	"github.com/san-kum/grav2d/internal/sim"
	"github.com/san-kum/grav2d/internal/store"
	"github.com/san-kum/grav2d/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	steps      int
	seed       int64
	integrator string
	angleDeg   float64
	gconst     float64
	samples    int
	cutoff     float64
	particles  int
	workers    int
	every      int
	svgExtent  float64
	svgSize    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "grav2d",
		Short: "planar gravity sandbox with tree-accelerated forces",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".grav2d", "data directory")

	simFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
		cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
		cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
		cmd.Flags().StringVar(&integrator, "integrator", "velocity_verlet", "integrator")
		cmd.Flags().Float64Var(&angleDeg, "angle", config.DefaultAngleDeg, "opening half-angle in degrees (0 = exact)")
		cmd.Flags().Float64Var(&gconst, "g", config.DefaultG, "gravitational constant")
		cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "overlap sample count")
		cmd.Flags().Float64Var(&cutoff, "cutoff", 0, "far-field removal distance (0 = off)")
		cmd.Flags().IntVar(&particles, "particles", 1000, "particle limit for random scenes")
		cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "integration workers")
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	}

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().IntVar(&every, "every", 10, "record every n-th step")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	simFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id] [file]",
		Short: "render the last frame of a stored run to SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  svgRun,
	}
	svgCmd.Flags().Float64Var(&svgExtent, "extent", 20, "world half-width of the image")
	svgCmd.Flags().IntVar(&svgSize, "size", 800, "image edge in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(config.Presets))
			for name := range config.Presets {
				names = append(names, name)
			}
			sort.Strings(names)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "name\tscene\tintegrator\tdt\tsteps")
			for _, name := range names {
				c := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\n", name, c.Scene, c.Integrator, c.Dt, c.Steps)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark force evaluation over a frozen tree",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	simFlags(benchCmd)

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, svgCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig folds preset, config file, and flags into one configuration.
// Flags the user set explicitly win over the file, which wins over the
// preset.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
		*cfg = *p
	}
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}
	if len(args) > 0 {
		cfg.Scene = args[0]
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("angle") {
		cfg.AngleDeg = angleDeg
	}
	if cmd.Flags().Changed("g") {
		cfg.G = gconst
	}
	if cmd.Flags().Changed("samples") {
		cfg.MonteCarloPoints = samples
	}
	if cmd.Flags().Changed("cutoff") {
		cfg.FarFieldCutoff = cutoff
	}
	if cmd.Flags().Changed("particles") {
		cfg.ParticleCap = particles
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func buildTable(cfg *config.Config) (*sim.Table, func() []body.Particle, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, nil, err
	}
	limit := cfg.ParticleCap
	if limit <= 0 {
		limit = 1000
	}
	makeScene := func() []body.Particle {
		rng := rand.New(rand.NewSource(cfg.Seed))
		ps, err := scene.New(cfg.Scene, rng, limit)
		if err != nil {
			return nil
		}
		return ps
	}
	initial, err := scene.New(cfg.Scene, rand.New(rand.NewSource(cfg.Seed)), limit)
	if err != nil {
		return nil, nil, err
	}
	table, err := sim.NewTable(initial, params)
	if err != nil {
		return nil, nil, err
	}
	return table, makeScene, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	table, resetFn, err := buildTable(cfg)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	rec := &store.Recorder{Every: every}
	runner := &sim.Runner{
		Table: table,
		Dt:    cfg.Dt,
		Steps: cfg.Steps,
		Metrics: []sim.Metric{
			metrics.NewEnergy(cfg.G),
			metrics.NewEnergyDrift(cfg.G),
			metrics.NewMomentum(),
			metrics.NewAngularMomentum(),
		},
		Observer: rec,
		ResetFn:  resetFn,
	}

	fmt.Printf("running %s (%d particles)...\n", cfg.Scene, table.Len())
	start := time.Now()
	result, err := runner.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(store.RunMetadata{
		Scene:      cfg.Scene,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Steps:      result.StepsTaken,
		Resets:     result.Resets,
		Integrator: cfg.Integrator,
		Metrics:    result.Metrics,
	}, rec)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  resets: %d  particles: %d\n",
		result.StepsTaken, result.Resets, table.Len())
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	table, resetFn, err := buildTable(cfg)
	if err != nil {
		return err
	}
	model := viz.NewModel(table, cfg.Dt, resetFn)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs stored")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tscene\tintegrator\tdt\tsteps\tresets\ttimestamp")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%d\t%s\n",
			r.ID, r.Scene, r.Integrator, r.Dt, r.Steps, r.Resets,
			r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	rec, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if len(rec.Frames) < 2 {
		return fmt.Errorf("run %s has too few frames to plot", args[0])
	}
	xs := make([]float64, len(rec.Frames))
	ys := make([]float64, len(rec.Frames))
	for i, frame := range rec.Frames {
		if len(frame) > 0 {
			xs[i] = frame[0].Pos.X
			ys[i] = frame[0].Pos.Y
		}
	}
	fmt.Println(asciigraph.Plot(xs, asciigraph.Height(10), asciigraph.Width(70),
		asciigraph.Caption("particle 0: x over time")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(ys, asciigraph.Height(10), asciigraph.Width(70),
		asciigraph.Caption("particle 0: y over time")))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Meta(args[0])
	if err != nil {
		return err
	}
	rec, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return store.ExportJSON(os.Stdout, meta.Scene, meta.Integrator, meta.Dt, meta.Metrics, rec)
}

func svgRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	rec, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if len(rec.Frames) == 0 {
		return fmt.Errorf("run %s has no frames", args[0])
	}
	last := rec.Frames[len(rec.Frames)-1]
	return os.WriteFile(args[1], []byte(export.ParticlesToSVG(last, svgExtent, svgSize)), 0644)
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	limit := cfg.ParticleCap
	if limit <= 0 {
		limit = 1000
	}
	ps, err := scene.New(cfg.Scene, rand.New(rand.NewSource(cfg.Seed)), limit)
	if err != nil {
		return err
	}
	for i := range ps {
		ps[i].Code, ps[i].HasCode = morton.Encode(ps[i].Pos, params.Precision)
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].HasCode != ps[j].HasCode {
			return ps[i].HasCode
		}
		return ps[i].HasCode && ps[i].Code < ps[j].Code
	})
	tree := bhtree.Build(ps, func(p *body.Particle, mask uint64) (uint64, bool) {
		return morton.Masked(p.Code, p.HasCode, mask)
	})
	kern := gravity.New(params.Samples)
	kern.G = params.G

	fmt.Printf("%d particles, %d workers, angle %g deg\n", len(ps), cfg.Workers, cfg.AngleDeg)
	lotsa.Output = os.Stdout
	lotsa.Ops(len(ps)*100, cfg.Workers, func(i, _ int) {
		p := &ps[i%len(ps)]
		bhtree.Accel(tree, kern, p.Pos, p.Radius, params.TanAngle)
	})
	return nil
}
