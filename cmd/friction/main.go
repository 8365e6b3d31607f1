package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/RomanSalimgareev/friction-problem/internal/analysis"
	"github.com/RomanSalimgareev/friction-problem/internal/automation"
	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/experiment"
	"github.com/RomanSalimgareev/friction-problem/internal/export"
	"github.com/RomanSalimgareev/friction-problem/internal/fem"
	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/optim"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
	"github.com/RomanSalimgareev/friction-problem/internal/storage"
	"github.com/RomanSalimgareev/friction-problem/internal/tui"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var (
	dataDir string
	verbose bool

	configFile  string
	preset      string
	interactive bool
	live        bool
	frameRate   int
	textDir     string

	mode        int
	duration    float64
	dt          float64
	massKind    string
	rest        float64
	sliding     float64
	viscous     float64
	speed       float64
	accel       float64
	staticForce float64

	node    int
	outPath string
	width   float64
	height  float64
	workers int

	paramName  string
	paramMin   float64
	paramMax   float64
	paramSteps int
	metricName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "friction",
		Short: "transient FEM model of a block sliding in a tube",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive = true
			return runSimulation(cmd, args)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".friction", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration (family/name)")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "edit parameters in a terminal form")
	runCmd.Flags().BoolVar(&live, "live", false, "draw the block while stepping")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	runCmd.Flags().StringVar(&textDir, "txt", "", "also write per-node text files into this directory")
	runCmd.Flags().IntVar(&mode, "mode", int(friction.DryFree), "1 dry friction, 2 dry friction with drive, 3 viscous friction with drive")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultTime, "simulated time (s)")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step (s)")
	runCmd.Flags().StringVar(&massKind, "mass", string(fem.Lumped), "mass matrix: lumped or consistent")
	runCmd.Flags().Float64Var(&rest, "rest", 0, "coefficient of friction at rest")
	runCmd.Flags().Float64Var(&sliding, "sliding", 0, "coefficient of sliding friction")
	runCmd.Flags().Float64Var(&viscous, "viscous", 0, "coefficient of viscous friction")
	runCmd.Flags().Float64Var(&speed, "speed", 0, "initial speed along x")
	runCmd.Flags().Float64Var(&accel, "accel", 0, "initial acceleration along x")
	runCmd.Flags().Float64Var(&staticForce, "static", 0, "start from the static displacement under this force (N)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot node displacements in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	imageCmd := &cobra.Command{
		Use:   "image [run_id]",
		Short: "plot node displacements to an image (png, svg, pdf)",
		Args:  cobra.ExactArgs(1),
		RunE:  imageRun,
	}
	imageCmd.Flags().StringVarP(&outPath, "out", "o", "displacements.png", "output image")
	imageCmd.Flags().Float64Var(&width, "width", 16, "width (cm)")
	imageCmd.Flags().Float64Var(&height, "height", 10, "height (cm)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout when empty)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export displacement history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportTxtCmd := &cobra.Command{
		Use:   "export-txt [run_id] [dir]",
		Short: "write time and node displacements as one value per line",
		Args:  cobra.ExactArgs(2),
		RunE:  exportTxt,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a node",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&node, "node", 0, "active node index (0..3)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "displacement/velocity portrait of a node",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&node, "node", 0, "active node index (0..3)")

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time every preset concurrently",
		RunE:  benchPresets,
	}
	benchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (GOMAXPROCS when 0)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter across runs",
		RunE:  runSweep,
	}
	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search one parameter for the lowest metric value",
		RunE:  runTune,
	}
	for _, c := range []*cobra.Command{sweepCmd, tuneCmd} {
		c.Flags().StringVar(&preset, "preset", "", "base preset (family/name)")
		c.Flags().StringVar(&paramName, "param", "sliding", fmt.Sprintf("parameter to vary %v", config.ParamNames()))
		c.Flags().Float64Var(&paramMin, "min", 0, "lowest value")
		c.Flags().Float64Var(&paramMax, "max", 1, "highest value")
		c.Flags().IntVar(&paramSteps, "steps", 5, "number of values")
		c.Flags().IntVar(&workers, "workers", 0, "concurrent runs (GOMAXPROCS when 0)")
	}
	tuneCmd.Flags().StringVar(&metricName, "metric", "peak_displacement", "metric to minimise")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, imageCmd, exportCmd, exportJSONCmd, exportCSVCmd,
		exportTxtCmd, analyzeCmd, phaseCmd, presetsCmd, benchCmd, scenarioCmd, sweepCmd, tuneCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers defaults, preset, config file, explicit flags and
// finally the interactive editor.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		family, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be family/name, got %q", preset)
		}
		p := config.GetPreset(family, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(family))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Simulation.Mode = mode
	}
	if flags.Changed("time") {
		cfg.Simulation.Time = duration
	}
	if flags.Changed("dt") {
		cfg.Simulation.Dt = dt
	}
	if flags.Changed("mass") {
		cfg.Simulation.Mass = fem.MassKind(massKind)
	}
	if flags.Changed("rest") {
		cfg.Friction.Rest = rest
	}
	if flags.Changed("sliding") {
		cfg.Friction.Sliding = sliding
	}
	if flags.Changed("viscous") {
		cfg.Friction.Viscous = viscous
	}
	if flags.Changed("speed") {
		cfg.Initial.Speed = speed
	}
	if flags.Changed("accel") {
		cfg.Initial.Acceleration = accel
	}
	if flags.Changed("static") {
		cfg.Initial.FromStatic = true
		cfg.Initial.StaticForce = staticForce
	}

	var supplier config.Supplier = config.Static{Config: cfg}
	if interactive {
		supplier = tui.NewEditor(cfg)
	}
	out := config.DefaultConfig()
	if err := supplier.Supply(out); err != nil {
		return nil, err
	}
	return out, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if errors.Is(err, tui.ErrAborted) {
		fmt.Println("aborted")
		return nil
	}
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry.DefaultMetrics(cfg.Mode())); err != nil {
		return err
	}

	var renderer *tui.LiveRenderer
	if live {
		renderer = tui.NewLiveRenderer(os.Stdout, frameRate)
		exp.GetSolver().AddObserver(renderer)
		renderer.Start()
	}

	slog.Debug("starting run", "mode", cfg.Mode(), "time", cfg.Simulation.Time, "dt", cfg.Simulation.Dt,
		"steps", solver.Steps(exp.SolverConfig()))
	fmt.Printf("running %s simulation...\n", cfg.Mode())
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if renderer != nil {
		renderer.Stop()
	}
	if err != nil {
		if result == nil || !errors.Is(err, context.Canceled) {
			return err
		}
		slog.Warn("run interrupted, saving partial history", "rows", result.Completed, "of", result.Steps)
		if err := result.Truncate(); err != nil {
			return err
		}
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (stick %d)\n", result.Steps, result.StickSteps)
	fmt.Println("\nmetrics:")
	for _, name := range registry.ListMetrics() {
		if val, ok := result.Metrics[name]; ok {
			fmt.Printf("  %s: %.6g\n", name, val)
		}
	}

	if textDir != "" {
		files, err := export.WriteNodeFiles(textDir, result)
		if err != nil {
			return err
		}
		fmt.Printf("\nwrote %d files to %s\n", len(files), textDir)
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
	fmt.Fprintln(w, "ID\tMODE\tTIME\tDURATION\tDT\tSTEPS\tSTICK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%gs\t%gs\t%d\t%d\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Simulation.Time,
			run.Config.Simulation.Dt,
			run.Steps,
			run.StickSteps,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *solver.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	result, err := st.LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	if result.History.Rows() == 0 {
		return nil, nil, fmt.Errorf("run %s has no data", runID)
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s\n", meta.Mode)
	fmt.Printf("samples: %d\n\n", result.History.Rows())

	nodes, err := result.Nodes()
	if err != nil {
		return err
	}
	for i, data := range nodes {
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(solver.NodeLabels[i]+" displacement (m)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func imageRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	opts := export.PlotOptions{
		Title:  fmt.Sprintf("%s (%s)", meta.Mode, meta.ID),
		Width:  vg.Length(width) * vg.Centimeter,
		Height: vg.Length(height) * vg.Centimeter,
	}
	if err := export.Plot(outPath, result, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
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
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return export.ExportJSONStdout(&meta.Config, result)
	}
	return export.ExportJSON(outPath, &meta.Config, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(csv.NewWriter(os.Stdout), result)
}

func exportTxt(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	files, err := export.WriteNodeFiles(args[1], result)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Println(f)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	series, err := result.Node(node)
	if err != nil {
		return err
	}
	step := meta.Config.Simulation.Dt

	freq, amp, err := analysis.DominantFrequency(series, step)
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("node: %s\n", solver.NodeLabels[node])
	fmt.Printf("dominant frequency: %.4g Hz (power %.4g)\n\n", freq, amp)

	power := analysis.PowerSpectrum(series)
	if len(power) > 200 {
		power = power[:200]
	}
	graph := asciigraph.Plot(power,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+solver.NodeLabels[node]+")"),
	)
	fmt.Println(graph)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	x, err := result.Node(node)
	if err != nil {
		return err
	}
	portrait := analysis.NewPhasePortrait(x, meta.Config.Simulation.Dt)
	fmt.Printf("%s: displacement vs velocity\n\n", solver.NodeLabels[node])
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 24))
	fmt.Println(tui.Sparkline(x, 70))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	families := config.Families()
	if len(args) == 1 {
		families = []string{args[0]}
	}
	for _, family := range families {
		presets := config.ListPresets(family)
		if len(presets) == 0 {
			fmt.Printf("no presets for family: %s\n", family)
			continue
		}
		fmt.Printf("presets for %s:\n", family)
		for _, p := range presets {
			fmt.Printf("  %s/%s\n", family, p)
		}
	}
	return nil
}

func benchPresets(cmd *cobra.Command, args []string) error {
	var (
		names []string
		cfgs  []*config.Config
	)
	for _, family := range config.Families() {
		for _, name := range config.ListPresets(family) {
			names = append(names, family+"/"+name)
			cfgs = append(cfgs, config.GetPreset(family, name))
		}
	}

	start := time.Now()
	results := experiment.Sweep(cmd.Context(), experiment.NewRegistry(), cfgs, workers)
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTEPS\tSTICK\tPEAK\tSTATUS")
	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%v\n", names[i], r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4g\tok\n", names[i], r.Result.Steps, r.Result.StickSteps,
			r.Result.Metrics["peak_displacement"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d runs in %v\n", len(results), elapsed)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tMODE\tSTEPS\tSTICK\tRUN")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", i+1, r.Config.Mode(), r.Result.Steps, r.Result.StickSteps, r.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func sweepBase() (*config.Config, error) {
	if preset == "" {
		return config.DefaultConfig(), nil
	}
	family, name, _ := strings.Cut(preset, "/")
	cfg := config.GetPreset(family, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", preset)
	}
	return cfg, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := sweepBase()
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      base,
		ParamName: paramName,
		Min:       paramMin,
		Max:       paramMax,
		NumSteps:  paramSteps,
		Workers:   workers,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tSTICK\tPEAK\tFINAL %s\n", strings.ToUpper(paramName), solver.NodeLabels[0])
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%g\t-\t-\t-\t%v\n", r.ParamValue, r.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%d\t%d\t%.4g\t%.4g\n", r.ParamValue, r.Steps, r.StickSteps, r.Peak, r.Final)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	base, err := sweepBase()
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch([]string{paramName}, [][]float64{optim.Span(paramMin, paramMax, paramSteps)})
	if err != nil {
		return err
	}
	best, val, n, err := g.Search(cmd.Context(), base, experiment.NewRegistry(), metricName)
	if err != nil {
		return err
	}
	fmt.Printf("evaluated %d runs\n", n)
	fmt.Printf("best %s: %g (%s %.6g)\n", paramName, best[paramName], metricName, val)
	return nil
}
