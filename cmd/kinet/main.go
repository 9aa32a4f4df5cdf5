package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/kinet/internal/config"
	"github.com/san-kum/kinet/internal/registry"
	"github.com/san-kum/kinet/internal/sim"
	"github.com/san-kum/kinet/internal/storage"
	"github.com/san-kum/kinet/internal/viz"
)

var (
	dataDir    string
	debug      bool
	configFile string
	dt         float64
	steps      int
	integrator string
	runs       int
	frameRate  int

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kinet",
		Short: "rigid body simulation sandbox",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				l, err := zap.NewDevelopment()
				if err == nil {
					logger = l
					registry.SetLogger(l)
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinet", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and record the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().Float64Var(&dt, "dt", float64(config.DefaultDt), "timestep")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().StringVar(&integrator, "integrator", "", "integrator (symplectic, euler)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body heights over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write recorded positions to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(args[0], os.Stdout)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write run metadata and trajectory to stdout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify [run_id]",
		Short: "replay a recorded run and compare trajectory checksums",
		Args:  cobra.ExactArgs(1),
		RunE:  verifyRun,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run a scenario on several worlds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	ensembleCmd.Flags().IntVar(&runs, "runs", 4, "number of parallel runs")

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "compare symplectic and explicit Euler on one scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure stepping throughput against body count",
		RunE:  benchEngine,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print engine version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kinet %s\n", registry.Version())
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd,
		verifyCmd, ensembleCmd, compareCmd, benchCmd, presetsCmd, liveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig picks the scenario: --config file first, then a named
// preset, then the default drop scene. Changed flags override the result.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	case len(args) > 0:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		cfg = config.Default()
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = float32(dt)
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s...\n", cfg.Scenario)
	start := time.Now()
	result, err := sim.NewRunner(cfg).WithLogger(logger).Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, bodies: %d\n", cfg.Steps, len(result.Handles))
	fmt.Printf("checksum: %x\n", result.Checksum())

	final := result.Positions[len(result.Positions)-1]
	for i, p := range final {
		if i == 4 {
			fmt.Printf("  ... %d more\n", len(final)-i)
			break
		}
		fmt.Printf("  body %d: (%.4f, %.4f, %.4f)\n", i, p.X, p.Y, p.Z)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runsMeta, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runsMeta) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tDT\tBODIES\tCHECKSUM")
	for _, run := range runsMeta {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Config.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Steps,
			run.Config.Dt,
			len(run.Config.Bodies),
			run.Checksum,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, rows, cols, err := st.LoadPositions(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Config.Scenario)
	fmt.Printf("samples: %d\n\n", len(rows))

	bodies := len(cols) / 3
	maxPlots := 6
	if bodies > maxPlots {
		bodies = maxPlots
	}

	for b := 0; b < bodies; b++ {
		col := 3*b + 1 // y component
		data := make([]float64, len(rows))
		for i := range rows {
			data[i] = rows[i][col]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d height vs time", b)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func verifyRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if meta.Config == nil {
		return fmt.Errorf("run %s has no stored config", args[0])
	}

	result, err := sim.NewRunner(meta.Config).WithLogger(logger).Run(context.Background())
	if err != nil {
		return err
	}

	got := strconv.FormatUint(result.Checksum(), 16)
	if got != meta.Checksum {
		return fmt.Errorf("checksum mismatch: recorded %s, replay %s", meta.Checksum, got)
	}
	fmt.Printf("run %s verified: checksum %s\n", meta.ID, got)
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := sim.NewEnsemble(cfg, runs).Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for i, r := range results {
		fmt.Printf("run %d: checksum %x\n", i, r.Checksum())
	}
	if !sim.Deterministic(results) {
		return fmt.Errorf("ensemble runs diverged")
	}
	fmt.Printf("%d runs deterministic in %v\n", len(results), elapsed)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators on %s (dt=%.4f, steps=%d)\n\n", base.Scenario, base.Dt, base.Steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_Y0\tTIME")

	for _, name := range []string{"symplectic", "euler"} {
		cfg := *base
		cfg.Integrator = name

		start := time.Now()
		result, err := sim.NewRunner(&cfg).Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\n", name, err)
			continue
		}

		finalY := result.Positions[len(result.Positions)-1][0].Y
		fmt.Fprintf(w, "%s\t%.6f\t%v\n", name, finalY, elapsed)
	}
	return w.Flush()
}

func benchEngine(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, bodies := range []int{1, 10, 100, 250} {
		cfg := benchConfig(bodies)

		start := time.Now()
		if _, err := sim.NewRunner(cfg).Run(context.Background()); err != nil {
			return err
		}
		elapsed := time.Since(start)

		stepsPerSec := float64(cfg.Steps) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", bodies, cfg.Steps, elapsed, stepsPerSec)
	}
	return w.Flush()
}

func benchConfig(bodies int) *config.Config {
	cfg := config.Default()
	cfg.Scenario = fmt.Sprintf("bench_%d", bodies)
	cfg.Steps = 600
	cfg.Bodies = make([]config.Body, bodies)
	for i := range cfg.Bodies {
		cfg.Bodies[i] = config.Body{
			Position: config.Vector{X: float32(i % 16), Y: 5 + float32(i/16), Z: float32(i % 7)},
			Mass:     1,
		}
	}
	return cfg
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg, frameRate)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
