package main

import (
	"fmt"
	"os"

	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/optics"
	"github.com/san-kum/slitsim/internal/viz"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	convention string
	// bench flags use the units of the bench sliders
	slitMM     float64
	distanceCM float64
	focalCM    float64
	probeMM    float64
	rangeMM    float64
	samples    int
	// command specific
	rows       int
	listenAddr string
	threshold  float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "slitsim",
		Short: "single-slit diffraction optical bench",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)
			log.SetOutput(os.Stderr)
			return nil
		},
		RunE: runInteractive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".slitsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset parameters")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&convention, "convention", config.DefaultConvention, "phase convention (half, full)")
	pf.Float64Var(&slitMM, "slit", 0.1, "slit width (mm)")
	pf.Float64Var(&distanceCM, "distance", 100, "slit to screen distance (cm)")
	pf.Float64Var(&focalCM, "focal", 50, "lens focal length (cm)")
	pf.Float64Var(&probeMM, "probe", 0, "probe position on the screen (mm)")
	pf.Float64Var(&rangeMM, "range", config.DefaultHalfRangeMM, "profile half width (mm)")
	pf.IntVar(&samples, "samples", config.DefaultSamples, "profile sample count")

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "print the intensity at the probe position",
		RunE:  probeIntensity,
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot the intensity curve",
		RunE:  plotProfile,
	}

	raysCmd := &cobra.Command{
		Use:   "rays",
		Short: "draw the ray diagram",
		RunE:  drawRays,
	}

	patternCmd := &cobra.Command{
		Use:   "pattern",
		Short: "draw the screen pattern",
		RunE:  drawPattern,
	}
	patternCmd.Flags().IntVar(&rows, "rows", 41, "pattern rows")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "measure nulls, FWHM and spatial frequency of the curve",
		RunE:  analyzeProfile,
	}
	analyzeCmd.Flags().Float64Var(&threshold, "threshold", 1e-3, "null intensity threshold")

	runCmd := &cobra.Command{
		Use:   "run [name]",
		Short: "compute and save a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  saveRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [file]",
		Short: "export the profile as CSV (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [file]",
		Short: "export the snapshot as JSON (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [dir]",
		Short: "export ray diagram, curve and pattern as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	chartCmd := &cobra.Command{
		Use:   "chart [file]",
		Short: "render an interactive HTML chart of the curve",
		Args:  cobra.ExactArgs(1),
		RunE:  renderChart,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark profile and ray computation",
		RunE:  benchModel,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the live bench over websockets",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&listenAddr, "listen", config.DefaultListenAddr, "listen address")

	rootCmd.AddCommand(probeCmd, plotCmd, raysCmd, patternCmd, analyzeCmd,
		runCmd, listCmd, showCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, chartCmd,
		presetsCmd, initCmd, benchCmd, serveCmd)
	addAutomationCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration: defaults, then preset, then config
// file, then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("slit") {
		cfg.Parameters.SlitWidth = slitMM * optics.Millimetre
	}
	if flags.Changed("distance") {
		cfg.Parameters.ScreenDistance = distanceCM * optics.Centimetre
	}
	if flags.Changed("focal") {
		cfg.Parameters.FocalLength = focalCM * optics.Centimetre
	}
	if flags.Changed("probe") {
		cfg.Parameters.Probe = probeMM * optics.Millimetre
	}
	if flags.Changed("range") {
		cfg.Profile.HalfRangeMM = rangeMM
	}
	if flags.Changed("samples") {
		cfg.Profile.Samples = samples
	}
	if flags.Changed("convention") {
		cfg.Convention = convention
	}
	if flags.Changed("listen") {
		cfg.Listen = listenAddr
	}

	return cfg, nil
}

func benchOptions(cfg *config.Config) ([]bench.Option, error) {
	conv, err := cfg.PhaseConvention()
	if err != nil {
		return nil, err
	}
	return []bench.Option{
		bench.WithLimits(cfg.Limits),
		bench.WithLayout(cfg.Layout),
		bench.WithSampling(cfg.Window(), cfg.Profile.Samples),
		bench.WithConvention(conv),
		bench.WithLogger(log.WithField("component", "bench")),
	}, nil
}

func newController(cmd *cobra.Command) (*bench.Controller, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts, err := benchOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := bench.New(cfg.Parameters, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid bench: %w", err)
	}
	log.WithFields(log.Fields{
		"name":       cfg.Name,
		"convention": cfg.Convention,
		"samples":    cfg.Profile.Samples,
	}).Debug("bench ready")
	return ctrl, cfg, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := benchOptions(cfg)
	if err != nil {
		return err
	}

	// keep bench logs out of the alternate screen
	if !cmd.Flags().Changed("log-level") {
		log.SetLevel(log.WarnLevel)
	}

	viz.SetTheme(cfg.Theme)
	m, err := viz.NewModel(cfg.Parameters, opts...)
	if err != nil {
		return fmt.Errorf("invalid bench: %w", err)
	}
	return viz.Run(m)
}
