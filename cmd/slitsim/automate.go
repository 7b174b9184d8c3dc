package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/slitsim/internal/automation"
	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/metrics"
	"github.com/san-kum/slitsim/internal/optics"
	"github.com/san-kum/slitsim/internal/storage"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	sweepParam  string
	sweepSteps  int
	sweepFrom   float64
	sweepTo     float64
	sweepMetric string
	fitMetric   string
	saveScripts bool
)

func addAutomationCommands(root *cobra.Command) {
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and tabulate a metric",
		RunE:  runSweep,
	}
	addSweepFlags(sweepCmd, &sweepMetric, metrics.FirstNull)

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "grid search one parameter to minimize a metric",
		RunE:  runFit,
	}
	addSweepFlags(fitCmd, &fitMetric, metrics.ProbeIntensity)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario (yaml)",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveScripts, "save", true, "save steps that name a run")

	root.AddCommand(sweepCmd, fitCmd, scenarioCmd)
}

func addSweepFlags(cmd *cobra.Command, metric *string, defaultMetric string) {
	cmd.Flags().StringVar(&sweepParam, "param", optics.ParamSlitWidth, "parameter to vary")
	cmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of values")
	cmd.Flags().Float64Var(&sweepFrom, "from", math.NaN(), "first value in display units (default: domain minimum)")
	cmd.Flags().Float64Var(&sweepTo, "to", math.NaN(), "last value in display units (default: domain maximum)")
	cmd.Flags().StringVar(metric, "metric", defaultMetric, fmt.Sprintf("metric %v", metrics.Names()))
}

// displayUnit is the unit each parameter's slider uses.
func displayUnit(name string) (float64, string) {
	switch name {
	case optics.ParamScreenDistance, optics.ParamFocalLength:
		return optics.Centimetre, "cm"
	default:
		return optics.Millimetre, "mm"
	}
}

func sweepSetup(cmd *cobra.Command, metricName string) (*automation.ParameterSweep, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := benchOptions(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := metrics.Get(metricName); err != nil {
		return nil, err
	}

	d, err := cfg.Limits.Domain(sweepParam)
	if err != nil {
		return nil, err
	}
	scale, _ := displayUnit(sweepParam)
	if !math.IsNaN(sweepFrom) {
		d.Min = sweepFrom * scale
	}
	if !math.IsNaN(sweepTo) {
		d.Max = sweepTo * scale
	}

	return &automation.ParameterSweep{
		Base:      cfg.Parameters,
		ParamName: sweepParam,
		Min:       d.Min,
		Max:       d.Max,
		NumSteps:  sweepSteps,
		Options:   opts,
	}, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	metricName := sweepMetric
	sweep, err := sweepSetup(cmd, metricName)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(context.Background(), sweep)
	if err != nil {
		return err
	}

	scale, unit := displayUnit(sweep.ParamName)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s (%s)\t%s\n", sweep.ParamName, unit, metricName)

	series := automation.Series(results, metricName)
	plot := make([]float64, 0, len(series))
	for i, r := range results {
		v := "-"
		if r.Err != nil {
			v = "rejected: " + r.Err.Error()
		} else if !math.IsNaN(series[i]) {
			v = fmt.Sprintf("%.6g", series[i])
			plot = append(plot, series[i])
		}
		fmt.Fprintf(w, "%.4g\t%s\n", r.ParamValue/scale, v)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed := automation.Failed(results); len(failed) > 0 {
		log.WithFields(log.Fields{"param": sweep.ParamName, "rejected": len(failed)}).Warn("sweep points rejected")
	}

	if len(plot) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(plot,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", metricName, sweep.ParamName)),
		))
	}
	return nil
}

func runFit(cmd *cobra.Command, args []string) error {
	metricName := fitMetric
	sweep, err := sweepSetup(cmd, metricName)
	if err != nil {
		return err
	}

	gs, err := automation.NewGridSearch([]string{sweep.ParamName}, [][]float64{sweep.Values()})
	if err != nil {
		return err
	}
	best, val, err := gs.Search(context.Background(), sweep.Base, metricName, sweep.Options...)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no valid grid point for %s", metricName)
	}

	scale, unit := displayUnit(sweep.ParamName)
	fmt.Printf("best %s: %.4g %s\n", sweep.ParamName, best[sweep.ParamName]/scale, unit)
	fmt.Printf("%s: %.6g\n", metricName, val)
	return nil
}

type storeSaver struct {
	st         *storage.Store
	convention string
}

func (s storeSaver) Save(name string, snap bench.Snapshot, m map[string]float64) (string, error) {
	return s.st.Save(name, s.convention, snap, m)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := benchOptions(cfg)
	if err != nil {
		return err
	}

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	var saver automation.Saver
	if saveScripts {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		saver = storeSaver{st: st, convention: cfg.Convention}
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	results, err := automation.RunScenario(context.Background(), sc, saver, opts...)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tRUN\tSLIT\tDISTANCE\tI(PROBE)")
	for i, r := range results {
		p := r.Snapshot.Parameters
		name := r.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%.2fmm\t%.0fcm\t%.4f\n", i+1, name,
			p.SlitWidth/optics.Millimetre, p.ScreenDistance/optics.Centimetre, r.Snapshot.Probe.Intensity)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
