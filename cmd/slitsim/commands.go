package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/san-kum/slitsim/internal/analysis"
	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/export"
	"github.com/san-kum/slitsim/internal/geometry"
	"github.com/san-kum/slitsim/internal/metrics"
	"github.com/san-kum/slitsim/internal/optics"
	"github.com/san-kum/slitsim/internal/server"
	"github.com/san-kum/slitsim/internal/storage"
	"github.com/san-kum/slitsim/internal/viz"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func snapshot(cmd *cobra.Command) (*bench.Controller, *config.Config, bench.Snapshot, error) {
	ctrl, cfg, err := newController(cmd)
	if err != nil {
		return nil, nil, bench.Snapshot{}, err
	}
	snap, err := ctrl.Snapshot()
	if err != nil {
		return nil, nil, bench.Snapshot{}, err
	}
	return ctrl, cfg, snap, nil
}

func printParameters(w io.Writer, p optics.Parameters) {
	fmt.Fprintf(w, "wavelength: %.0f nm\n", p.Wavelength/optics.Nanometre)
	fmt.Fprintf(w, "slit width: %.2f mm\n", p.SlitWidth/optics.Millimetre)
	fmt.Fprintf(w, "screen distance: %.0f cm\n", p.ScreenDistance/optics.Centimetre)
	fmt.Fprintf(w, "focal length: %.0f cm\n", p.FocalLength/optics.Centimetre)
}

func probeIntensity(cmd *cobra.Command, args []string) error {
	_, cfg, snap, err := snapshot(cmd)
	if err != nil {
		return err
	}

	printParameters(os.Stdout, snap.Parameters)
	fmt.Printf("convention: %s\n\n", cfg.Convention)
	fmt.Println(viz.Readout(snap.Probe))
	fmt.Printf("beta: %.4f rad\n", snap.Probe.Beta)
	if snap.FirstNull > 0 {
		fmt.Printf("first null: %.3f mm\n", snap.FirstNull/optics.Millimetre)
	} else {
		fmt.Println("first null: none")
	}
	fmt.Printf("fresnel number: %.4f", snap.Fresnel)
	if !diffraction.IsFarField(snap.Parameters) {
		fmt.Print(" (outside the far-field regime)")
	}
	fmt.Println()
	return nil
}

func plotProfile(cmd *cobra.Command, args []string) error {
	_, _, snap, err := snapshot(cmd)
	if err != nil {
		return err
	}
	fmt.Println(viz.Curve(snap.Profile, snap.Probe, 80, 12))
	return nil
}

func drawRays(cmd *cobra.Command, args []string) error {
	ctrl, _, snap, err := snapshot(cmd)
	if err != nil {
		return err
	}
	fmt.Println(viz.RayDiagram(snap.Rays, ctrl.Layout(), 80, 12))
	fmt.Printf("\nobject distance: %.1f cm\n", snap.Lens.ObjectDistance/optics.Centimetre)
	fmt.Printf("image distance: %.1f cm\n", snap.Lens.ImageDistance/optics.Centimetre)
	fmt.Printf("magnification: %.3f\n", snap.Lens.Magnification)
	return nil
}

func drawPattern(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := newController(cmd)
	if err != nil {
		return err
	}
	pr, err := ctrl.Profile(cfg.Window(), rows)
	if err != nil {
		return err
	}
	fmt.Println(viz.Pattern(pr, 40))
	return nil
}

func analyzeProfile(cmd *cobra.Command, args []string) error {
	ctrl, _, snap, err := snapshot(cmd)
	if err != nil {
		return err
	}
	pr := snap.Profile

	fmt.Printf("samples: %d over ±%.1f mm\n\n", pr.Len(), pr.Range.HalfWidth/optics.Millimetre)

	if peak, ok := analysis.Peak(pr); ok {
		fmt.Printf("peak: %.4f at %.3f mm\n", peak.Intensity, peak.Position/optics.Millimetre)
	}
	if w, ok := analysis.FWHM(pr); ok {
		fmt.Printf("fwhm: %.3f mm\n", w/optics.Millimetre)
	} else {
		fmt.Println("fwhm: wider than the window")
	}

	model := diffraction.Model{Convention: ctrl.Convention()}
	predicted := model.Nulls(pr.Range.HalfWidth, snap.Parameters)
	var measured []float64
	for _, y := range analysis.FindNulls(pr, threshold) {
		if y > 0 {
			measured = append(measured, y)
		}
	}
	fmt.Printf("\nnulls on the positive side: %d measured, %d predicted\n", len(measured), len(predicted))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEASURED (mm)\tPREDICTED (mm)")
	for i := 0; i < len(measured) || i < len(predicted); i++ {
		m, p := "-", "-"
		if i < len(measured) {
			m = fmt.Sprintf("%.3f", measured[i]/optics.Millimetre)
		}
		if i < len(predicted) {
			p = fmt.Sprintf("%.3f", predicted[i]/optics.Millimetre)
		}
		fmt.Fprintf(w, "%s\t%s\n", m, p)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if pr.Len() > 1 {
		dx := pr.Samples[1].Position - pr.Samples[0].Position
		freq := analysis.DominantFrequency(pr.Intensities(), dx/optics.Millimetre)
		fmt.Printf("\ndominant spatial frequency: %.4f cycles/mm\n", freq)
	}
	return nil
}

func saveRun(cmd *cobra.Command, args []string) error {
	_, cfg, snap, err := snapshot(cmd)
	if err != nil {
		return err
	}

	name := cfg.Name
	if len(args) == 1 {
		name = args[0]
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	start := time.Now()
	runID, err := st.Save(name, cfg.Convention, snap, metrics.Evaluate(snap))
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"run": runID, "time": time.Since(start)}).Debug("run saved")

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", snap.Profile.Len())
	fmt.Println(viz.Readout(snap.Probe))
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
	fmt.Fprintln(w, "ID\tTIME\tSLIT\tDISTANCE\tFOCAL\tPROBE\tI(PROBE)\tCONV")

	for _, run := range runs {
		p := run.Parameters
		fmt.Fprintf(w, "%s\t%s\t%.2fmm\t%.0fcm\t%.0fcm\t%+.1fmm\t%.4f\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			p.SlitWidth/optics.Millimetre,
			p.ScreenDistance/optics.Centimetre,
			p.FocalLength/optics.Centimetre,
			p.Probe/optics.Millimetre,
			run.Probe.Intensity,
			run.Convention,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	pr, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("time: %s\n", meta.Timestamp.Format(time.RFC3339))
	printParameters(os.Stdout, meta.Parameters)
	fmt.Printf("samples: %d\n\n", pr.Len())

	fmt.Println(viz.Curve(pr, meta.Probe, 80, 12))

	if len(meta.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for name, val := range meta.Metrics {
			fmt.Printf("  %s: %.6g\n", name, val)
		}
	}
	return nil
}

// create opens path for writing, with - meaning stdout.
func create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	_, _, snap, err := snapshot(cmd)
	if err != nil {
		return err
	}
	out, err := create(args[0])
	if err != nil {
		return err
	}
	defer out.Close()

	if err := export.WriteProfileCSV(out, snap.Profile); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	if args[0] != "-" {
		fmt.Printf("exported %d samples to %s\n", snap.Profile.Len(), args[0])
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, cfg, snap, err := snapshot(cmd)
	if err != nil {
		return err
	}
	out, err := create(args[0])
	if err != nil {
		return err
	}
	defer out.Close()

	data := export.NewExportData(cfg.Name, cfg.Convention, snap, metrics.Evaluate(snap))
	if err := export.WriteJSON(out, data); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	if args[0] != "-" {
		fmt.Printf("exported to %s\n", args[0])
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	ctrl, cfg, snap, err := snapshot(cmd)
	if err != nil {
		return err
	}
	dir := args[0]
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// the screen strip follows the original 1 mm per row over ±200 mm
	screen, err := ctrl.Profile(diffraction.Symmetric(200*optics.Millimetre), 400)
	if err != nil {
		return err
	}

	files := map[string]string{
		"rays.svg":    export.RaysToSVG(snap.Rays, cfg.Layout, 200),
		"profile.svg": export.ProfileToSVG(snap.Profile, snap.Probe, 600, 200, "red"),
		"pattern.svg": export.PatternToSVG(screen, 200),
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func renderChart(cmd *cobra.Command, args []string) error {
	_, _, snap, err := snapshot(cmd)
	if err != nil {
		return err
	}
	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	if err := export.RenderChart(f, snap, "Single-slit diffraction"); err != nil {
		return err
	}
	log.WithField("time", time.Since(start)).Info("Chart rendered and saved")
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSLIT\tDISTANCE\tFOCAL\tPROBE")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%.2fmm\t%.0fcm\t%.0fcm\t%+.1fmm\n",
			name,
			p.SlitWidth/optics.Millimetre,
			p.ScreenDistance/optics.Centimetre,
			p.FocalLength/optics.Centimetre,
			p.Probe/optics.Millimetre,
		)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func benchModel(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := newController(cmd)
	if err != nil {
		return err
	}

	sampleCounts := []int{101, 1001, 10001}
	const repeats = 100

	fmt.Println("benchmarking profile computation")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SAMPLES\tREPEATS\tTIME\tSAMPLES/SEC")

	for _, n := range sampleCounts {
		start := time.Now()
		for i := 0; i < repeats; i++ {
			if _, err := ctrl.Profile(cfg.Window(), n); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, repeats, elapsed, float64(n*repeats)/elapsed.Seconds())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < repeats; i++ {
		if _, err := geometry.Trace(cfg.Layout, ctrl.Parameters()); err != nil {
			return err
		}
	}
	fmt.Printf("\nray trace: %v per call\n", time.Since(start)/repeats)
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := newController(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.NewHub(ctrl).ListenAndServe(ctx, cfg.Listen)
}
