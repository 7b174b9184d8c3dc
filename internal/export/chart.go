package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/optics"
	log "github.com/sirupsen/logrus"
)

// Chart builds an interactive line chart of the snapshot's intensity curve.
// The probe reading is a second series holding a single point.
func Chart(snap bench.Snapshot, title string) *charts.Line {
	startTime := time.Now()
	defer func() {
		log.WithFields(log.Fields{
			"time":    time.Since(startTime),
			"samples": snap.Profile.Len(),
		}).Debug("Creating chart")
	}()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			BackgroundColor: "#ffffff",
			Width:           "100%",
			Height:          "600px",
			PageTitle:       title,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
			Subtitle: fmt.Sprintf("a = %.2f mm, L = %.0f cm, λ = %.0f nm",
				snap.Parameters.SlitWidth/optics.Millimetre,
				snap.Parameters.ScreenDistance/optics.Centimetre,
				snap.Parameters.Wavelength/optics.Nanometre),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "slider",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "cross",
				Snap: opts.Bool(true),
			},
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  opts.Bool(true),
					Type:  "png",
					Name:  "intensity",
					Title: "Save as image",
				},
				Restore: &opts.ToolBoxFeatureRestore{
					Show:  opts.Bool(true),
					Title: "refresh",
				},
			},
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Y (mm)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Intensity (W/m²)",
			Type: "value",
			Show: opts.Bool(true),
			Min:  0,
			Max:  1,
		}),
	)

	x := make([]string, snap.Profile.Len())
	curve := make([]opts.LineData, snap.Profile.Len())
	marker := make([]opts.LineData, snap.Profile.Len())
	probeIdx := snap.Profile.Index(snap.Probe.Position)
	for i, s := range snap.Profile.Samples {
		x[i] = fmt.Sprintf("%.2f", s.Position/optics.Millimetre)
		curve[i] = opts.LineData{Value: s.Intensity}
		marker[i] = opts.LineData{Value: nil}
		if i == probeIdx && snap.Profile.Range.Contains(snap.Probe.Position) {
			marker[i] = opts.LineData{Value: snap.Probe.Intensity, SymbolSize: 10}
		}
	}

	line.SetXAxis(x)
	line.AddSeries("Intensity", curve)
	line.AddSeries("Probe", marker)
	return line
}

func RenderChart(w io.Writer, snap bench.Snapshot, title string) error {
	if err := Chart(snap, title).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
