package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/optics"
)

// Curve plots the intensity profile resampled to width columns and puts a
// caret under the column nearest the probe.
func Curve(pr diffraction.Profile, probe bench.Probe, width, height int) string {
	if pr.Len() == 0 || width < 2 {
		return ""
	}

	data := make([]float64, width)
	lo, hi := pr.Range.Min(), pr.Range.Max()
	for i := range data {
		y := lo + (hi-lo)*float64(i)/float64(width-1)
		data[i] = pr.At(y)
	}

	chart := asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(1),
		asciigraph.Caption(Readout(probe)),
	)

	if !pr.Range.Contains(probe.Position) {
		return chart
	}

	offset := axisOffset(chart)
	col := int((probe.Position - lo) / (hi - lo) * float64(width-1))
	marker := strings.Repeat(" ", offset+col) + "^"

	// insert above the caption so the marker sits against the x axis
	lines := strings.Split(chart, "\n")
	if len(lines) < 2 {
		return chart + "\n" + marker
	}
	last := len(lines) - 1
	out := append(lines[:last:last], marker, lines[last])
	return strings.Join(out, "\n")
}

// Readout formats the probe reading the way the bench labels it.
func Readout(probe bench.Probe) string {
	return fmt.Sprintf("Intensity at Y=%.1f mm: %.4f W/m²", probe.Position/optics.Millimetre, probe.Intensity)
}

// axisOffset is the column where asciigraph starts plotting data, one past
// the axis glyph on the first line.
func axisOffset(chart string) int {
	first := strings.SplitN(chart, "\n", 2)[0]
	for i, r := range []rune(first) {
		if r == '┤' || r == '┼' {
			return i + 1
		}
	}
	return 0
}
