package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/geometry"
	"github.com/san-kum/slitsim/internal/viz"
)

const svgBackground = "#0a0a0a"

func svgHeader(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, svgBackground))
}

// RaysToSVG draws the bench elements and ray paths in diagram units, one
// diagram unit per pixel, with the optical axis through the middle.
func RaysToSVG(rays []geometry.RayPath, l geometry.Layout, height int) string {
	width := int(math.Ceil(l.ScreenX + l.LaserX))
	cy := float64(height) / 2

	var sb strings.Builder
	svgHeader(&sb, width, height)

	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333333" stroke-dasharray="4,4"/>
`, cy, width, cy))

	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="15" height="20" fill="red" stroke="yellow"/>
`, l.LaserX-15, cy-10))

	elements := []struct {
		x     float64
		half  float64
		color string
		label string
	}{
		{l.LensX, 50, "cyan", "Lens"},
		{l.SlitX, 40, "yellow", "Slit"},
		{l.ScreenX, 75, "white", "Screen"},
	}
	for _, e := range elements {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
<text x="%.1f" y="%.1f" fill="white" font-size="10" text-anchor="middle">%s</text>
`, e.x, cy-e.half, e.x, cy+e.half, e.color, e.x, cy+e.half+15, e.label))
	}

	sb.WriteString(`<g stroke="red" stroke-width="1">
`)
	for _, r := range rays {
		for _, s := range r.Segments {
			// diagram y grows upward
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, s.From.X, cy-s.From.Y, s.To.X, cy-s.To.Y))
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// ProfileToSVG plots the intensity curve over the profile window with a
// dashed marker at the probe position.
func ProfileToSVG(pr diffraction.Profile, probe bench.Probe, width, height int, strokeColor string) string {
	if pr.Len() < 2 {
		return ""
	}

	const margin = 20.0
	minX, maxX := pr.Range.Min(), pr.Range.Max()
	if maxX <= minX {
		minX, maxX = pr.Samples[0].Position, pr.Samples[pr.Len()-1].Position
	}
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}
	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin
	project := func(y, v float64) (float64, float64) {
		return margin + (y-minX)/rangeX*plotW, float64(height) - margin - v*plotH
	}

	var sb strings.Builder
	svgHeader(&sb, width, height)

	sb.WriteString(fmt.Sprintf(`<g stroke="white">
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
</g>
`, margin, float64(height)-margin, float64(width)-margin, float64(height)-margin,
		margin, float64(height)-margin, margin, margin))

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, s := range pr.Samples {
		x, y := project(s.Position, s.Intensity)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
`)

	if pr.Range.Contains(probe.Position) {
		x, _ := project(probe.Position, 0)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="yellow" stroke-dasharray="4,4"/>
`, x, margin, x, float64(height)-margin))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// PatternToSVG paints the screen pattern as horizontal bands, one per
// sample, top row at the positive end of the window.
func PatternToSVG(pr diffraction.Profile, width int) string {
	height := pr.Len()
	if height == 0 {
		return ""
	}

	var sb strings.Builder
	svgHeader(&sb, width, height)
	sb.WriteString(`<g shape-rendering="crispEdges">
`)
	for i := 0; i < height; i++ {
		s := pr.Samples[height-1-i]
		sb.WriteString(fmt.Sprintf(`<rect x="0" y="%d" width="%d" height="1" fill="%s"/>
`, i, width, viz.IntensityColor(s.Intensity)))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
