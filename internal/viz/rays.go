package viz

import (
	"math"
	"strings"

	"github.com/san-kum/slitsim/internal/geometry"
)

// RayDiagram draws the bench onto a w x h character canvas with a label row
// underneath. The transverse axis is stretched so the beam fills most of
// the height.
func RayDiagram(rays []geometry.RayPath, l geometry.Layout, w, h int) string {
	c := NewCanvas(w, h)

	yMax := 0.0
	for _, r := range rays {
		for _, p := range r.Points() {
			yMax = math.Max(yMax, math.Abs(p.Y))
		}
	}
	if yMax == 0 {
		yMax = 1
	}
	yMax *= 1.6

	margin := 0.05 * (l.ScreenX - l.LaserX)
	f := NewFrame(c, l.LaserX-margin, l.ScreenX+margin, -yMax, yMax)

	box := 0.15 * yMax
	f.Line(l.LaserX-margin/2, -box, l.LaserX, -box)
	f.Line(l.LaserX-margin/2, box, l.LaserX, box)
	f.Line(l.LaserX, -box, l.LaserX, box)

	f.Line(l.LensX, -0.9*yMax, l.LensX, 0.9*yMax)
	f.Line(l.SlitX, -0.8*yMax, l.SlitX, 0.8*yMax)
	f.Line(l.ScreenX, -yMax, l.ScreenX, yMax)

	for _, r := range rays {
		for _, s := range r.Segments {
			f.Line(s.From.X, s.From.Y, s.To.X, s.To.Y)
		}
	}

	labels := []rune(strings.Repeat(" ", w))
	put := func(x float64, text string) {
		px, _ := f.Project(x, 0)
		col := px/2 - len(text)/2
		if col < 0 {
			col = 0
		}
		for i, ch := range text {
			if col+i < len(labels) {
				labels[col+i] = ch
			}
		}
	}
	put(l.LaserX, "Laser")
	put(l.LensX, "Lens")
	put(l.SlitX, "Slit")
	put(l.ScreenX, "Screen")

	return c.String() + strings.TrimRight(string(labels), " ")
}
