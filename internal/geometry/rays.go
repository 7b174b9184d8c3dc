package geometry

import (
	"math"

	"github.com/san-kum/slitsim/internal/optics"
)

// Point is a diagram coordinate: X along the axis, Y above it.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// RayPath is one ray's route laser → lens → slit → screen.
type RayPath struct {
	Offset   float64   `json:"offset"`
	Segments []Segment `json:"segments"`
}

// Points returns the path's vertices in order.
func (r RayPath) Points() []Point {
	if len(r.Segments) == 0 {
		return nil
	}
	pts := make([]Point, 0, len(r.Segments)+1)
	pts = append(pts, r.Segments[0].From)
	for _, s := range r.Segments {
		pts = append(pts, s.To)
	}
	return pts
}

// Offsets returns n pre-lens ray heights evenly spanning the beam width, in
// metres.
func Offsets(beamWidth float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		return out
	}
	spacing := beamWidth / float64(n-1)
	mid := float64(n-1) / 2
	for i := range out {
		out[i] = (float64(i) - mid) * spacing
	}
	return out
}

// Trace returns the representative rays for layout l under p.
func Trace(l Layout, p optics.Parameters) ([]RayPath, error) {
	lens, err := Solve(l, p)
	if err != nil {
		return nil, err
	}

	offsets := Offsets(p.BeamWidth, l.Rays)
	paths := make([]RayPath, 0, len(offsets))
	for _, off := range offsets {
		y0 := off * l.BeamScale
		y1 := SlitHeight(lens.Magnification, y0)

		laser := Point{X: l.LaserX, Y: y0}
		atLens := Point{X: l.LensX, Y: y0}
		atSlit := Point{X: l.SlitX, Y: y1}
		atScreen := Point{X: l.ScreenX, Y: y1}

		if !finite(y0) || !finite(y1) {
			return nil, &optics.DegenerateGeometryError{ObjectDistance: lens.ObjectDistance, FocalLength: p.FocalLength}
		}

		paths = append(paths, RayPath{
			Offset: off,
			Segments: []Segment{
				{From: laser, To: atLens},
				{From: atLens, To: atSlit},
				{From: atSlit, To: atScreen},
			},
		})
	}
	return paths, nil
}

// SlitHeight places a ray of pre-lens height y0 on the slit plane at m·y0.
// For |m| > 1 the height is capped at |y0| so the diagram never shows a ray
// leaving the axis behind a converging lens.
func SlitHeight(m, y0 float64) float64 {
	if a := math.Abs(m); a > 1 {
		m /= a
	}
	return m * y0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
