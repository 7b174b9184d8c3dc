package geometry

import (
	"math"

	"github.com/san-kum/slitsim/internal/optics"
)

// singularTol is the relative distance below which d1 and f count as equal.
const singularTol = 1e-12

// Lens is the solved thin-lens state for a layout.
type Lens struct {
	ObjectDistance float64 `json:"object_distance"`
	ImageDistance  float64 `json:"image_distance"`
	Magnification  float64 `json:"magnification"`
}

// ThinLens solves 1/d2 = 1/f - 1/d1 and m = -d2/d1. An object at the focal
// point has its image at infinity and is reported as degenerate.
func ThinLens(d1, f float64) (Lens, error) {
	if math.Abs(d1-f) <= singularTol*math.Max(math.Abs(d1), math.Abs(f)) {
		return Lens{}, &optics.DegenerateGeometryError{ObjectDistance: d1, FocalLength: f}
	}
	d2 := 1 / (1/f - 1/d1)
	m := -d2 / d1
	if math.IsNaN(d2) || math.IsInf(d2, 0) || math.IsNaN(m) || math.IsInf(m, 0) {
		return Lens{}, &optics.DegenerateGeometryError{ObjectDistance: d1, FocalLength: f}
	}
	return Lens{ObjectDistance: d1, ImageDistance: d2, Magnification: m}, nil
}

// Solve applies the lens equation to the laser-to-lens distance of l.
func Solve(l Layout, p optics.Parameters) (Lens, error) {
	if err := l.Validate(); err != nil {
		return Lens{}, err
	}
	return ThinLens(l.ObjectDistance(), p.FocalLength)
}
