package geometry

import (
	"fmt"
	"math"

	"github.com/san-kum/slitsim/internal/optics"
)

const (
	MinRays = 3
	MaxRays = 5
)

// Layout fixes where each bench component sits along the optical axis.
type Layout struct {
	LaserX     float64 `json:"laser_x" yaml:"laser_x"`
	LensX      float64 `json:"lens_x" yaml:"lens_x"`
	SlitX      float64 `json:"slit_x" yaml:"slit_x"`
	ScreenX    float64 `json:"screen_x" yaml:"screen_x"`
	UnitLength float64 `json:"unit_length" yaml:"unit_length"`
	BeamScale  float64 `json:"beam_scale" yaml:"beam_scale"`
	Rays       int     `json:"rays" yaml:"rays"`
}

// DefaultLayout is the 600×400 bench: laser at 50, lens at 200, slit at 400
// and screen at 550, one unit per centimetre.
func DefaultLayout() Layout {
	return Layout{
		LaserX:     50,
		LensX:      200,
		SlitX:      400,
		ScreenX:    550,
		UnitLength: optics.Centimetre,
		BeamScale:  2000,
		Rays:       5,
	}
}

func (l Layout) Validate() error {
	xs := []float64{l.LaserX, l.LensX, l.SlitX, l.ScreenX}
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: non-finite component position", optics.ErrInvalidLayout)
		}
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return fmt.Errorf("%w: components must be ordered laser < lens < slit < screen", optics.ErrInvalidLayout)
		}
	}
	if !(l.UnitLength > 0) || !(l.BeamScale > 0) || math.IsInf(l.UnitLength, 0) || math.IsInf(l.BeamScale, 0) {
		return fmt.Errorf("%w: unit length and beam scale must be positive", optics.ErrInvalidLayout)
	}
	if l.Rays < MinRays || l.Rays > MaxRays {
		return fmt.Errorf("%w: ray count %d outside [%d, %d]", optics.ErrInvalidLayout, l.Rays, MinRays, MaxRays)
	}
	return nil
}

// ObjectDistance is the laser-to-lens distance in metres.
func (l Layout) ObjectDistance() float64 {
	return (l.LensX - l.LaserX) * l.UnitLength
}

// Width is the bench length in diagram units.
func (l Layout) Width() float64 {
	return l.ScreenX - l.LaserX
}
