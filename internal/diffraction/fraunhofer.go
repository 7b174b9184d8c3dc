package diffraction

import (
	"fmt"
	"math"

	"github.com/san-kum/slitsim/internal/optics"
)

// Convention selects how β is derived from the slit geometry.
type Convention int

const (
	// HalfPhase uses β = π·a·sinθ/λ (equivalently k·a·sinθ/2).
	HalfPhase Convention = iota
	// FullPhase uses β = 2π·a·sinθ/λ.
	FullPhase
)

func (c Convention) String() string {
	switch c {
	case HalfPhase:
		return "half"
	case FullPhase:
		return "full"
	default:
		return fmt.Sprintf("convention(%d)", int(c))
	}
}

func ParseConvention(s string) (Convention, error) {
	switch s {
	case "", "half":
		return HalfPhase, nil
	case "full":
		return FullPhase, nil
	default:
		return 0, fmt.Errorf("unknown phase convention: %q (want half or full)", s)
	}
}

// factor is the multiple of π·a/λ used for β.
func (c Convention) factor() float64 {
	if c == FullPhase {
		return 2
	}
	return 1
}

// Model evaluates the single-slit pattern under a phase convention.
// The zero value uses HalfPhase.
type Model struct {
	Convention Convention
}

// Beta returns the phase argument at screen position y.
func (m Model) Beta(y float64, p optics.Parameters) float64 {
	theta := math.Atan(y / p.ScreenDistance)
	return m.Convention.factor() * math.Pi * p.SlitWidth / p.Wavelength * math.Sin(theta)
}

// Intensity returns the unnormalized intensity at y. It is 1 on the axis
// and never exceeds 1.
func (m Model) Intensity(y float64, p optics.Parameters) float64 {
	beta := m.Beta(y, p)
	if beta == 0 {
		return 1.0
	}
	s := math.Sin(beta) / beta
	return s * s
}

var defaultModel = Model{Convention: HalfPhase}

func Beta(y float64, p optics.Parameters) float64 {
	return defaultModel.Beta(y, p)
}

func Intensity(y float64, p optics.Parameters) float64 {
	return defaultModel.Intensity(y, p)
}
