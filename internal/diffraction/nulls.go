package diffraction

import (
	"math"

	"github.com/san-kum/slitsim/internal/optics"
)

// NullPosition returns the positive screen position of the order-th
// intensity zero. ok is false when the slit is too narrow for that order to
// exist (sin θ would exceed 1) or order < 1.
func (m Model) NullPosition(order int, p optics.Parameters) (y float64, ok bool) {
	if order < 1 {
		return 0, false
	}
	s := float64(order) * p.Wavelength / (m.Convention.factor() * p.SlitWidth)
	if s >= 1 {
		return 0, false
	}
	return p.ScreenDistance * math.Tan(math.Asin(s)), true
}

// FirstNull bounds the central lobe.
func (m Model) FirstNull(p optics.Parameters) (float64, bool) {
	return m.NullPosition(1, p)
}

// CentralLobeWidth is the distance between the two first nulls, or +Inf
// when the central lobe covers the whole half-space.
func (m Model) CentralLobeWidth(p optics.Parameters) float64 {
	y, ok := m.FirstNull(p)
	if !ok {
		return math.Inf(1)
	}
	return 2 * y
}

// Nulls lists every null position up to maxAbs, positive side only.
func (m Model) Nulls(maxAbs float64, p optics.Parameters) []float64 {
	var out []float64
	for order := 1; ; order++ {
		y, ok := m.NullPosition(order, p)
		if !ok || y > maxAbs {
			return out
		}
		out = append(out, y)
	}
}

func FirstNull(p optics.Parameters) (float64, bool) {
	return defaultModel.FirstNull(p)
}

func CentralLobeWidth(p optics.Parameters) float64 {
	return defaultModel.CentralLobeWidth(p)
}

// FresnelNumber is a²/(L·λ). The Fraunhofer approximation holds when it is
// well below 1.
func FresnelNumber(p optics.Parameters) float64 {
	return p.SlitWidth * p.SlitWidth / (p.ScreenDistance * p.Wavelength)
}

func IsFarField(p optics.Parameters) bool {
	return FresnelNumber(p) < 1
}
