package diffraction

import (
	"math"
	"sort"

	"github.com/san-kum/slitsim/internal/optics"
)

// Range is a symmetric window [-HalfWidth, HalfWidth] on the screen, in metres.
type Range struct {
	HalfWidth float64 `json:"half_width" yaml:"half_width"`
}

// Symmetric returns the window spanning ±halfWidth.
func Symmetric(halfWidth float64) Range {
	return Range{HalfWidth: math.Abs(halfWidth)}
}

func (r Range) Min() float64 { return -r.HalfWidth }
func (r Range) Max() float64 { return r.HalfWidth }

func (r Range) Contains(y float64) bool {
	return y >= -r.HalfWidth && y <= r.HalfWidth
}

type Sample struct {
	Position  float64 `json:"position"`
	Intensity float64 `json:"intensity"`
}

// Profile is an ordered run of samples, lowest position first.
type Profile struct {
	Range   Range    `json:"range"`
	Samples []Sample `json:"samples"`
}

// Positions returns n evenly spaced points across r. A single point sits on
// the axis.
func Positions(r Range, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	ys := make([]float64, n)
	if n == 1 {
		return ys
	}
	span := float64(n - 1)
	for i := range ys {
		ys[i] = r.HalfWidth * float64(2*i-(n-1)) / span
	}
	return ys
}

// NewProfile samples the pattern across r and normalizes the result by its
// maximum.
func (m Model) NewProfile(r Range, n int, p optics.Parameters) Profile {
	ys := Positions(r, n)
	samples := make([]Sample, len(ys))

	maxI := 0.0
	for i, y := range ys {
		v := m.Intensity(y, p)
		samples[i] = Sample{Position: y, Intensity: v}
		if v > maxI {
			maxI = v
		}
	}

	if maxI > 0 {
		for i := range samples {
			samples[i].Intensity /= maxI
		}
	}

	return Profile{Range: r, Samples: samples}
}

func NewProfile(r Range, n int, p optics.Parameters) Profile {
	return defaultModel.NewProfile(r, n, p)
}

func (pr Profile) Len() int {
	return len(pr.Samples)
}

func (pr Profile) Positions() []float64 {
	out := make([]float64, len(pr.Samples))
	for i, s := range pr.Samples {
		out[i] = s.Position
	}
	return out
}

func (pr Profile) Intensities() []float64 {
	out := make([]float64, len(pr.Samples))
	for i, s := range pr.Samples {
		out[i] = s.Intensity
	}
	return out
}

// Max returns the largest sample intensity, or 0 for an empty profile.
func (pr Profile) Max() float64 {
	maxI := 0.0
	for _, s := range pr.Samples {
		if s.Intensity > maxI {
			maxI = s.Intensity
		}
	}
	return maxI
}

// At linearly interpolates the profile at y. Positions outside the sampled
// window take the nearest edge value.
func (pr Profile) At(y float64) float64 {
	n := len(pr.Samples)
	switch {
	case n == 0:
		return 0
	case n == 1 || y <= pr.Samples[0].Position:
		return pr.Samples[0].Intensity
	case y >= pr.Samples[n-1].Position:
		return pr.Samples[n-1].Intensity
	}

	i := sort.Search(n, func(i int) bool { return pr.Samples[i].Position >= y })
	a, b := pr.Samples[i-1], pr.Samples[i]
	span := b.Position - a.Position
	if span == 0 {
		return b.Intensity
	}
	t := (y - a.Position) / span
	return a.Intensity*(1-t) + b.Intensity*t
}

// Index returns the sample closest to y.
func (pr Profile) Index(y float64) int {
	n := len(pr.Samples)
	if n == 0 {
		return -1
	}
	best, bestDist := 0, math.Inf(1)
	for i, s := range pr.Samples {
		if d := math.Abs(s.Position - y); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
