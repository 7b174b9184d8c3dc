package analysis

import (
	"math"

	"github.com/san-kum/slitsim/internal/diffraction"
)

// Peak returns the brightest sample.
func Peak(pr diffraction.Profile) (diffraction.Sample, bool) {
	if pr.Len() == 0 {
		return diffraction.Sample{}, false
	}
	best := pr.Samples[0]
	for _, s := range pr.Samples[1:] {
		if s.Intensity > best.Intensity {
			best = s
		}
	}
	return best, true
}

// FindNulls returns the positions of local minima whose intensity is below
// threshold, lowest position first.
func FindNulls(pr diffraction.Profile, threshold float64) []float64 {
	var nulls []float64
	for i := 1; i < pr.Len()-1; i++ {
		prev, cur, next := pr.Samples[i-1].Intensity, pr.Samples[i].Intensity, pr.Samples[i+1].Intensity
		if cur <= prev && cur < next && cur < threshold {
			nulls = append(nulls, pr.Samples[i].Position)
		}
	}
	return nulls
}

// FWHM returns the full width at half maximum of the lobe around the peak,
// interpolating between samples. ok is false when the curve never drops to
// half inside the window on either side.
func FWHM(pr diffraction.Profile) (float64, bool) {
	peak, ok := Peak(pr)
	if !ok || peak.Intensity <= 0 {
		return 0, false
	}
	half := peak.Intensity / 2
	centre := pr.Index(peak.Position)

	left := math.NaN()
	for i := centre; i > 0; i-- {
		a, b := pr.Samples[i-1], pr.Samples[i]
		if a.Intensity <= half {
			left = crossing(a, b, half)
			break
		}
	}

	right := math.NaN()
	for i := centre; i < pr.Len()-1; i++ {
		a, b := pr.Samples[i], pr.Samples[i+1]
		if b.Intensity <= half {
			right = crossing(a, b, half)
			break
		}
	}

	if math.IsNaN(left) || math.IsNaN(right) {
		return 0, false
	}
	return right - left, true
}

func crossing(a, b diffraction.Sample, level float64) float64 {
	d := b.Intensity - a.Intensity
	if d == 0 {
		return a.Position
	}
	t := (level - a.Intensity) / d
	return a.Position + t*(b.Position-a.Position)
}
