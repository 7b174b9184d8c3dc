// Package metrics names the scalar measurements taken from a snapshot so
// runs, sweeps and searches can refer to them by string.
package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/slitsim/internal/analysis"
	"github.com/san-kum/slitsim/internal/bench"
)

const (
	ProbeIntensity = "probe_intensity"
	FirstNull      = "first_null"
	FWHM           = "fwhm"
	FresnelNumber  = "fresnel_number"
	NullCount      = "nulls"
	Magnification  = "magnification"
)

// NullThreshold is the intensity below which a local minimum counts as a
// null when measuring a sampled profile.
const NullThreshold = 1e-3

// Metric evaluates one measurement. NaN means the measurement does not
// exist for this snapshot.
type Metric func(snap bench.Snapshot) float64

var registry = map[string]Metric{
	ProbeIntensity: func(s bench.Snapshot) float64 { return s.Probe.Intensity },
	FirstNull: func(s bench.Snapshot) float64 {
		if s.FirstNull <= 0 {
			return math.NaN()
		}
		return s.FirstNull
	},
	FWHM: func(s bench.Snapshot) float64 {
		w, ok := analysis.FWHM(s.Profile)
		if !ok {
			return math.NaN()
		}
		return w
	},
	FresnelNumber: func(s bench.Snapshot) float64 { return s.Fresnel },
	NullCount: func(s bench.Snapshot) float64 {
		return float64(len(analysis.FindNulls(s.Profile, NullThreshold)))
	},
	Magnification: func(s bench.Snapshot) float64 { return s.Lens.Magnification },
}

func Get(name string) (Metric, error) {
	m, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, Names())
	}
	return m, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate runs every metric, leaving out the ones that do not exist for
// snap.
func Evaluate(snap bench.Snapshot) map[string]float64 {
	out := make(map[string]float64, len(registry))
	for name, m := range registry {
		if v := m(snap); !math.IsNaN(v) {
			out[name] = v
		}
	}
	return out
}
