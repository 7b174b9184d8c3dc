package bench

import (
	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/geometry"
	"github.com/san-kum/slitsim/internal/optics"
)

// Probe is the numeric readout at the cursor position.
type Probe struct {
	Position  float64 `json:"position"`
	Beta      float64 `json:"beta"`
	Intensity float64 `json:"intensity"`
}

// Snapshot bundles everything the three views need for one parameter set.
type Snapshot struct {
	Parameters optics.Parameters   `json:"parameters"`
	Lens       geometry.Lens       `json:"lens"`
	Rays       []geometry.RayPath  `json:"rays"`
	Profile    diffraction.Profile `json:"profile"`
	Probe      Probe               `json:"probe"`

	// FirstNull is zero when the slit is too narrow for a null to exist.
	FirstNull float64 `json:"first_null"`
	Fresnel   float64 `json:"fresnel_number"`
}
