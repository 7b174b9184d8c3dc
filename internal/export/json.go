package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/geometry"
	"github.com/san-kum/slitsim/internal/optics"
)

type ExportData struct {
	Name        string             `json:"name"`
	Convention  string             `json:"convention"`
	Parameters  optics.Parameters  `json:"parameters"`
	Lens        geometry.Lens      `json:"lens"`
	Probe       bench.Probe        `json:"probe"`
	FirstNull   float64            `json:"first_null"`
	Fresnel     float64            `json:"fresnel_number"`
	Samples     int                `json:"samples"`
	Positions   []float64          `json:"positions"`
	Intensities []float64          `json:"intensities"`
	Rays        []geometry.RayPath `json:"rays"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

func NewExportData(name, convention string, snap bench.Snapshot, metrics map[string]float64) ExportData {
	return ExportData{
		Name:        name,
		Convention:  convention,
		Parameters:  snap.Parameters,
		Lens:        snap.Lens,
		Probe:       snap.Probe,
		FirstNull:   snap.FirstNull,
		Fresnel:     snap.Fresnel,
		Samples:     snap.Profile.Len(),
		Positions:   snap.Profile.Positions(),
		Intensities: snap.Profile.Intensities(),
		Rays:        snap.Rays,
		Metrics:     metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}
