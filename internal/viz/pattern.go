package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/slitsim/internal/diffraction"
)

// IntensityColor maps a normalized intensity onto the red ramp #000000 to
// #ff0000. Values outside [0, 1] are clamped.
func IntensityColor(intensity float64) string {
	if intensity < 0 || math.IsNaN(intensity) {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	return fmt.Sprintf("#%02x0000", int(255*intensity))
}

// Pattern renders the screen as one band per sample, top band at the
// positive end of the window, each band width cells wide.
func Pattern(pr diffraction.Profile, width int) string {
	var b strings.Builder
	band := strings.Repeat("█", width)
	for i := pr.Len() - 1; i >= 0; i-- {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(IntensityColor(pr.Samples[i].Intensity)))
		b.WriteString(style.Render(band))
		if i > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
