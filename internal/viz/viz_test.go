package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/geometry"
	"github.com/san-kum/slitsim/internal/optics"
)

func TestIntensityColor(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "#000000"},
		{1, "#ff0000"},
		{0.5, "#7f0000"},
		{-0.2, "#000000"},
		{1.5, "#ff0000"},
		{math.NaN(), "#000000"},
	}
	for _, tt := range tests {
		if got := IntensityColor(tt.in); got != tt.want {
			t.Errorf("IntensityColor(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(2, 1)
	c.DrawLine(0, 0, 3, 3)

	if c.Grid[0][0] != 0x2811 {
		t.Errorf("left cell = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2884 {
		t.Errorf("right cell = %U", c.Grid[0][1])
	}

	c.Set(-1, 0)
	c.Set(100, 0)
	c.Clear()
	if c.String() != string([]rune{0x2800, 0x2800})+"\n" {
		t.Errorf("clear left %q", c.String())
	}
}

func TestRayDiagram(t *testing.T) {
	l := geometry.DefaultLayout()
	rays, err := geometry.Trace(l, optics.DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}

	out := RayDiagram(rays, l, 60, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 11 {
		t.Fatalf("expected 10 canvas rows and a label row, got %d", len(lines))
	}
	for _, label := range []string{"Laser", "Lens", "Slit", "Screen"} {
		if !strings.Contains(lines[10], label) {
			t.Errorf("label row missing %s: %q", label, lines[10])
		}
	}
}

func TestPatternRows(t *testing.T) {
	pr := diffraction.NewProfile(diffraction.Symmetric(10*optics.Millimetre), 9, optics.DefaultParameters())
	out := Pattern(pr, 4)
	if got := strings.Count(out, "\n") + 1; got != 9 {
		t.Errorf("expected 9 bands, got %d", got)
	}
}

func TestCurveMarksProbe(t *testing.T) {
	p := optics.DefaultParameters()
	p.Probe = 5 * optics.Millimetre
	pr := diffraction.NewProfile(diffraction.Symmetric(10*optics.Millimetre), 201, p)
	probe := bench.Probe{Position: p.Probe, Intensity: diffraction.Intensity(p.Probe, p)}

	out := Curve(pr, probe, 40, 6)
	if !strings.Contains(out, "^") {
		t.Error("missing probe marker")
	}
	if !strings.Contains(out, "Intensity at Y=5.0 mm") {
		t.Errorf("missing readout in %q", out)
	}

	probe.Position = 20 * optics.Millimetre
	if strings.Contains(Curve(pr, probe, 40, 6), "^") {
		t.Error("marker drawn for probe outside window")
	}
}

func TestReadout(t *testing.T) {
	got := Readout(bench.Probe{Position: -2.5e-3, Intensity: 0.25})
	want := "Intensity at Y=-2.5 mm: 0.2500 W/m²"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelAdjustSlit(t *testing.T) {
	m, err := NewModel(optics.DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}
	if m.Selected() != optics.ParamSlitWidth {
		t.Fatalf("expected slit selected first, got %s", m.Selected())
	}

	m = press(t, m, keyUp)
	if got := m.Snapshot().Parameters.SlitWidth; math.Abs(got-0.11e-3) > 1e-12 {
		t.Errorf("expected 0.11mm, got %g", got)
	}

	m = press(t, m, keyDown, keyDown)
	if got := m.Snapshot().Parameters.SlitWidth; math.Abs(got-0.09e-3) > 1e-12 {
		t.Errorf("expected 0.09mm, got %g", got)
	}
}

func TestModelAdjustFocalUpdatesViews(t *testing.T) {
	m, err := NewModel(optics.DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}
	m = press(t, m, keyTab, keyTab, keyUp)
	if m.Selected() != optics.ParamFocalLength {
		t.Fatalf("expected focal length selected, got %s", m.Selected())
	}

	snap := m.Snapshot()
	if math.Abs(snap.Parameters.FocalLength-0.51) > 1e-12 {
		t.Fatalf("expected 51cm, got %g", snap.Parameters.FocalLength)
	}
	d2 := 1 / (1/0.51 - 1/1.5)
	if math.Abs(snap.Lens.Magnification+d2/1.5) > 1e-9 {
		t.Errorf("lens not recomputed: m=%g", snap.Lens.Magnification)
	}
	if m.Status() != "" {
		t.Errorf("unexpected status %q", m.Status())
	}
}

func TestModelRejectsOutOfRange(t *testing.T) {
	m, err := NewModel(config.Presets["wide"])
	if err != nil {
		t.Fatal(err)
	}
	before := m.Snapshot().Parameters

	m = press(t, m, keyUp)
	if m.Status() == "" {
		t.Error("expected a status message for the rejected step")
	}
	if m.Snapshot().Parameters != before {
		t.Error("rejected step changed the parameters")
	}
}

func TestModelProbeAndReset(t *testing.T) {
	m, err := NewModel(optics.DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}

	m = press(t, m, keyTab, keyTab, keyTab)
	if m.Selected() != optics.ParamProbe {
		t.Fatalf("expected probe selected, got %s", m.Selected())
	}
	for i := 0; i < 5; i++ {
		m = press(t, m, keyUp)
	}
	if got := m.Snapshot().Probe.Position; math.Abs(got-0.5e-3) > 1e-12 {
		t.Errorf("expected probe at 0.5mm, got %g", got)
	}

	m = press(t, m, runes("r"))
	if m.Snapshot().Parameters != optics.DefaultParameters() {
		t.Error("reset did not restore defaults")
	}

	m = press(t, m, keyTab)
	if m.Selected() != optics.ParamSlitWidth {
		t.Errorf("tab should wrap to slit, got %s", m.Selected())
	}
}

func TestModelPresetMenu(t *testing.T) {
	m, err := NewModel(optics.DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}

	m = press(t, m, runes("p"))
	if !strings.Contains(m.View(), "PRESETS") {
		t.Fatal("preset menu not shown")
	}

	// default, far, first-null
	m = press(t, m, keyDown, keyDown, keyEnter)
	if got := m.Snapshot().Parameters.Probe; got != 6.3*optics.Millimetre {
		t.Errorf("expected first-null preset probe, got %g", got)
	}
	if strings.Contains(m.View(), "PRESETS") {
		t.Error("menu still open after loading preset")
	}
}

func TestModelQuit(t *testing.T) {
	m, err := NewModel(optics.DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestModelView(t *testing.T) {
	m, err := NewModel(optics.DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}
	view := m.View()
	for _, want := range []string{"OPTICAL BENCH", "SCREEN", "PARAMETERS", "Intensity at Y=0.0 mm"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
