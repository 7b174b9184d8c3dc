package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/optics"
)

const (
	diagramWidth  = 60
	diagramHeight = 10
	curveHeight   = 8
	patternRows   = 21
	patternWidth  = 6
	sliderWidth   = 12
)

// Steps are the key increments per parameter, matching the resolution of
// the bench sliders.
var Steps = map[string]float64{
	optics.ParamSlitWidth:      0.01 * optics.Millimetre,
	optics.ParamScreenDistance: 1 * optics.Centimetre,
	optics.ParamFocalLength:    1 * optics.Centimetre,
	optics.ParamProbe:          0.1 * optics.Millimetre,
}

// Model is the interactive bench. Every key press goes through the
// controller; a rejected value leaves the display unchanged and shows the
// error in the status line.
type Model struct {
	ctrl     *bench.Controller
	opts     []bench.Option
	snap     bench.Snapshot
	selected int
	status   string
	showHelp bool
	menu     bool
	cursor   int
	presets  []string
	quitting bool
}

func NewModel(p optics.Parameters, opts ...bench.Option) (Model, error) {
	ctrl, err := bench.New(p, opts...)
	if err != nil {
		return Model{}, err
	}
	snap, err := ctrl.Snapshot()
	if err != nil {
		return Model{}, err
	}
	return Model{
		ctrl:    ctrl,
		opts:    opts,
		snap:    snap,
		presets: config.ListPresets(),
	}, nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.menu {
		return m.menuKey(key)
	}

	switch key.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.selected = (m.selected + 1) % len(optics.ParamNames)
	case "shift+tab":
		m.selected = (m.selected + len(optics.ParamNames) - 1) % len(optics.ParamNames)
	case "up", "k", "right", "l":
		m.adjust(1)
	case "down", "j", "left", "h":
		m.adjust(-1)
	case "r":
		m.snap = m.ctrl.Reset()
		m.status = ""
	case "p":
		m.menu = true
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) menuKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc", "p":
		m.menu = false
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter":
		m.menu = false
		m.loadPreset(m.presets[m.cursor])
	}
	return m, nil
}

func (m *Model) loadPreset(name string) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		m.status = fmt.Sprintf("unknown preset %q", name)
		return
	}
	ctrl, err := bench.New(cfg.Parameters, m.opts...)
	if err != nil {
		m.status = err.Error()
		return
	}
	snap, err := ctrl.Snapshot()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.ctrl, m.snap, m.status = ctrl, snap, "preset "+name
}

// adjust moves the selected parameter one step, snapped to the step grid.
func (m *Model) adjust(dir float64) {
	name := optics.ParamNames[m.selected]
	step := Steps[name]
	cur, err := m.ctrl.Parameters().Get(name)
	if err != nil {
		m.status = err.Error()
		return
	}
	next := math.Round((cur+dir*step)/step) * step

	snap, err := m.ctrl.Set(name, next)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.snap, m.status = snap, ""
}

// Snapshot is the state currently on screen.
func (m Model) Snapshot() bench.Snapshot { return m.snap }

// Selected is the name of the parameter the arrow keys adjust.
func (m Model) Selected() string { return optics.ParamNames[m.selected] }

func (m Model) Status() string { return m.status }

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := themeStyles(CurrentTheme)

	if m.menu {
		return m.viewMenu(st)
	}

	left := st.panel.Render(
		st.header.Render("OPTICAL BENCH") + "\n" +
			st.graph.Render(RayDiagram(m.snap.Rays, m.ctrl.Layout(), diagramWidth, diagramHeight)) + "\n\n" +
			st.graph.Render(Curve(m.snap.Profile, m.snap.Probe, diagramWidth-8, curveHeight)),
	)

	pr, err := m.ctrl.Profile(m.snap.Profile.Range, patternRows)
	if err != nil {
		pr = diffraction.Profile{}
	}
	pattern := st.panel.Render(st.header.Render("SCREEN") + "\n" + Pattern(pr, patternWidth))

	var s strings.Builder
	s.WriteString(st.header.Render("PARAMETERS") + "\n")
	p, limits := m.snap.Parameters, m.ctrl.Limits()
	for i, name := range optics.ParamNames {
		v, _ := p.Get(name)
		d, _ := limits.Domain(name)
		line := fmt.Sprintf("%-16s %s %s", name, Slider(v, d.Min, d.Max, sliderWidth), formatParam(name, v))
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	s.WriteString("\n")
	s.WriteString(st.label.Render("Image distance") + st.value.Render(fmt.Sprintf("%.1f cm", m.snap.Lens.ImageDistance/optics.Centimetre)) + "\n")
	s.WriteString(st.label.Render("Magnification") + st.value.Render(fmt.Sprintf("%.3f", m.snap.Lens.Magnification)) + "\n")
	if m.snap.FirstNull > 0 {
		s.WriteString(st.label.Render("First null") + st.value.Render(fmt.Sprintf("%.2f mm", m.snap.FirstNull/optics.Millimetre)) + "\n")
	} else {
		s.WriteString(st.label.Render("First null") + st.value.Render("none") + "\n")
	}
	s.WriteString(st.label.Render("Fresnel number") + st.value.Render(fmt.Sprintf("%.3f", m.snap.Fresnel)) + "\n")
	s.WriteString("\n" + st.active.Render(Readout(m.snap.Probe)) + "\n")
	if m.status != "" {
		s.WriteString(st.err.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("\nTab:Select ↑↓:Adjust R:Reset P:Presets\nT:Theme ?:Help Q:Quit"))

	right := st.panel.Render(s.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, pattern, right)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Tab      - Select next parameter    ║
║  Up/K     - Increase by one step     ║
║  Down/J   - Decrease by one step     ║
║  R        - Reset parameters         ║
║  P        - Preset menu              ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n" + main
	}
	return main
}

func (m Model) viewMenu(st styles) string {
	var s strings.Builder
	s.WriteString(st.header.Render("PRESETS") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			s.WriteString(st.active.Render("> "+name) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(name) + "\n")
		}
	}
	s.WriteString(st.help.Render("\n↑↓:Move Enter:Load Esc:Back"))
	return st.panel.Render(s.String())
}

func formatParam(name string, v float64) string {
	switch name {
	case optics.ParamSlitWidth:
		return fmt.Sprintf("%.2f mm", v/optics.Millimetre)
	case optics.ParamScreenDistance, optics.ParamFocalLength:
		return fmt.Sprintf("%.0f cm", v/optics.Centimetre)
	case optics.ParamProbe:
		return fmt.Sprintf("%+.1f mm", v/optics.Millimetre)
	}
	return fmt.Sprintf("%g", v)
}

// Run starts the interactive bench in the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
