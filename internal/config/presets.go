package config

import (
	"sort"

	"github.com/san-kum/slitsim/internal/optics"
)

// Presets are named parameter sets for common demonstrations. Values are in
// metres.
var Presets = map[string]optics.Parameters{
	"default": optics.DefaultParameters(),
	"narrow":  withSlit(optics.DefaultParameters(), 0.05*optics.Millimetre),
	"wide":    withSlit(optics.DefaultParameters(), 0.5*optics.Millimetre),
	"far": func() optics.Parameters {
		p := optics.DefaultParameters()
		p.ScreenDistance = 600 * optics.Centimetre
		return p
	}(),
	"near": func() optics.Parameters {
		p := optics.DefaultParameters()
		p.ScreenDistance = 50 * optics.Centimetre
		p.SlitWidth = 0.2 * optics.Millimetre
		return p
	}(),
	"short-focus": func() optics.Parameters {
		p := optics.DefaultParameters()
		p.FocalLength = 10 * optics.Centimetre
		return p
	}(),
	"first-null": func() optics.Parameters {
		p := optics.DefaultParameters()
		p.Probe = 6.3 * optics.Millimetre
		return p
	}(),
}

func withSlit(p optics.Parameters, a float64) optics.Parameters {
	p.SlitWidth = a
	return p
}

// GetPreset returns a config carrying the named preset's parameters, or nil
// if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Parameters = p
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
