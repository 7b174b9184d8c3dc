package optics

import (
	"fmt"
	"math"
)

const (
	Metre      = 1.0
	Centimetre = 1e-2
	Millimetre = 1e-3
	Nanometre  = 1e-9
)

// HeNe is the wavelength of the red helium-neon laser on the bench.
const HeNe = 633 * Nanometre

// Parameter names accepted by SetParameter-style APIs.
const (
	ParamSlitWidth      = "slit_width"
	ParamScreenDistance = "screen_distance"
	ParamFocalLength    = "focal_length"
	ParamProbe          = "probe"
)

// ParamNames lists the adjustable parameters in display order.
var ParamNames = []string{ParamSlitWidth, ParamScreenDistance, ParamFocalLength, ParamProbe}

type Parameters struct {
	Wavelength     float64 `json:"wavelength" yaml:"wavelength"`
	SlitWidth      float64 `json:"slit_width" yaml:"slit_width"`
	ScreenDistance float64 `json:"screen_distance" yaml:"screen_distance"`
	FocalLength    float64 `json:"focal_length" yaml:"focal_length"`
	BeamWidth      float64 `json:"beam_width" yaml:"beam_width"`
	Probe          float64 `json:"probe" yaml:"probe"`
}

func DefaultParameters() Parameters {
	return Parameters{
		Wavelength:     HeNe,
		SlitWidth:      0.1 * Millimetre,
		ScreenDistance: 100 * Centimetre,
		FocalLength:    50 * Centimetre,
		BeamWidth:      2 * Millimetre,
		Probe:          0,
	}
}

// Get returns the named adjustable parameter.
func (p Parameters) Get(name string) (float64, error) {
	switch name {
	case ParamSlitWidth:
		return p.SlitWidth, nil
	case ParamScreenDistance:
		return p.ScreenDistance, nil
	case ParamFocalLength:
		return p.FocalLength, nil
	case ParamProbe:
		return p.Probe, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
}

// With returns a copy of p with the named parameter replaced. It does not
// validate the value.
func (p Parameters) With(name string, value float64) (Parameters, error) {
	switch name {
	case ParamSlitWidth:
		p.SlitWidth = value
	case ParamScreenDistance:
		p.ScreenDistance = value
	case ParamFocalLength:
		p.FocalLength = value
	case ParamProbe:
		p.Probe = value
	default:
		return p, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	return p, nil
}

func (p Parameters) IsFinite() bool {
	for _, v := range []float64{p.Wavelength, p.SlitWidth, p.ScreenDistance, p.FocalLength, p.BeamWidth, p.Probe} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Domain is a closed interval [Min, Max].
type Domain struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (d Domain) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= d.Min && v <= d.Max
}

func (d Domain) Clamp(v float64) float64 {
	return math.Max(d.Min, math.Min(d.Max, v))
}

func (d Domain) Span() float64 {
	return d.Max - d.Min
}

// Limits holds the domain of every adjustable parameter.
type Limits struct {
	SlitWidth      Domain `json:"slit_width" yaml:"slit_width"`
	ScreenDistance Domain `json:"screen_distance" yaml:"screen_distance"`
	FocalLength    Domain `json:"focal_length" yaml:"focal_length"`
	Probe          Domain `json:"probe" yaml:"probe"`
}

// DefaultLimits returns the slider ranges of the bench.
func DefaultLimits() Limits {
	return Limits{
		SlitWidth:      Domain{Min: 0.05 * Millimetre, Max: 0.5 * Millimetre},
		ScreenDistance: Domain{Min: 50 * Centimetre, Max: 600 * Centimetre},
		FocalLength:    Domain{Min: 10 * Centimetre, Max: 100 * Centimetre},
		Probe:          Domain{Min: -10 * Millimetre, Max: 10 * Millimetre},
	}
}

func (l Limits) Domain(name string) (Domain, error) {
	switch name {
	case ParamSlitWidth:
		return l.SlitWidth, nil
	case ParamScreenDistance:
		return l.ScreenDistance, nil
	case ParamFocalLength:
		return l.FocalLength, nil
	case ParamProbe:
		return l.Probe, nil
	default:
		return Domain{}, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
}

// Check validates a single named value. Lengths must also be strictly
// positive regardless of the configured domain.
func (l Limits) Check(name string, value float64) error {
	d, err := l.Domain(name)
	if err != nil {
		return err
	}
	if math.IsInf(value, 0) || !d.Contains(value) || (name != ParamProbe && value <= 0) {
		return &RangeError{Param: name, Value: value, Min: d.Min, Max: d.Max}
	}
	return nil
}

// Validate checks every adjustable parameter of p plus the fixed wavelength
// and beam width.
func (l Limits) Validate(p Parameters) error {
	if !(p.Wavelength > 0) || math.IsInf(p.Wavelength, 0) {
		return &RangeError{Param: "wavelength", Value: p.Wavelength, Min: 0, Max: math.Inf(1)}
	}
	if !(p.BeamWidth > 0) || math.IsInf(p.BeamWidth, 0) {
		return &RangeError{Param: "beam_width", Value: p.BeamWidth, Min: 0, Max: math.Inf(1)}
	}
	for _, name := range ParamNames {
		v, _ := p.Get(name)
		if err := l.Check(name, v); err != nil {
			return err
		}
	}
	return nil
}
