package optics

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultParametersWithinLimits(t *testing.T) {
	if err := DefaultLimits().Validate(DefaultParameters()); err != nil {
		t.Fatalf("default parameters rejected: %v", err)
	}
}

func TestLimitsCheck(t *testing.T) {
	l := DefaultLimits()

	tests := []struct {
		name  string
		param string
		value float64
		ok    bool
	}{
		{"slit in range", ParamSlitWidth, 0.2 * Millimetre, true},
		{"slit negative", ParamSlitWidth, -0.1, false},
		{"slit zero", ParamSlitWidth, 0, false},
		{"slit too wide", ParamSlitWidth, 1 * Millimetre, false},
		{"distance lower bound", ParamScreenDistance, 0.5, true},
		{"distance zero", ParamScreenDistance, 0, false},
		{"focal nan", ParamFocalLength, math.NaN(), false},
		{"probe negative", ParamProbe, -5 * Millimetre, true},
		{"probe inf", ParamProbe, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Check(tt.param, tt.value)
			if tt.ok && err != nil {
				t.Errorf("expected ok, got %v", err)
			}
			if !tt.ok {
				var re *RangeError
				if !errors.As(err, &re) {
					t.Fatalf("expected RangeError, got %v", err)
				}
				if !errors.Is(err, ErrOutOfRange) {
					t.Error("RangeError should unwrap to ErrOutOfRange")
				}
				if re.Param != tt.param {
					t.Errorf("expected param %s, got %s", tt.param, re.Param)
				}
			}
		})
	}
}

func TestUnknownParameter(t *testing.T) {
	p := DefaultParameters()
	if _, err := p.With("wavelength", 1); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
	if _, err := DefaultLimits().Domain("colour"); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
}

func TestWithLeavesOriginal(t *testing.T) {
	p := DefaultParameters()
	q, err := p.With(ParamSlitWidth, 0.3*Millimetre)
	if err != nil {
		t.Fatal(err)
	}
	if p.SlitWidth != 0.1*Millimetre {
		t.Errorf("original modified: %g", p.SlitWidth)
	}
	if q.SlitWidth != 0.3*Millimetre {
		t.Errorf("expected 0.3mm, got %g", q.SlitWidth)
	}
}

func TestDegenerateGeometryError(t *testing.T) {
	var err error = &DegenerateGeometryError{ObjectDistance: 0.5, FocalLength: 0.5}
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Error("expected to unwrap to ErrDegenerateGeometry")
	}
}
