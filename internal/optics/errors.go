package optics

import (
	"errors"
	"fmt"
)

// Domain errors for bench operations.
var (
	// ErrOutOfRange indicates a parameter value outside its documented domain.
	ErrOutOfRange = errors.New("optics: parameter out of valid range")

	// ErrUnknownParameter indicates a parameter name the bench does not expose.
	ErrUnknownParameter = errors.New("optics: unknown parameter")

	// ErrDegenerateGeometry indicates the thin-lens equation is singular (object at the focal point).
	ErrDegenerateGeometry = errors.New("optics: degenerate geometry (image at infinity)")

	// ErrInvalidLayout indicates bench component positions that cannot form a ray diagram.
	ErrInvalidLayout = errors.New("optics: invalid bench layout")

	// ErrInvalidSampling indicates a profile request with no samples or an empty range.
	ErrInvalidSampling = errors.New("optics: invalid profile sampling")
)

// RangeError reports which parameter was rejected and why.
type RangeError struct {
	Param string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s=%g outside [%g, %g]", ErrOutOfRange.Error(), e.Param, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// DegenerateGeometryError carries the object distance and focal length that
// made the lens equation singular.
type DegenerateGeometryError struct {
	ObjectDistance float64
	FocalLength    float64
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("%s: d1=%gm f=%gm", ErrDegenerateGeometry.Error(), e.ObjectDistance, e.FocalLength)
}

func (e *DegenerateGeometryError) Unwrap() error {
	return ErrDegenerateGeometry
}
