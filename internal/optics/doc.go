// Package optics defines the physical parameters of the single-slit bench.
//
// The package is the leaf every other package builds on:
//
//   - [Parameters]: wavelength, slit width, screen distance, focal length,
//     beam width and probe position, all in metres
//   - [Domain] and [Limits]: the valid range of each adjustable parameter
//   - [RangeError] and [DegenerateGeometryError]: typed errors wrapping the
//     package sentinels
//
// # Units
//
// Every length is stored in SI metres. Conversions to the slider units of the
// user interface (millimetres, centimetres) live in the callers.
//
//	p := optics.DefaultParameters()
//	p.SlitWidth = 0.2 * optics.Millimetre
//	if err := optics.DefaultLimits().Validate(p); err != nil {
//	    // reject
//	}
package optics
