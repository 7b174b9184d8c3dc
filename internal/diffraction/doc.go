// Package diffraction computes the Fraunhofer single-slit intensity pattern.
//
// For a screen position y at distance L behind a slit of width a lit at
// wavelength λ:
//
//	θ = atan(y / L)
//	β = (π·a/λ)·sin θ
//	I = (sin β / β)², with I = 1 exactly when β == 0
//
// [Intensity] evaluates one point, [NewProfile] samples a symmetric window
// and normalizes it by its own maximum. Both are pure functions of their
// arguments and never fault over validated parameters; range checks belong
// to the caller.
//
// # Phase convention
//
// Textbooks write β either as k·a·sinθ/2 or as π·a·sinθ/λ, which are the same
// quantity. An earlier revision of the bench used the full phase 2π·a·sinθ/λ,
// halving every null position. [HalfPhase] is the default; [FullPhase] is kept
// for comparison and must be selected explicitly.
package diffraction
