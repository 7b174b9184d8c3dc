// Package analysis measures features of a sampled intensity profile.
//
// The diffraction package predicts null positions analytically; the tools
// here read them back from the samples the views actually draw:
//
//   - [FindNulls]: local minima of the curve
//   - [FWHM]: full width at half maximum of the central lobe
//   - [PowerSpectrum]: spatial-frequency content via FFT
//
// # Comparing with the model
//
//	pr := diffraction.NewProfile(diffraction.Symmetric(0.01), 2001, p)
//	nulls := analysis.FindNulls(pr, 0.05)
//	y, _ := diffraction.FirstNull(p)
//	// nulls[0] lies within one sample spacing of ±y
package analysis
