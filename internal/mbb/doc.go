// Package mbb implements the modified-blackbody (MBB) spectral model and
// its supporting numerics: flux evaluation for the four model variants,
// bolometric luminosity integration over a wavelength band, normalization
// calibration against a target luminosity, photometry validation, and the
// live model state with its scalar save/load format.
//
// The model follows the Casey et al. (2012) parameterization: a greybody
// with opacity τ(ν) = (ν/ν₀)^β, evaluated either in the general-opacity
// form (1 - e^(-τ))·B_ν(T) or the optically thin limit (ν/ν₀)^β·B_ν(T),
// optionally joined to a short-wavelength power law that matches the
// greybody value and first derivative at the blend wavelength.
//
// All evaluation code in this package is pure and safe for concurrent use;
// only State carries mutable fields, and a State must not be mutated by
// more than one fit operation at a time.
package mbb
