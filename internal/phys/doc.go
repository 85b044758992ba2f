// Package phys provides the physical constants table shared by the
// spectral model, the luminosity integrator, and the cosmology
// collaborator. All values are SI.
package phys
