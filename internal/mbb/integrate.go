package mbb

import (
	"fmt"
	"math"

	"github.com/sedfit/mbbfit/internal/cosmo"
	"github.com/sedfit/mbbfit/internal/phys"
)

// Integration defaults.
const (
	// DefaultGridPoints is the fixed resolution of the linear frequency
	// grid. 20,000 points over the canonical band keep the left-endpoint
	// Riemann error well below the calibration tolerance.
	DefaultGridPoints = 20000
)

// Band is a rest-frame wavelength integration band [µm].
type Band struct {
	// Low is the short-wavelength bound [µm].
	Low float64

	// High is the long-wavelength bound [µm].
	High float64
}

// CanonicalBand is the 8–1000 µm rest-frame band defining the bolometric
// infrared luminosity L_IR.
func CanonicalBand() Band { return Band{Low: 8, High: 1000} }

// Validate checks that the band satisfies 0 < Low < High.
func (b Band) Validate() error {
	if b.Low <= 0 || b.Low >= b.High {
		return fmt.Errorf("%w: bounds (%g, %g) µm", ErrInvalidBand, b.Low, b.High)
	}
	return nil
}

// Integrator converts a spectral model into a bolometric luminosity by
// numerical integration over a frequency grid. It is deterministic: two
// calls with identical inputs and grid resolution return identical
// results. Safe for concurrent use.
type Integrator struct {
	cosmology  cosmo.Distancer
	gridPoints int
}

// IntegratorOption configures an Integrator.
type IntegratorOption func(*Integrator)

// WithGridPoints overrides the frequency grid resolution.
func WithGridPoints(n int) IntegratorOption {
	return func(it *Integrator) {
		it.gridPoints = n
	}
}

// NewIntegrator creates an Integrator using the given cosmology for
// luminosity distances.
func NewIntegrator(cosmology cosmo.Distancer, opts ...IntegratorOption) (*Integrator, error) {
	if cosmology == nil {
		return nil, fmt.Errorf("mbb: integrator requires a cosmology")
	}
	it := &Integrator{
		cosmology:  cosmology,
		gridPoints: DefaultGridPoints,
	}
	for _, opt := range opts {
		opt(it)
	}
	if it.gridPoints < 2 {
		return nil, fmt.Errorf("mbb: integrator needs at least 2 grid points, got %d", it.gridPoints)
	}
	return it, nil
}

// GridPoints returns the frequency grid resolution.
func (it *Integrator) GridPoints() int { return it.gridPoints }

// Integrate returns the luminosity [Lsun] of the model with parameters p
// at redshift z, integrated over the rest-frame band. The band bounds are
// converted to frequency bounds, the model is evaluated on a linear
// frequency grid, and flux × bin width is summed with a left-endpoint
// rule, scaled by 4π·D_L²/(1+z).
func (it *Integrator) Integrate(m *Model, p Params, z float64, band Band) (float64, error) {
	if err := band.Validate(); err != nil {
		return 0, err
	}

	dlMpc, err := it.cosmology.LuminosityDistance(z)
	if err != nil {
		return 0, fmt.Errorf("mbb: luminosity distance: %w", err)
	}
	dl := dlMpc * phys.Megaparsec

	nuLow := phys.FrequencyFromMicron(band.High)
	nuHigh := phys.FrequencyFromMicron(band.Low)
	step := (nuHigh - nuLow) / float64(it.gridPoints-1)

	// Left endpoints only: the final grid node has no bin to its right.
	wavelengths := make([]float64, it.gridPoints-1)
	for i := range wavelengths {
		nu := nuLow + step*float64(i)
		wavelengths[i] = phys.MicronFromFrequency(nu)
	}

	// Rest-frame evaluation: the grid is already in the rest frame.
	flux, err := m.Evaluate(p, wavelengths, 0)
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, f := range flux {
		sum += f * step
	}

	watts := 4 * math.Pi * dl * dl * sum * phys.Jansky / (1 + z)
	return watts / phys.SolarLuminosity, nil
}
