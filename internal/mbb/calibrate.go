package mbb

import (
	"fmt"
	"math"
)

// Calibration defaults.
const (
	// DefaultCalibrationTolerance is the convergence tolerance in dex on
	// log10 of the integrated luminosity.
	DefaultCalibrationTolerance = 1e-4

	// DefaultCalibrationMaxIterations caps the calibration loop. An
	// uncapped iteration can spin forever under floating-point rounding;
	// exceeding the cap is a loud failure instead.
	DefaultCalibrationMaxIterations = 10000

	// DefaultCalibrationInitialGuess is the starting normalization.
	DefaultCalibrationInitialGuess = 11.0
)

// Calibrator finds the normalization N reproducing a target bolometric
// luminosity. It uses a secant update on f(N) = log10(L(N)) - target.
//
// Precondition: the integrated luminosity is strictly monotone increasing
// in N for fixed temperature, emissivity, and redshift (flux scales as
// 10^N), so f has exactly one root and the secant iteration converges.
type Calibrator struct {
	integrator    *Integrator
	tolerance     float64
	maxIterations int
	initialGuess  float64
}

// CalibratorOption configures a Calibrator.
type CalibratorOption func(*Calibrator)

// WithTolerance overrides the convergence tolerance [dex].
func WithTolerance(tol float64) CalibratorOption {
	return func(c *Calibrator) {
		c.tolerance = tol
	}
}

// WithMaxIterations overrides the iteration cap.
func WithMaxIterations(n int) CalibratorOption {
	return func(c *Calibrator) {
		c.maxIterations = n
	}
}

// WithInitialGuess overrides the starting normalization.
func WithInitialGuess(n float64) CalibratorOption {
	return func(c *Calibrator) {
		c.initialGuess = n
	}
}

// NewCalibrator creates a Calibrator backed by the given integrator.
func NewCalibrator(integrator *Integrator, opts ...CalibratorOption) (*Calibrator, error) {
	if integrator == nil {
		return nil, fmt.Errorf("mbb: calibrator requires an integrator")
	}
	c := &Calibrator{
		integrator:    integrator,
		tolerance:     DefaultCalibrationTolerance,
		maxIterations: DefaultCalibrationMaxIterations,
		initialGuess:  DefaultCalibrationInitialGuess,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tolerance <= 0 {
		return nil, fmt.Errorf("mbb: calibration tolerance must be positive, got %g", c.tolerance)
	}
	if c.maxIterations <= 0 {
		return nil, fmt.Errorf("mbb: calibration iteration cap must be positive, got %d", c.maxIterations)
	}
	return c, nil
}

// Tolerance returns the convergence tolerance [dex].
func (c *Calibrator) Tolerance() float64 { return c.tolerance }

// Calibrate returns the normalization N such that log10 of the model's
// luminosity over the canonical band equals targetLog10L within the
// tolerance. It fails with ErrCalibrationNonConvergence if the iteration
// cap is exceeded.
func (c *Calibrator) Calibrate(m *Model, targetLog10L, temperature, beta, z float64) (float64, error) {
	residual := func(n float64) (float64, error) {
		lum, err := c.integrator.Integrate(m, Params{LogAmp: n, Temperature: temperature, Beta: beta}, z, CanonicalBand())
		if err != nil {
			return 0, err
		}
		if lum <= 0 || math.IsInf(lum, 0) || math.IsNaN(lum) {
			return 0, fmt.Errorf("%w: luminosity %g at N=%g", ErrModelEvaluation, lum, n)
		}
		return math.Log10(lum) - targetLog10L, nil
	}

	n0 := c.initialGuess
	f0, err := residual(n0)
	if err != nil {
		return 0, err
	}
	if math.Abs(f0) <= c.tolerance {
		return n0, nil
	}

	// Since log10(L) is linear in N with unit slope, stepping by the
	// full residual lands near the root and gives the secant a second
	// support point.
	n1 := n0 - f0
	for i := 0; i < c.maxIterations; i++ {
		f1, err := residual(n1)
		if err != nil {
			return 0, err
		}
		if math.Abs(f1) <= c.tolerance {
			return n1, nil
		}
		denom := f1 - f0
		if denom == 0 {
			return 0, fmt.Errorf("%w: flat residual at N=%g (luminosity not monotone under rounding)",
				ErrCalibrationNonConvergence, n1)
		}
		n0, f0, n1 = n1, f1, n1-f1*(n1-n0)/denom
	}
	return 0, fmt.Errorf("%w: target %g dex not reached after %d iterations",
		ErrCalibrationNonConvergence, targetLog10L, c.maxIterations)
}
