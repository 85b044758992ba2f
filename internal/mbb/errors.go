package mbb

import "errors"

// Model and calibration errors.
//
// Design decision: We use package-level sentinel errors so callers can
// branch with errors.Is() while call sites wrap them with fmt.Errorf and
// %w to add the offending values. Prior rejection inside the sampler is
// deliberately NOT an error: it is represented as a -Inf log-posterior
// and consumed internally by the fitting loop.
var (
	// ErrInvalidPhotometry is returned when photometry sequences have
	// mismatched lengths, contain zero or negative flux uncertainties,
	// or filtering leaves no usable points.
	ErrInvalidPhotometry = errors.New("invalid photometry")

	// ErrCalibrationNonConvergence is returned when the normalization
	// calibrator exhausts its iteration cap without reaching the target
	// luminosity.
	ErrCalibrationNonConvergence = errors.New("normalization calibration did not converge")

	// ErrModelEvaluation is returned when the spectral model produces a
	// non-finite flux for in-range parameters. This indicates a numerical
	// edge case and is surfaced rather than masked.
	ErrModelEvaluation = errors.New("spectral model produced non-finite flux")

	// ErrUnsupportedVariant is returned for a variant value outside the
	// closed enumeration.
	ErrUnsupportedVariant = errors.New("unsupported model variant")

	// ErrInvalidBand is returned when an integration band does not
	// satisfy 0 < low < high.
	ErrInvalidBand = errors.New("invalid wavelength band")
)
