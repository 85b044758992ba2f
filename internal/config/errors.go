package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrInvalidWalkers is returned when the walker count is not a
	// positive even number. The stretch move updates one half of the
	// ensemble against the other, so the count must split evenly.
	ErrInvalidWalkers = errors.New("invalid walker count: must be a positive even number")

	// ErrInvalidSteps is returned when the burn-in step count is
	// negative or the production step count is not positive.
	ErrInvalidSteps = errors.New("invalid step counts: burn-in must be non-negative and production positive")

	// ErrInvalidJitterScale is returned when the initial-position jitter
	// scale is not positive. Zero jitter would start every walker at the
	// same point and the ensemble could never spread.
	ErrInvalidJitterScale = errors.New("invalid jitter scale: must be positive")

	// ErrInvalidCalibration is returned when the calibration tolerance
	// or iteration cap is not positive.
	ErrInvalidCalibration = errors.New("invalid calibration settings: tolerance and max iterations must be positive")

	// ErrInvalidGridPoints is returned when the integration grid has
	// fewer than two points. A single point gives a zero-width grid.
	ErrInvalidGridPoints = errors.New("invalid grid points: need at least 2")

	// ErrInvalidBand is returned when the integration band is empty or
	// extends to non-positive wavelengths.
	ErrInvalidBand = errors.New("invalid band: low bound must be positive and less than high bound")

	// ErrInvalidBlendWavelength is returned when the power-law blend
	// wavelength is not positive.
	ErrInvalidBlendWavelength = errors.New("invalid blend wavelength: must be positive")

	// ErrInvalidCosmology is returned when H0 is not positive or Ωm is
	// outside the open interval (0, 1).
	ErrInvalidCosmology = errors.New("invalid cosmology: H0 must be positive and omega_matter in (0, 1)")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
