package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/sedfit/mbbfit/internal/fit"
	"github.com/sedfit/mbbfit/internal/mbb"
)

// Default configuration values.
// Numeric defaults mirror the package-level constants of the fitting
// and model packages so there is a single source of truth.
const (
	// DefaultWalkers is the default ensemble size for the sampler.
	DefaultWalkers = fit.DefaultWalkers

	// DefaultBurnSteps is the default number of discarded burn-in
	// iterations.
	DefaultBurnSteps = fit.DefaultBurnSteps

	// DefaultProductionSteps is the default number of recorded sampler
	// iterations.
	DefaultProductionSteps = fit.DefaultProductionSteps

	// DefaultJitterScale is the per-walker Gaussian jitter applied to
	// the initial parameter vector.
	DefaultJitterScale = fit.DefaultJitterScale

	// DefaultTolerance is the calibration convergence tolerance in dex.
	DefaultTolerance = mbb.DefaultCalibrationTolerance

	// DefaultMaxIterations caps the calibration root search.
	DefaultMaxIterations = mbb.DefaultCalibrationMaxIterations

	// DefaultInitialGuess is the starting log-amplitude for calibration.
	DefaultInitialGuess = mbb.DefaultCalibrationInitialGuess

	// DefaultGridPoints is the frequency-grid resolution of the
	// luminosity integrator.
	DefaultGridPoints = mbb.DefaultGridPoints

	// DefaultBandLow and DefaultBandHigh bound the canonical infrared
	// integration band in rest-frame microns.
	DefaultBandLow  = 8.0
	DefaultBandHigh = 1000.0

	// DefaultBlendWavelength is the rest-frame wavelength below which
	// power-law variants replace the greybody, in microns.
	DefaultBlendWavelength = mbb.DefaultBlendWavelength

	// DefaultHubbleConstant and DefaultOmegaMatter parameterize the
	// default flat ΛCDM cosmology.
	DefaultHubbleConstant = 70.0
	DefaultOmegaMatter    = 0.3

	// AppName is the application name used for XDG directory paths.
	AppName = "mbbfit"
)

// Config holds all configuration options for mbbfit.
// This struct is populated from CLI flags, optionally merged with a
// `.mbbfit` YAML file, and passed through the application via dependency
// injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., SamplerConfig, BandConfig) for simplicity. The number of
// options is manageable, and nesting would add complexity without
// significant benefit. The YAML file format is sectioned for
// readability; File.Apply flattens it into this struct.
type Config struct {
	// Walkers is the ensemble size of the affine-invariant sampler.
	// Must be even and at least twice the sampled dimensionality.
	Walkers int

	// BurnSteps is the number of burn-in iterations discarded before
	// recording the chain.
	BurnSteps int

	// ProductionSteps is the number of recorded sampler iterations.
	ProductionSteps int

	// JitterScale is the standard deviation of the Gaussian jitter
	// applied per walker around the initial parameter vector.
	JitterScale float64

	// Workers bounds the posterior-evaluation worker pool. Zero means
	// one worker per CPU. Pool size never affects the sampled chain.
	Workers int

	// Seed seeds the sampler's random stream. Zero seeds from the
	// clock; any other value makes the run reproducible.
	Seed uint64

	// Tolerance is the calibration convergence tolerance in dex.
	Tolerance float64

	// MaxIterations caps the calibration secant iteration count.
	MaxIterations int

	// InitialGuess is the starting log-amplitude for calibration.
	InitialGuess float64

	// GridPoints is the number of frequency samples in the luminosity
	// integrator's linear grid.
	GridPoints int

	// BandLow and BandHigh bound the rest-frame integration band in
	// microns. BandLow must be positive and less than BandHigh.
	BandLow  float64
	BandHigh float64

	// BlendWavelength is the rest-frame wavelength below which
	// power-law variants replace the greybody, in microns.
	BlendWavelength float64

	// HubbleConstant is H0 in km/s/Mpc.
	HubbleConstant float64

	// OmegaMatter is the matter density parameter Ωm.
	OmegaMatter float64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .mbbfit in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for the SQLite chain database.
	// When set, fit results are saved for historical comparison.
	// When empty, results are not persisted.
	DBDir string

	// SaveToDB indicates whether to save fit results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to the documented defaults; callers override
// specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because nearly every default is non-zero. This also
// serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Walkers:         DefaultWalkers,
		BurnSteps:       DefaultBurnSteps,
		ProductionSteps: DefaultProductionSteps,
		JitterScale:     DefaultJitterScale,
		Tolerance:       DefaultTolerance,
		MaxIterations:   DefaultMaxIterations,
		InitialGuess:    DefaultInitialGuess,
		GridPoints:      DefaultGridPoints,
		BandLow:         DefaultBandLow,
		BandHigh:        DefaultBandHigh,
		BlendWavelength: DefaultBlendWavelength,
		HubbleConstant:  DefaultHubbleConstant,
		OmegaMatter:     DefaultOmegaMatter,
	}
}

// XDGDataDir returns the XDG data directory for mbbfit.
// On Linux: ~/.local/share/mbbfit
// On macOS: ~/Library/Application Support/mbbfit
// On Windows: %LOCALAPPDATA%\mbbfit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for mbbfit.
// On Linux: ~/.config/mbbfit
// On macOS: ~/Library/Application Support/mbbfit
// On Windows: %APPDATA%\mbbfit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any fitting begins.
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Walkers <= 0 || c.Walkers%2 != 0 {
		return ErrInvalidWalkers
	}
	if c.BurnSteps < 0 || c.ProductionSteps <= 0 {
		return ErrInvalidSteps
	}
	if c.JitterScale <= 0 {
		return ErrInvalidJitterScale
	}
	if c.Tolerance <= 0 || c.MaxIterations <= 0 {
		return ErrInvalidCalibration
	}
	if c.GridPoints < 2 {
		return ErrInvalidGridPoints
	}
	if c.BandLow <= 0 || c.BandHigh <= c.BandLow {
		return ErrInvalidBand
	}
	if c.BlendWavelength <= 0 {
		return ErrInvalidBlendWavelength
	}
	if c.HubbleConstant <= 0 || c.OmegaMatter <= 0 || c.OmegaMatter >= 1 {
		return ErrInvalidCosmology
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// Band returns the configured integration band.
func (c *Config) Band() mbb.Band {
	return mbb.Band{Low: c.BandLow, High: c.BandHigh}
}
