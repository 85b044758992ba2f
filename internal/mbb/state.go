package mbb

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sedfit/mbbfit/internal/cosmo"
)

// StateConfig collects the numeric settings used when constructing model
// states. The zero value is usable: every unset field falls back to the
// package default.
type StateConfig struct {
	// Cosmology supplies luminosity distances. Defaults to the fiducial
	// flat ΛCDM cosmology.
	Cosmology cosmo.Distancer

	// GridPoints is the integration grid resolution (DefaultGridPoints).
	GridPoints int

	// Tolerance is the calibration tolerance in dex
	// (DefaultCalibrationTolerance).
	Tolerance float64

	// MaxIterations caps the calibration loop
	// (DefaultCalibrationMaxIterations).
	MaxIterations int

	// InitialGuess is the calibration starting normalization
	// (DefaultCalibrationInitialGuess).
	InitialGuess float64

	// BlendWavelength is the power-law blend wavelength [µm]
	// (DefaultBlendWavelength).
	BlendWavelength float64
}

// withDefaults fills unset fields.
func (c StateConfig) withDefaults() StateConfig {
	if c.Cosmology == nil {
		c.Cosmology = cosmo.NewDefault()
	}
	if c.GridPoints == 0 {
		c.GridPoints = DefaultGridPoints
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultCalibrationTolerance
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultCalibrationMaxIterations
	}
	if c.InitialGuess == 0 {
		c.InitialGuess = DefaultCalibrationInitialGuess
	}
	if c.BlendWavelength == 0 {
		c.BlendWavelength = DefaultBlendWavelength
	}
	return c
}

// State is the live best-estimate modified blackbody: normalization,
// temperature, emissivity index, redshift, variant, and the derived
// luminosity.
//
// Invariant: LogLuminosity always equals log10 of the integrated
// luminosity of the current parameters over the canonical 8–1000 µm band
// to within the calibration tolerance. Every mutating method restores it
// before returning; on error the state is left unchanged.
//
// A State is not safe for concurrent mutation; only one logical fit
// operation may mutate it at a time.
type State struct {
	model      *Model
	integrator *Integrator
	calibrator *Calibrator

	logAmp      float64
	temperature float64
	beta        float64
	redshift    float64
	logL        float64
}

// NewState constructs a State from a target log10 luminosity [Lsun],
// initial temperature [K] and emissivity index, redshift, and variant.
// Construction runs the normalization calibration, so the returned state
// already satisfies the luminosity invariant.
func NewState(cfg StateConfig, targetLog10L, temperature, beta, z float64, v Variant) (*State, error) {
	cfg = cfg.withDefaults()

	model, err := NewModel(v, WithBlendWavelength(cfg.BlendWavelength))
	if err != nil {
		return nil, err
	}
	integrator, err := NewIntegrator(cfg.Cosmology, WithGridPoints(cfg.GridPoints))
	if err != nil {
		return nil, err
	}
	calibrator, err := NewCalibrator(integrator,
		WithTolerance(cfg.Tolerance),
		WithMaxIterations(cfg.MaxIterations),
		WithInitialGuess(cfg.InitialGuess),
	)
	if err != nil {
		return nil, err
	}

	s := &State{
		model:       model,
		integrator:  integrator,
		calibrator:  calibrator,
		temperature: temperature,
		beta:        beta,
		redshift:    z,
	}
	logAmp, err := calibrator.Calibrate(model, targetLog10L, temperature, beta, z)
	if err != nil {
		return nil, err
	}
	s.logAmp = logAmp
	if err := s.refreshLuminosity(); err != nil {
		return nil, err
	}
	return s, nil
}

// Model returns the state's spectral model.
func (s *State) Model() *Model { return s.model }

// Integrator returns the state's luminosity integrator.
func (s *State) Integrator() *Integrator { return s.integrator }

// Params returns the current parameter vector.
func (s *State) Params() Params {
	return Params{LogAmp: s.logAmp, Temperature: s.temperature, Beta: s.beta}
}

// Temperature returns the current dust temperature [K].
func (s *State) Temperature() float64 { return s.temperature }

// Beta returns the current emissivity index.
func (s *State) Beta() float64 { return s.beta }

// Redshift returns the (non-fitted) redshift.
func (s *State) Redshift() float64 { return s.redshift }

// LogAmplitude returns the current normalization N.
func (s *State) LogAmplitude() float64 { return s.logAmp }

// LogLuminosity returns log10 of the canonical-band luminosity [Lsun].
func (s *State) LogLuminosity() float64 { return s.logL }

// Variant returns the model variant.
func (s *State) Variant() Variant { return s.model.Variant() }

// Evaluate returns the flux density [Jy] of the current parameters at
// the given observed-frame wavelengths [µm] shifted to redshift z. Pass
// z = 0 for a rest-frame evaluation.
func (s *State) Evaluate(wavelengths []float64, z float64) ([]float64, error) {
	return s.model.Evaluate(s.Params(), wavelengths, z)
}

// Luminosity returns the integrated luminosity [Lsun] of the current
// parameters over the given rest-frame band.
func (s *State) Luminosity(band Band) (float64, error) {
	return s.integrator.Integrate(s.model, s.Params(), s.redshift, band)
}

// Update replaces normalization, temperature, and emissivity index with
// the given values and recomputes the derived luminosity, restoring the
// invariant. Redshift and variant are never updated.
func (s *State) Update(logAmp, temperature, beta float64) error {
	prev := *s
	s.logAmp, s.temperature, s.beta = logAmp, temperature, beta
	if err := s.refreshLuminosity(); err != nil {
		*s = prev
		return err
	}
	return nil
}

// UpdateLuminosity sets temperature and emissivity index, then
// recalibrates the normalization so the canonical-band luminosity equals
// the target log10 value.
func (s *State) UpdateLuminosity(targetLog10L, temperature, beta float64) error {
	logAmp, err := s.calibrator.Calibrate(s.model, targetLog10L, temperature, beta, s.redshift)
	if err != nil {
		return err
	}
	prev := *s
	s.logAmp, s.temperature, s.beta = logAmp, temperature, beta
	if err := s.refreshLuminosity(); err != nil {
		*s = prev
		return err
	}
	return nil
}

// refreshLuminosity recomputes logL from the current parameters.
func (s *State) refreshLuminosity() error {
	lum, err := s.Luminosity(CanonicalBand())
	if err != nil {
		return err
	}
	if lum <= 0 || math.IsNaN(lum) || math.IsInf(lum, 0) {
		return fmt.Errorf("%w: luminosity %g", ErrModelEvaluation, lum)
	}
	s.logL = math.Log10(lum)
	return nil
}

// stateHeader is the first line of the persisted scalar state file.
const stateHeader = "# L    T    beta    z    opthin    pl"

// Save writes the scalar state to a text file: the header line naming
// the six fields, then one tab-separated record with numerics rounded to
// four decimals and the variant flags as "True"/"False". The sample
// chain is never persisted here; see the chain store for that.
func (s *State) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // User-chosen output path is intentional
	if err != nil {
		return fmt.Errorf("mbb: save state: %w", err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, stateHeader)
	fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%s\t%s\t\n",
		s.logL, s.temperature, s.beta, s.redshift,
		boolWord(s.Variant().OpticallyThin()), boolWord(s.Variant().PowerLaw()))
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("mbb: save state: %w", err)
	}
	return f.Close()
}

// LoadState reconstructs a State from a file written by Save. It goes
// through the normal constructor path, so loading re-runs the
// normalization calibration against the persisted luminosity.
func LoadState(cfg StateConfig, path string) (*State, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-chosen input path is intentional
	if err != nil {
		return nil, fmt.Errorf("mbb: load state: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("mbb: load state: %s: expected header and record lines", path)
	}
	fields := strings.Split(strings.TrimRight(lines[1], "\t\r\n"), "\t")
	if len(fields) < 6 {
		return nil, fmt.Errorf("mbb: load state: %s: expected 6 fields, got %d", path, len(fields))
	}

	nums := make([]float64, 4)
	for i, name := range []string{"L", "T", "beta", "z"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("mbb: load state: %s: bad %s field %q: %w", path, name, fields[i], err)
		}
		nums[i] = v
	}
	opticallyThin, err := parseBoolWord(fields[4])
	if err != nil {
		return nil, fmt.Errorf("mbb: load state: %s: %w", path, err)
	}
	powerLaw, err := parseBoolWord(fields[5])
	if err != nil {
		return nil, fmt.Errorf("mbb: load state: %s: %w", path, err)
	}

	return NewState(cfg, nums[0], nums[1], nums[2], nums[3], VariantFromFlags(opticallyThin, powerLaw))
}

// boolWord formats booleans the way the state file spells them.
func boolWord(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// parseBoolWord parses the state file's "True"/"False" spelling.
func parseBoolWord(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "True":
		return true, nil
	case "False":
		return false, nil
	default:
		return false, fmt.Errorf("bad boolean field %q", s)
	}
}
