package mbb

import (
	"fmt"
	"math"

	"github.com/sedfit/mbbfit/internal/phys"
)

// Model defaults.
const (
	// PivotWavelength is the rest-frame wavelength [µm] fixing the pivot
	// frequency ν₀ in τ(ν) = (ν/ν₀)^β. 100 µm sits near the emission
	// peak of the dust temperatures this model targets, which keeps the
	// opacity and Planck terms of order unity there.
	PivotWavelength = 100.0

	// DefaultBlendWavelength is the rest-frame wavelength [µm] where the
	// power-law variants hand over from the mid-infrared power law to
	// the greybody. It lies on the Wien side of the greybody peak for
	// the whole allowed temperature range.
	DefaultBlendWavelength = 50.0
)

// Params is the ordered parameter vector of the spectral model. The
// emissivity index is always carried here; whether it is a free fit
// parameter is decided by the photometry, not the model.
type Params struct {
	// LogAmp is the normalization N, a dimensionless log10 amplitude.
	// Flux scales as 10^LogAmp, so the integrated luminosity is strictly
	// monotone increasing in it.
	LogAmp float64

	// Temperature is the dust temperature [K].
	Temperature float64

	// Beta is the dust emissivity index β.
	Beta float64
}

// Model evaluates flux densities for one fixed variant. It is immutable
// after construction and safe for concurrent use; the variant is selected
// once here and never branched on by callers.
type Model struct {
	variant         Variant
	blendWavelength float64
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithBlendWavelength overrides the rest-frame blend wavelength [µm]
// used by the power-law variants.
func WithBlendWavelength(wavelength float64) ModelOption {
	return func(m *Model) {
		m.blendWavelength = wavelength
	}
}

// NewModel creates a Model for the given variant.
func NewModel(v Variant, opts ...ModelOption) (*Model, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVariant, int(v))
	}
	m := &Model{
		variant:         v,
		blendWavelength: DefaultBlendWavelength,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.blendWavelength <= 0 {
		return nil, fmt.Errorf("%w: blend wavelength must be positive, got %g", ErrUnsupportedVariant, m.blendWavelength)
	}
	return m, nil
}

// Variant returns the model's variant.
func (m *Model) Variant() Variant { return m.variant }

// BlendWavelength returns the rest-frame blend wavelength [µm].
func (m *Model) BlendWavelength() float64 { return m.blendWavelength }

// pivotFrequency is ν₀ in Hz.
func pivotFrequency() float64 {
	return phys.FrequencyFromMicron(PivotWavelength)
}

// Evaluate returns the flux density [Jy] at each observed-frame
// wavelength [µm] for a source at redshift z. Wavelengths are shifted to
// the rest frame internally (division by 1+z); pass z = 0 for a
// rest-frame evaluation. A non-finite result is reported as a model
// evaluation failure, never returned silently.
func (m *Model) Evaluate(p Params, wavelengths []float64, z float64) ([]float64, error) {
	if z < 0 {
		return nil, fmt.Errorf("mbb: redshift must be non-negative, got %g", z)
	}
	flux := make([]float64, len(wavelengths))
	for i, wl := range wavelengths {
		rest := wl / (1 + z)
		if rest <= 0 {
			return nil, fmt.Errorf("%w: non-positive wavelength %g µm", ErrModelEvaluation, wl)
		}
		f := m.fluxAt(p, rest)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: wavelength %g µm, T=%g K, beta=%g", ErrModelEvaluation, wl, p.Temperature, p.Beta)
		}
		flux[i] = f
	}
	return flux, nil
}

// fluxAt evaluates the variant at one rest-frame wavelength [µm].
func (m *Model) fluxAt(p Params, rest float64) float64 {
	if m.variant.PowerLaw() && rest < m.blendWavelength {
		// The power-law segment's amplitude and slope are derived from
		// C¹ continuity with the greybody at the blend wavelength; they
		// are not free parameters.
		amp := m.greybody(p, m.blendWavelength)
		alpha := m.blendSlope(p)
		return amp * math.Pow(rest/m.blendWavelength, alpha)
	}
	return m.greybody(p, rest)
}

// greybody evaluates the greybody form at one rest-frame wavelength [µm].
// The Planck term is pivot-scaled, B̃ = (ν/ν₀)³ / (e^(hν/kT) - 1), which
// folds the absolute radiometric constants into the fitted amplitude.
func (m *Model) greybody(p Params, rest float64) float64 {
	nu := phys.FrequencyFromMicron(rest)
	nr := nu / pivotFrequency()
	x := phys.Planck * nu / (phys.Boltzmann * p.Temperature)
	planck := nr * nr * nr / math.Expm1(x)

	var opacity float64
	if m.variant.OpticallyThin() {
		opacity = math.Pow(nr, p.Beta)
	} else {
		tau := math.Pow(nr, p.Beta)
		opacity = -math.Expm1(-tau) // 1 - e^(-τ)
	}
	return math.Pow(10, p.LogAmp) * opacity * planck
}

// blendSlope returns α = d ln S / d ln λ of the greybody segment at the
// blend wavelength, computed analytically. In frequency,
//
//	d ln S / d ln ν = opacity term + 3 - x·e^x/(e^x - 1)
//
// with the opacity term β in the optically thin limit and
// β·τ/(e^τ - 1) in the general case; the wavelength slope is its
// negation.
func (m *Model) blendSlope(p Params) float64 {
	nu := phys.FrequencyFromMicron(m.blendWavelength)
	nr := nu / pivotFrequency()
	x := phys.Planck * nu / (phys.Boltzmann * p.Temperature)

	var opacityTerm float64
	if m.variant.OpticallyThin() {
		opacityTerm = p.Beta
	} else {
		tau := math.Pow(nr, p.Beta)
		opacityTerm = p.Beta * tau / math.Expm1(tau)
	}

	// x·e^x/(e^x - 1) = x + x/(e^x - 1); the second form stays finite
	// for large x where e^x overflows.
	planckTerm := x + x/math.Expm1(x)

	return -(opacityTerm + 3 - planckTerm)
}
