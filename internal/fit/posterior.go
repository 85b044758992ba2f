package fit

import (
	"math"

	"github.com/sedfit/mbbfit/internal/mbb"
)

// Prior bounds. Both intervals are open: boundary values are rejected.
const (
	// TemperatureMin and TemperatureMax bound the flat temperature
	// prior [K].
	TemperatureMin = 10.0
	TemperatureMax = 100.0

	// BetaMin and BetaMax bound the flat emissivity-index prior,
	// applied only when β is a free parameter.
	BetaMin = 0.1
	BetaMax = 5.0
)

// Posterior combines the flat prior and the χ² likelihood into a
// log-posterior over the sampled parameter vector. The vector is
// (N, T) or (N, T, β) depending on whether the photometry has enough
// points to constrain β; in the two-dimensional case β stays fixed at
// the value supplied to NewPosterior.
//
// Posterior is immutable and safe for concurrent use by sampler workers.
type Posterior struct {
	model     *mbb.Model
	phot      mbb.Photometry
	fixedBeta float64
	dim       int
}

// NewPosterior builds the posterior for the given model and rest-frame
// photometry. fixedBeta is the emissivity index used when the photometry
// is too sparse to fit it.
func NewPosterior(model *mbb.Model, phot mbb.Photometry, fixedBeta float64) *Posterior {
	dim := 2
	if phot.FitsEmissivity() {
		dim = 3
	}
	return &Posterior{
		model:     model,
		phot:      phot,
		fixedBeta: fixedBeta,
		dim:       dim,
	}
}

// Dim returns the sampled dimensionality (2 or 3).
func (p *Posterior) Dim() int { return p.dim }

// params expands a sampled vector into the full parameter set.
func (p *Posterior) params(theta []float64) mbb.Params {
	beta := p.fixedBeta
	if p.dim == 3 {
		beta = theta[2]
	}
	return mbb.Params{LogAmp: theta[0], Temperature: theta[1], Beta: beta}
}

// LogPrior returns 0 inside the open prior box and -Inf outside it,
// including exactly on the boundaries.
func (p *Posterior) LogPrior(theta []float64) float64 {
	temp := theta[1]
	if !(temp > TemperatureMin && temp < TemperatureMax) {
		return math.Inf(-1)
	}
	if p.dim == 3 {
		beta := theta[2]
		if !(beta > BetaMin && beta < BetaMax) {
			return math.Inf(-1)
		}
	}
	return 0
}

// LogLikelihood returns -0.5·χ² of the model against the photometry.
// A non-finite result, including a model evaluation failure, degrades to
// -Inf so the sampler stays well-defined.
func (p *Posterior) LogLikelihood(theta []float64) float64 {
	flux, err := p.model.Evaluate(p.params(theta), p.phot.Wavelength, 0)
	if err != nil {
		return math.Inf(-1)
	}
	var chi2 float64
	for i, f := range flux {
		r := (p.phot.Flux[i] - f) / p.phot.Err[i]
		chi2 += r * r
	}
	ll := -0.5 * chi2
	if math.IsNaN(ll) {
		return math.Inf(-1)
	}
	return ll
}

// LogProb returns the log-posterior. The likelihood is the expensive
// path, so it is skipped when the prior already rejects.
func (p *Posterior) LogProb(theta []float64) float64 {
	lp := p.LogPrior(theta)
	if math.IsInf(lp, -1) {
		return math.Inf(-1)
	}
	return lp + p.LogLikelihood(theta)
}
