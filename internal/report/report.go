package report

import (
	"time"

	"github.com/sedfit/mbbfit/internal/fit"
	"github.com/sedfit/mbbfit/internal/mbb"
)

// Parameter is one fitted parameter with its posterior percentiles.
type Parameter struct {
	// Name is the parameter's display name.
	Name string `json:"name"`

	// Unit is the parameter's physical unit, empty when dimensionless.
	Unit string `json:"unit,omitempty"`

	// P16, P50, and P84 are the 16th, 50th, and 84th posterior
	// percentiles.
	P16 float64 `json:"p16"`
	P50 float64 `json:"p50"`
	P84 float64 `json:"p84"`

	// Fixed marks a parameter that was held constant during sampling.
	Fixed bool `json:"fixed,omitempty"`
}

// FitReport collects everything a fit run produced: the fitted state,
// the posterior summary, and run metadata.
type FitReport struct {
	// Target is the caller-chosen name of the fitted source.
	Target string `json:"target"`

	// GeneratedAt is when the report was created.
	GeneratedAt time.Time `json:"generated_at"`

	// Variant names the spectral model variant.
	Variant string `json:"variant"`

	// Redshift is the source redshift.
	Redshift float64 `json:"redshift"`

	// LogLuminosity is log10 of the fitted infrared luminosity in
	// solar luminosities.
	LogLuminosity float64 `json:"log_luminosity"`

	// LogAmplitude, Temperature, and Beta are the fitted (median)
	// model parameters.
	LogAmplitude float64 `json:"log_amplitude"`
	Temperature  float64 `json:"temperature"`
	Beta         float64 `json:"beta"`

	// Points is the number of photometric points used.
	Points int `json:"points"`

	// Dim is the sampled dimensionality (2 when β was held fixed).
	Dim int `json:"dim"`

	// Walkers and ProductionSteps record the sampler scale.
	Walkers         int `json:"walkers"`
	ProductionSteps int `json:"production_steps"`

	// Parameters holds the per-parameter posterior percentiles in
	// sampling order.
	Parameters []Parameter `json:"parameters"`
}

// New builds a FitReport from a fitted state, the sampler result, and
// the posterior summary.
func New(target string, state *mbb.State, result *fit.Result, summary []fit.Quantiles, points int) *FitReport {
	r := &FitReport{
		Target:          target,
		GeneratedAt:     time.Now(),
		Variant:         state.Variant().String(),
		Redshift:        state.Redshift(),
		LogLuminosity:   state.LogLuminosity(),
		LogAmplitude:    state.LogAmplitude(),
		Temperature:     state.Temperature(),
		Beta:            state.Beta(),
		Points:          points,
		Dim:             result.Dim,
		Walkers:         result.Walkers,
		ProductionSteps: result.ProductionSteps,
	}

	r.Parameters = append(r.Parameters,
		Parameter{Name: "log10 A", Unit: "dex", P16: summary[0].P16, P50: summary[0].P50, P84: summary[0].P84},
		Parameter{Name: "T", Unit: "K", P16: summary[1].P16, P50: summary[1].P50, P84: summary[1].P84},
	)
	if result.Dim >= 3 {
		r.Parameters = append(r.Parameters,
			Parameter{Name: "beta", P16: summary[2].P16, P50: summary[2].P50, P84: summary[2].P84})
	} else {
		r.Parameters = append(r.Parameters,
			Parameter{Name: "beta", P16: state.Beta(), P50: state.Beta(), P84: state.Beta(), Fixed: true})
	}
	return r
}

// BetaFixed reports whether β was held constant during sampling.
func (r *FitReport) BetaFixed() bool {
	return r.Dim < 3
}
