package fit

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/sedfit/mbbfit/internal/mbb"
)

// DefaultPredictiveSamples is the default number of chain draws used to
// build a posterior-predictive flux band.
const DefaultPredictiveSamples = 200

// Quantiles is a 16th/50th/84th percentile triple; the 16–84 range
// approximates a 1σ credible interval.
type Quantiles struct {
	P16 float64
	P50 float64
	P84 float64
}

// Summarize reduces a flattened chain to per-dimension percentile
// triples. The 50th percentile is the point estimate written back into
// the model state after a fit.
func Summarize(chain [][]float64) ([]Quantiles, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("fit: cannot summarize an empty chain")
	}
	dim := len(chain[0])
	summary := make([]Quantiles, dim)
	col := make([]float64, len(chain))
	for d := 0; d < dim; d++ {
		for i, row := range chain {
			col[i] = row[d]
		}
		sort.Float64s(col)
		summary[d] = Quantiles{
			P16: stat.Quantile(0.16, stat.Empirical, col, nil),
			P50: stat.Quantile(0.50, stat.Empirical, col, nil),
			P84: stat.Quantile(0.84, stat.Empirical, col, nil),
		}
	}
	return summary, nil
}

// PredictiveBand is a posterior-predictive flux band: per-wavelength
// 16th/50th/84th percentile curves across chain draws.
type PredictiveBand struct {
	// Median is the 50th percentile flux at each wavelength [Jy].
	Median []float64

	// Lower is the 16th percentile flux at each wavelength [Jy].
	Lower []float64

	// Upper is the 84th percentile flux at each wavelength [Jy].
	Upper []float64
}

// Predictive draws sampleCount rows uniformly at random (with
// replacement) from the chain, evaluates the model at the rest-frame
// wavelengths [µm] for each draw, and reduces the curves to a
// percentile band. fixedBeta fills the emissivity index for
// two-dimensional chains. sampleCount 0 means DefaultPredictiveSamples.
//
// Unlike likelihood evaluation inside the sampler, a model failure here
// is surfaced: the chain rows already passed the prior, so a non-finite
// flux indicates a numerical edge case worth reporting.
func Predictive(m *mbb.Model, chain [][]float64, fixedBeta float64, wavelengths []float64, sampleCount int, seed uint64) (*PredictiveBand, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("fit: cannot draw from an empty chain")
	}
	if sampleCount <= 0 {
		sampleCount = DefaultPredictiveSamples
	}

	rng := rand.New(rand.NewSource(seed))
	dim := len(chain[0])

	curves := make([][]float64, sampleCount)
	for i := range curves {
		row := chain[rng.Intn(len(chain))]
		beta := fixedBeta
		if dim >= 3 {
			beta = row[2]
		}
		p := mbb.Params{LogAmp: row[0], Temperature: row[1], Beta: beta}
		flux, err := m.Evaluate(p, wavelengths, 0)
		if err != nil {
			return nil, err
		}
		curves[i] = flux
	}

	band := &PredictiveBand{
		Median: make([]float64, len(wavelengths)),
		Lower:  make([]float64, len(wavelengths)),
		Upper:  make([]float64, len(wavelengths)),
	}
	col := make([]float64, sampleCount)
	for j := range wavelengths {
		for i := range curves {
			col[i] = curves[i][j]
		}
		sort.Float64s(col)
		band.Lower[j] = stat.Quantile(0.16, stat.Empirical, col, nil)
		band.Median[j] = stat.Quantile(0.50, stat.Empirical, col, nil)
		band.Upper[j] = stat.Quantile(0.84, stat.Empirical, col, nil)
	}
	return band, nil
}
