package fit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sedfit/mbbfit/internal/mbb"
)

// Run fits the model state to the photometry: it builds the posterior,
// runs the ensemble sampler from the state's current parameters, and
// writes the posterior medians back into the state (which re-derives the
// luminosity, restoring the state invariant).
//
// The returned summary is ordered like the sampled vector: N, T, and β
// when the photometry has at least three points. On any error the state
// is left unchanged and no partial results are returned.
func Run(ctx context.Context, state *mbb.State, phot mbb.Photometry, cfg Config, logger *slog.Logger) (*Result, []Quantiles, error) {
	if logger == nil {
		logger = slog.Default()
	}

	post := NewPosterior(state.Model(), phot, state.Beta())

	initial := []float64{state.LogAmplitude(), state.Temperature()}
	if post.Dim() == 3 {
		initial = append(initial, state.Beta())
	} else {
		logger.Warn("fewer than 3 photometric points; emissivity index held fixed",
			"points", phot.Len(),
			"beta", state.Beta(),
		)
	}

	sampler := NewSampler(cfg, WithLogger(logger))
	result, err := sampler.Run(ctx, post, initial)
	if err != nil {
		return nil, nil, err
	}

	summary, err := Summarize(result.Chain)
	if err != nil {
		return nil, nil, err
	}

	beta := state.Beta()
	if post.Dim() == 3 {
		beta = summary[2].P50
	}
	if err := state.Update(summary[0].P50, summary[1].P50, beta); err != nil {
		return nil, nil, fmt.Errorf("fit: applying posterior medians: %w", err)
	}

	logger.Info("fit complete",
		"temperature", state.Temperature(),
		"beta", state.Beta(),
		"log_luminosity", state.LogLuminosity(),
	)
	return result, summary, nil
}
