package fit

import (
	"context"
	"math"
	"testing"
)

// gaussianTarget is a separable Gaussian log-density used to test the
// sampler against a known distribution.
type gaussianTarget struct {
	mean  []float64
	sigma []float64
}

func (g *gaussianTarget) Dim() int { return len(g.mean) }

func (g *gaussianTarget) LogProb(theta []float64) float64 {
	var lp float64
	for d := range theta {
		r := (theta[d] - g.mean[d]) / g.sigma[d]
		lp -= 0.5 * r * r
	}
	return lp
}

// rejectAll is a target with zero probability everywhere.
type rejectAll struct{ dim int }

func (r *rejectAll) Dim() int                  { return r.dim }
func (r *rejectAll) LogProb([]float64) float64 { return math.Inf(-1) }

// TestSamplerRecoversGaussian runs the ensemble on a known 2D Gaussian
// and checks the recovered moments.
func TestSamplerRecoversGaussian(t *testing.T) {
	t.Parallel()

	target := &gaussianTarget{mean: []float64{3, -1}, sigma: []float64{0.5, 2}}
	s := NewSampler(Config{
		Walkers:         40,
		BurnSteps:       200,
		ProductionSteps: 500,
		JitterScale:     0.1,
		Workers:         4,
		Seed:            7,
	})

	result, err := s.Run(context.Background(), target, []float64{3, -1})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(result.Chain) != 40*500 {
		t.Fatalf("expected %d chain rows, got %d", 40*500, len(result.Chain))
	}

	summary, err := Summarize(result.Chain)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	for d := range target.mean {
		if diff := math.Abs(summary[d].P50 - target.mean[d]); diff > 0.3*target.sigma[d] {
			t.Errorf("dim %d: median %g far from mean %g", d, summary[d].P50, target.mean[d])
		}
		halfWidth := (summary[d].P84 - summary[d].P16) / 2
		if rel := math.Abs(halfWidth-target.sigma[d]) / target.sigma[d]; rel > 0.25 {
			t.Errorf("dim %d: credible half-width %g far from sigma %g", d, halfWidth, target.sigma[d])
		}
	}
}

// TestSamplerDeterministicSeed verifies that identical seeds give
// identical chains regardless of worker pool size.
func TestSamplerDeterministicSeed(t *testing.T) {
	t.Parallel()

	target := &gaussianTarget{mean: []float64{0, 0}, sigma: []float64{1, 1}}
	run := func(workers int) *Result {
		s := NewSampler(Config{
			Walkers:         20,
			BurnSteps:       50,
			ProductionSteps: 100,
			JitterScale:     0.05,
			Workers:         workers,
			Seed:            42,
		})
		result, err := s.Run(context.Background(), target, []float64{0, 0})
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		return result
	}

	first := run(1)
	second := run(8)

	if len(first.Chain) != len(second.Chain) {
		t.Fatalf("chain lengths differ: %d vs %d", len(first.Chain), len(second.Chain))
	}
	for i := range first.Chain {
		for d := range first.Chain[i] {
			if first.Chain[i][d] != second.Chain[i][d] {
				t.Fatalf("chains diverge at row %d dim %d: %g vs %g",
					i, d, first.Chain[i][d], second.Chain[i][d])
			}
		}
	}
}

// TestSamplerValidation covers configuration and initial-position
// failure modes.
func TestSamplerValidation(t *testing.T) {
	t.Parallel()

	target := &gaussianTarget{mean: []float64{0, 0}, sigma: []float64{1, 1}}

	t.Run("odd walker count rejected", func(t *testing.T) {
		t.Parallel()
		s := NewSampler(Config{Walkers: 21, BurnSteps: 1, ProductionSteps: 1, JitterScale: 0.1, Seed: 1})
		if _, err := s.Run(context.Background(), target, []float64{0, 0}); err == nil {
			t.Error("expected error for odd walker count")
		}
	})

	t.Run("too few walkers rejected", func(t *testing.T) {
		t.Parallel()
		s := NewSampler(Config{Walkers: 2, BurnSteps: 1, ProductionSteps: 1, JitterScale: 0.1, Seed: 1})
		if _, err := s.Run(context.Background(), target, []float64{0, 0}); err == nil {
			t.Error("expected error for too few walkers")
		}
	})

	t.Run("dimension mismatch rejected", func(t *testing.T) {
		t.Parallel()
		s := NewSampler(Config{Walkers: 8, BurnSteps: 1, ProductionSteps: 1, JitterScale: 0.1, Seed: 1})
		if _, err := s.Run(context.Background(), target, []float64{0, 0, 0}); err == nil {
			t.Error("expected error for dimension mismatch")
		}
	})

	t.Run("zero-probability initial position rejected", func(t *testing.T) {
		t.Parallel()
		s := NewSampler(Config{Walkers: 8, BurnSteps: 1, ProductionSteps: 1, JitterScale: 0.1, Seed: 1})
		if _, err := s.Run(context.Background(), &rejectAll{dim: 2}, []float64{0, 0}); err == nil {
			t.Error("expected error when every walker starts at -Inf")
		}
	})

	t.Run("cancelled context aborts the run", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := NewSampler(Config{Walkers: 8, BurnSteps: 5, ProductionSteps: 5, JitterScale: 0.1, Seed: 1})
		if _, err := s.Run(ctx, target, []float64{0, 0}); err == nil {
			t.Error("expected error from cancelled context")
		}
	})
}
