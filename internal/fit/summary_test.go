package fit

import (
	"math"
	"testing"

	"github.com/sedfit/mbbfit/internal/mbb"
)

// TestSummarize checks percentiles on a chain with known order
// statistics.
func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("empty chain rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := Summarize(nil); err == nil {
			t.Error("expected error for empty chain")
		}
	})

	t.Run("uniform grid percentiles", func(t *testing.T) {
		t.Parallel()
		// 1..100 in the first dimension, 2..200 in the second.
		chain := make([][]float64, 100)
		for i := range chain {
			chain[i] = []float64{float64(i + 1), 2 * float64(i+1)}
		}
		summary, err := Summarize(chain)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if len(summary) != 2 {
			t.Fatalf("expected 2 dimensions, got %d", len(summary))
		}
		if math.Abs(summary[0].P50-50) > 1 {
			t.Errorf("expected median ~50, got %g", summary[0].P50)
		}
		if math.Abs(summary[0].P16-16) > 1 {
			t.Errorf("expected p16 ~16, got %g", summary[0].P16)
		}
		if math.Abs(summary[0].P84-84) > 1 {
			t.Errorf("expected p84 ~84, got %g", summary[0].P84)
		}
		if math.Abs(summary[1].P50-100) > 2 {
			t.Errorf("expected second-dimension median ~100, got %g", summary[1].P50)
		}
	})

	t.Run("ordering holds", func(t *testing.T) {
		t.Parallel()
		chain := [][]float64{{3}, {1}, {4}, {1}, {5}, {9}, {2}, {6}}
		summary, err := Summarize(chain)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		q := summary[0]
		if !(q.P16 <= q.P50 && q.P50 <= q.P84) {
			t.Errorf("percentiles out of order: %+v", q)
		}
	})
}

// TestPredictive checks the posterior-predictive band construction.
func TestPredictive(t *testing.T) {
	t.Parallel()

	m, err := mbb.NewModel(mbb.GeneralOpacityGreybody)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	// A tight synthetic chain around one parameter set.
	chain := make([][]float64, 50)
	for i := range chain {
		chain[i] = []float64{2 + 0.001*float64(i%5), 35 + 0.01*float64(i%7), 1.8}
	}
	wavelengths := []float64{100, 250, 500}

	t.Run("band brackets the median", func(t *testing.T) {
		t.Parallel()
		band, err := Predictive(m, chain, 1.8, wavelengths, 100, 3)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		for j := range wavelengths {
			if !(band.Lower[j] <= band.Median[j] && band.Median[j] <= band.Upper[j]) {
				t.Errorf("wavelength %g: band out of order: %g %g %g",
					wavelengths[j], band.Lower[j], band.Median[j], band.Upper[j])
			}
			if band.Median[j] <= 0 {
				t.Errorf("wavelength %g: expected positive median flux, got %g", wavelengths[j], band.Median[j])
			}
		}
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		t.Parallel()
		first, err := Predictive(m, chain, 1.8, wavelengths, 64, 11)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		second, err := Predictive(m, chain, 1.8, wavelengths, 64, 11)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		for j := range wavelengths {
			if first.Median[j] != second.Median[j] {
				t.Errorf("wavelength %g: medians differ: %g vs %g",
					wavelengths[j], first.Median[j], second.Median[j])
			}
		}
	})

	t.Run("two-dimensional chain uses the fixed beta", func(t *testing.T) {
		t.Parallel()
		short := [][]float64{{2, 35}, {2.001, 35.1}}
		if _, err := Predictive(m, short, 1.8, wavelengths, 10, 5); err != nil {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("empty chain rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := Predictive(m, nil, 1.8, wavelengths, 10, 5); err == nil {
			t.Error("expected error for empty chain")
		}
	})
}
