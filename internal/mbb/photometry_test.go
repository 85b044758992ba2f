package mbb

import (
	"errors"
	"testing"
)

// TestNewPhotometry covers validation and filtering of the three aligned
// input sequences.
func TestNewPhotometry(t *testing.T) {
	t.Parallel()

	t.Run("valid input passes through", func(t *testing.T) {
		t.Parallel()
		p, err := NewPhotometry(
			[]float64{250, 350, 500},
			[]float64{0.015, 0.012, 0.007},
			[]float64{0.002, 0.002, 0.001},
		)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.Len() != 3 {
			t.Errorf("expected 3 points, got %d", p.Len())
		}
		if !p.FitsEmissivity() {
			t.Error("expected 3 points to fit the emissivity index")
		}
	})

	t.Run("mismatched lengths rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewPhotometry([]float64{250, 350}, []float64{0.01}, []float64{0.001})
		if !errors.Is(err, ErrInvalidPhotometry) {
			t.Errorf("expected ErrInvalidPhotometry, got %v", err)
		}
	})

	t.Run("negative entries filtered as non-detections", func(t *testing.T) {
		t.Parallel()
		p, err := NewPhotometry(
			[]float64{250, -1, 500},
			[]float64{0.015, 0.012, -0.007},
			[]float64{0.002, 0.002, 0.001},
		)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.Len() != 1 {
			t.Errorf("expected 1 surviving point, got %d", p.Len())
		}
		if p.FitsEmissivity() {
			t.Error("expected 1 point not to fit the emissivity index")
		}
	})

	t.Run("zero uncertainty rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewPhotometry([]float64{250}, []float64{0.015}, []float64{0})
		if !errors.Is(err, ErrInvalidPhotometry) {
			t.Errorf("expected ErrInvalidPhotometry, got %v", err)
		}
	})

	t.Run("zero wavelength rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewPhotometry([]float64{0}, []float64{0.015}, []float64{0.002})
		if !errors.Is(err, ErrInvalidPhotometry) {
			t.Errorf("expected ErrInvalidPhotometry, got %v", err)
		}
	})

	t.Run("all points filtered rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewPhotometry([]float64{-250, -350}, []float64{0.01, 0.01}, []float64{0.001, 0.001})
		if !errors.Is(err, ErrInvalidPhotometry) {
			t.Errorf("expected ErrInvalidPhotometry, got %v", err)
		}
	})
}
