package mbb

import (
	"errors"
	"math"
	"testing"
)

// TestCalibrateConvergence sweeps the allowed parameter space and checks
// that integrating the calibrated model recovers the requested log10(L)
// within 1e-3 dex for every variant.
func TestCalibrateConvergence(t *testing.T) {
	t.Parallel()

	it := newTestIntegrator(t, 4000)
	cal, err := NewCalibrator(it)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	variants := []Variant{
		OpticallyThinGreybody,
		GeneralOpacityGreybody,
		OpticallyThinPowerLaw,
		GeneralOpacityPowerLaw,
	}
	temperatures := []float64{15, 35, 80}
	betas := []float64{0.5, 1.8, 4.5}
	redshifts := []float64{0.01, 2.0, 5.0}
	const target = 12.0

	for _, v := range variants {
		t.Run(v.String(), func(t *testing.T) {
			t.Parallel()
			m, err := NewModel(v)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			for _, temp := range temperatures {
				for _, beta := range betas {
					for _, z := range redshifts {
						n, err := cal.Calibrate(m, target, temp, beta, z)
						if err != nil {
							t.Fatalf("T=%g beta=%g z=%g: %v", temp, beta, z, err)
						}
						lum, err := it.Integrate(m, Params{LogAmp: n, Temperature: temp, Beta: beta}, z, CanonicalBand())
						if err != nil {
							t.Fatalf("T=%g beta=%g z=%g: %v", temp, beta, z, err)
						}
						if got := math.Log10(lum); math.Abs(got-target) > 1e-3 {
							t.Errorf("T=%g beta=%g z=%g: recovered log10(L)=%g, want %g within 1e-3 dex",
								temp, beta, z, got, target)
						}
					}
				}
			}
		})
	}
}

// flickerDistancer alternates between two luminosity distances on
// successive calls. The residual then oscillates by several dex between
// secant evaluations, so no normalization can ever satisfy the
// tolerance. Not safe for concurrent use; the calibrator is
// single-threaded by contract.
type flickerDistancer struct {
	calls int
}

func (d *flickerDistancer) LuminosityDistance(_ float64) (float64, error) {
	d.calls++
	if d.calls%2 == 1 {
		return 100, nil
	}
	return 1e5, nil
}

// TestCalibrateIterationCap verifies that a residual the secant cannot
// drive below tolerance fails loudly with ErrCalibrationNonConvergence
// instead of looping forever. Since log10(L) is exactly linear in N, an
// honest integrator converges on the first step no matter how tight the
// tolerance, so the oscillation has to come from the distance side.
func TestCalibrateIterationCap(t *testing.T) {
	t.Parallel()

	it, err := NewIntegrator(&flickerDistancer{}, WithGridPoints(2000))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	cal, err := NewCalibrator(it, WithTolerance(1e-6), WithMaxIterations(25))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	m, err := NewModel(GeneralOpacityGreybody)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := cal.Calibrate(m, 12.0, 35, 1.8, 2.0); !errors.Is(err, ErrCalibrationNonConvergence) {
		t.Errorf("expected ErrCalibrationNonConvergence, got %v", err)
	}
}

// TestNewCalibratorValidation checks constructor parameter validation.
func TestNewCalibratorValidation(t *testing.T) {
	t.Parallel()

	it := newTestIntegrator(t, 2000)

	t.Run("nil integrator rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := NewCalibrator(nil); err == nil {
			t.Error("expected error for nil integrator")
		}
	})

	t.Run("non-positive tolerance rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := NewCalibrator(it, WithTolerance(0)); err == nil {
			t.Error("expected error for zero tolerance")
		}
	})

	t.Run("non-positive iteration cap rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := NewCalibrator(it, WithMaxIterations(0)); err == nil {
			t.Error("expected error for zero iteration cap")
		}
	})
}
