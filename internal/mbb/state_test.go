package mbb

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fastStateConfig returns a StateConfig with a reduced integration grid
// so state construction stays fast in tests.
func fastStateConfig() StateConfig {
	return StateConfig{GridPoints: 4000}
}

// TestNewState verifies that construction calibrates the normalization
// and establishes the luminosity invariant.
func TestNewState(t *testing.T) {
	t.Parallel()

	s, err := NewState(fastStateConfig(), 12.0, 35, 1.8, 2.0, GeneralOpacityGreybody)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if math.Abs(s.LogLuminosity()-12.0) > 1e-3 {
		t.Errorf("expected log10(L) ~ 12.0, got %g", s.LogLuminosity())
	}
	if s.Temperature() != 35 || s.Beta() != 1.8 || s.Redshift() != 2.0 {
		t.Errorf("unexpected parameters: T=%g beta=%g z=%g", s.Temperature(), s.Beta(), s.Redshift())
	}
	if s.Variant() != GeneralOpacityGreybody {
		t.Errorf("unexpected variant %v", s.Variant())
	}

	// The invariant ties LogLuminosity to the integrator output.
	lum, err := s.Luminosity(CanonicalBand())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if math.Abs(math.Log10(lum)-s.LogLuminosity()) > 1e-9 {
		t.Errorf("luminosity invariant broken: stored %g, integrated %g", s.LogLuminosity(), math.Log10(lum))
	}
}

// TestStateUpdate verifies that Update replaces the parameters and
// restores the luminosity invariant.
func TestStateUpdate(t *testing.T) {
	t.Parallel()

	s, err := NewState(fastStateConfig(), 12.0, 35, 1.8, 2.0, OpticallyThinGreybody)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if err := s.Update(s.LogAmplitude()+0.5, 42, 2.1); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if s.Temperature() != 42 || s.Beta() != 2.1 {
		t.Errorf("expected updated T=42 beta=2.1, got T=%g beta=%g", s.Temperature(), s.Beta())
	}
	lum, err := s.Luminosity(CanonicalBand())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if math.Abs(math.Log10(lum)-s.LogLuminosity()) > 1e-9 {
		t.Errorf("luminosity invariant broken after Update: stored %g, integrated %g",
			s.LogLuminosity(), math.Log10(lum))
	}
}

// TestStateUpdateLuminosity verifies re-calibration against a new target.
func TestStateUpdateLuminosity(t *testing.T) {
	t.Parallel()

	s, err := NewState(fastStateConfig(), 12.0, 35, 1.8, 2.0, OpticallyThinGreybody)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := s.UpdateLuminosity(12.5, 45, 2.0); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if math.Abs(s.LogLuminosity()-12.5) > 1e-3 {
		t.Errorf("expected log10(L) ~ 12.5 after re-calibration, got %g", s.LogLuminosity())
	}
	if s.Temperature() != 45 || s.Beta() != 2.0 {
		t.Errorf("expected updated T=45 beta=2.0, got T=%g beta=%g", s.Temperature(), s.Beta())
	}
}

// TestStateSaveLoad covers the persisted scalar state round trip: the
// reloaded state must reproduce (T, beta, z, variant flags) exactly and
// the luminosity within 1e-3 dex.
func TestStateSaveLoad(t *testing.T) {
	t.Parallel()

	for _, v := range []Variant{GeneralOpacityGreybody, OpticallyThinPowerLaw} {
		t.Run(v.String(), func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			path := filepath.Join(dir, "state.txt")

			s, err := NewState(fastStateConfig(), 12.0, 35, 1.8, 2.0, v)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if err := s.Save(path); err != nil {
				t.Fatalf("unexpected error %v", err)
			}

			loaded, err := LoadState(fastStateConfig(), path)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if loaded.Temperature() != 35 || loaded.Beta() != 1.8 || loaded.Redshift() != 2.0 {
				t.Errorf("parameters not preserved: T=%g beta=%g z=%g",
					loaded.Temperature(), loaded.Beta(), loaded.Redshift())
			}
			if loaded.Variant() != v {
				t.Errorf("variant not preserved: expected %v, got %v", v, loaded.Variant())
			}
			if diff := math.Abs(loaded.LogLuminosity() - s.LogLuminosity()); diff > 1e-3 {
				t.Errorf("luminosity not preserved: %g vs %g (diff %g dex)",
					loaded.LogLuminosity(), s.LogLuminosity(), diff)
			}
		})
	}
}

// TestStateFileFormat pins the on-disk format: header comment naming the
// six fields and one tab-separated record with "True"/"False" flags.
func TestStateFileFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "state.txt")

	s, err := NewState(fastStateConfig(), 12.0, 35, 1.8, 2.0, OpticallyThinPowerLaw)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	lines := strings.Split(string(data), "\n")
	if lines[0] != "# L    T    beta    z    opthin    pl" {
		t.Errorf("unexpected header %q", lines[0])
	}
	fields := strings.Split(strings.TrimRight(lines[1], "\t"), "\t")
	if len(fields) != 6 {
		t.Fatalf("expected 6 fields, got %d: %q", len(fields), lines[1])
	}
	if fields[1] != "35.0000" || fields[2] != "1.8000" || fields[3] != "2.0000" {
		t.Errorf("numeric fields not rounded to 4 decimals: %v", fields)
	}
	if fields[4] != "True" || fields[5] != "True" {
		t.Errorf("expected True/True variant flags, got %q/%q", fields[4], fields[5])
	}
}

// TestLoadStateErrors covers malformed state files.
func TestLoadStateErrors(t *testing.T) {
	t.Parallel()

	writeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "state.txt")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		return path
	}

	t.Run("missing record line", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadState(fastStateConfig(), writeFile(t, "# header only")); err == nil {
			t.Error("expected error for missing record")
		}
	})

	t.Run("too few fields", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadState(fastStateConfig(), writeFile(t, "# h\n12.0\t35.0\n")); err == nil {
			t.Error("expected error for short record")
		}
	})

	t.Run("bad boolean", func(t *testing.T) {
		t.Parallel()
		content := "# h\n12.0\t35.0\t1.8\t2.0\tmaybe\tFalse\t\n"
		if _, err := LoadState(fastStateConfig(), writeFile(t, content)); err == nil {
			t.Error("expected error for bad boolean field")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadState(fastStateConfig(), filepath.Join(t.TempDir(), "absent.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
