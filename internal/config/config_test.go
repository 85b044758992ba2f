package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values. This serves as living documentation of the defaults:
// tests will fail if defaults change unexpectedly.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Walkers is 180", func(t *testing.T) {
		t.Parallel()
		if cfg.Walkers != 180 {
			t.Errorf("expected Walkers to be 180, got %d", cfg.Walkers)
		}
	})

	t.Run("default BurnSteps is 300", func(t *testing.T) {
		t.Parallel()
		if cfg.BurnSteps != 300 {
			t.Errorf("expected BurnSteps to be 300, got %d", cfg.BurnSteps)
		}
	})

	t.Run("default ProductionSteps is 2000", func(t *testing.T) {
		t.Parallel()
		if cfg.ProductionSteps != 2000 {
			t.Errorf("expected ProductionSteps to be 2000, got %d", cfg.ProductionSteps)
		}
	})

	t.Run("default Tolerance is 1e-4", func(t *testing.T) {
		t.Parallel()
		if cfg.Tolerance != 1e-4 {
			t.Errorf("expected Tolerance to be 1e-4, got %g", cfg.Tolerance)
		}
	})

	t.Run("default MaxIterations is 10000", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxIterations != 10000 {
			t.Errorf("expected MaxIterations to be 10000, got %d", cfg.MaxIterations)
		}
	})

	t.Run("default GridPoints is 20000", func(t *testing.T) {
		t.Parallel()
		if cfg.GridPoints != 20000 {
			t.Errorf("expected GridPoints to be 20000, got %d", cfg.GridPoints)
		}
	})

	t.Run("default band is 8-1000 microns", func(t *testing.T) {
		t.Parallel()
		if cfg.BandLow != 8 || cfg.BandHigh != 1000 {
			t.Errorf("expected band 8-1000, got %g-%g", cfg.BandLow, cfg.BandHigh)
		}
	})

	t.Run("default BlendWavelength is 50 microns", func(t *testing.T) {
		t.Parallel()
		if cfg.BlendWavelength != 50 {
			t.Errorf("expected BlendWavelength to be 50, got %g", cfg.BlendWavelength)
		}
	})

	t.Run("default cosmology is H0=70 Om=0.3", func(t *testing.T) {
		t.Parallel()
		if cfg.HubbleConstant != 70 || cfg.OmegaMatter != 0.3 {
			t.Errorf("expected H0=70 Om=0.3, got H0=%g Om=%g", cfg.HubbleConstant, cfg.OmegaMatter)
		}
	})

	t.Run("defaults pass validation", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected default config to validate, got %v", err)
		}
	})
}

// TestValidate exercises each validation failure mode.
func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"odd walkers", func(c *Config) { c.Walkers = 181 }, ErrInvalidWalkers},
		{"zero walkers", func(c *Config) { c.Walkers = 0 }, ErrInvalidWalkers},
		{"negative burn", func(c *Config) { c.BurnSteps = -1 }, ErrInvalidSteps},
		{"zero production", func(c *Config) { c.ProductionSteps = 0 }, ErrInvalidSteps},
		{"zero jitter", func(c *Config) { c.JitterScale = 0 }, ErrInvalidJitterScale},
		{"zero tolerance", func(c *Config) { c.Tolerance = 0 }, ErrInvalidCalibration},
		{"zero max iterations", func(c *Config) { c.MaxIterations = 0 }, ErrInvalidCalibration},
		{"single grid point", func(c *Config) { c.GridPoints = 1 }, ErrInvalidGridPoints},
		{"inverted band", func(c *Config) { c.BandLow, c.BandHigh = 1000, 8 }, ErrInvalidBand},
		{"zero band low", func(c *Config) { c.BandLow = 0 }, ErrInvalidBand},
		{"zero blend", func(c *Config) { c.BlendWavelength = 0 }, ErrInvalidBlendWavelength},
		{"negative H0", func(c *Config) { c.HubbleConstant = -70 }, ErrInvalidCosmology},
		{"omega above one", func(c *Config) { c.OmegaMatter = 1.5 }, ErrInvalidCosmology},
		{"both report formats", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

// TestLoadConfigFile covers the YAML loader.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed YAML returns an error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sampler: [not a map"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})

	t.Run("sections load and apply over defaults", func(t *testing.T) {
		t.Parallel()
		content := `sampler:
  walkers: 64
  production_steps: 500
  seed: 42
calibration:
  tolerance: 1.0e-5
band:
  low_um: 40
  high_um: 120.7
cosmology:
  hubble_constant: 67.4
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.Walkers != 64 {
			t.Errorf("expected Walkers 64, got %d", cfg.Walkers)
		}
		if cfg.ProductionSteps != 500 {
			t.Errorf("expected ProductionSteps 500, got %d", cfg.ProductionSteps)
		}
		if cfg.Seed != 42 {
			t.Errorf("expected Seed 42, got %d", cfg.Seed)
		}
		if cfg.Tolerance != 1e-5 {
			t.Errorf("expected Tolerance 1e-5, got %g", cfg.Tolerance)
		}
		if cfg.BandLow != 40 || cfg.BandHigh != 120.7 {
			t.Errorf("expected band 40-120.7, got %g-%g", cfg.BandLow, cfg.BandHigh)
		}
		if cfg.HubbleConstant != 67.4 {
			t.Errorf("expected H0 67.4, got %g", cfg.HubbleConstant)
		}

		// Unset fields keep their defaults.
		if cfg.BurnSteps != DefaultBurnSteps {
			t.Errorf("expected default BurnSteps, got %d", cfg.BurnSteps)
		}
		if cfg.OmegaMatter != DefaultOmegaMatter {
			t.Errorf("expected default OmegaMatter, got %g", cfg.OmegaMatter)
		}
	})

	t.Run("nil file applies nothing", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		var cf *File
		cf.Apply(cfg)
		if cfg.Walkers != DefaultWalkers {
			t.Errorf("expected default Walkers, got %d", cfg.Walkers)
		}
	})
}

// TestFindConfigFile checks explicit-path resolution.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path is returned", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}
