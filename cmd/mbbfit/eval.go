package main

import (
	"bufio"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/sedfit/mbbfit/internal/mbb"
)

// NewEvalCmd creates the eval command.
func NewEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a model state's spectrum on a wavelength grid",
		Long: `Eval prints the model state's flux density on a logarithmic wavelength
grid as tab-separated values: wavelength [micron] and flux density [Jy].

By default the spectrum is evaluated in the rest frame. With --obs-frame
the grid is interpreted as observed-frame wavelengths at the state's
redshift.

Examples:
  # Rest-frame spectrum over the default 8-1000 micron grid
  mbbfit eval --state states/quasar.txt

  # Observed-frame spectrum over the SPIRE bands
  mbbfit eval -s states/quasar.txt --obs-frame --low 200 --high 700

  # Dense grid written to a file
  mbbfit eval --points 2000 -o spectrum.tsv`,
		Args: cobra.NoArgs,
		RunE: runEvalCmd,
	}

	cmd.Flags().StringP("state", "s", defaultStateFile,
		"Model state file to evaluate")
	cmd.Flags().Float64("low", 8,
		"Grid lower bound [micron]")
	cmd.Flags().Float64("high", 1000,
		"Grid upper bound [micron]")
	cmd.Flags().Int("points", 200,
		"Number of grid points (log-spaced)")
	cmd.Flags().Bool("obs-frame", false,
		"Interpret the grid as observed-frame wavelengths at the state's redshift")
	cmd.Flags().StringP("output", "o", "",
		"Write the spectrum to specified file path instead of stdout")
	addConfigFlag(cmd)

	return cmd
}

// runEvalCmd executes the eval command.
func runEvalCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	statePath, err := cmd.Flags().GetString("state")
	if err != nil {
		return err
	}
	low, err := cmd.Flags().GetFloat64("low")
	if err != nil {
		return err
	}
	high, err := cmd.Flags().GetFloat64("high")
	if err != nil {
		return err
	}
	points, err := cmd.Flags().GetInt("points")
	if err != nil {
		return err
	}
	obsFrame, err := cmd.Flags().GetBool("obs-frame")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if low <= 0 || high <= low {
		return fmt.Errorf("invalid grid: low must be positive and less than high (got %g-%g)", low, high)
	}
	if points < 2 {
		return fmt.Errorf("grid needs at least 2 points, got %d", points)
	}

	stateCfg, err := newStateConfig(cfg)
	if err != nil {
		return err
	}
	state, err := mbb.LoadState(stateCfg, statePath)
	if err != nil {
		return fmt.Errorf("failed to load state file %s: %w", statePath, err)
	}

	wavelengths := logGrid(low, high, points)

	z := 0.0
	frame := "rest"
	if obsFrame {
		z = state.Redshift()
		frame = "observed"
	}

	flux, err := state.Evaluate(wavelengths, z)
	if err != nil {
		return fmt.Errorf("model evaluation failed: %w", err)
	}

	out, closeOut, err := openOutput(outputPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "# %s-frame spectrum: %s (z=%.4f)\n", frame, state.Variant(), state.Redshift())
	fmt.Fprintf(w, "# wavelength_um\tflux_jy\n")
	for i, wl := range wavelengths {
		fmt.Fprintf(w, "%.6g\t%.6e\n", wl, flux[i])
	}
	if err := w.Flush(); err != nil {
		_ = closeOut() //nolint:errcheck // Flush error takes precedence
		return fmt.Errorf("failed to write spectrum: %w", err)
	}
	return closeOut()
}

// logGrid returns n log-spaced points over [low, high] inclusive.
func logGrid(low, high float64, n int) []float64 {
	grid := make([]float64, n)
	logLow := math.Log10(low)
	step := (math.Log10(high) - logLow) / float64(n-1)
	for i := range grid {
		grid[i] = math.Pow(10, logLow+float64(i)*step)
	}
	// Pin both endpoints exactly despite rounding.
	grid[0] = low
	grid[n-1] = high
	return grid
}
