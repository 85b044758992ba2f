package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sedfit/mbbfit/internal/log"
	"github.com/sedfit/mbbfit/internal/mbb"
)

// defaultStateFile is the default model-state file name.
const defaultStateFile = "mbb_state.txt"

// NewCalibrateCmd creates the calibrate command.
func NewCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Calibrate a model state to a target infrared luminosity",
		Long: `Calibrate solves for the model normalization that reproduces a target
8-1000 micron luminosity at the given temperature, emissivity index, and
redshift, and writes the resulting model state to a file.

The state file is the starting point for 'mbbfit fit' and 'mbbfit eval'.

Examples:
  # Calibrate an optically-thick greybody to log10(LIR) = 12.5 at z = 2
  mbbfit calibrate --luminosity 12.5 --redshift 2.0

  # Optically thin variant with a warmer initial temperature
  mbbfit calibrate -L 12.5 -z 2.0 -T 45 --optically-thin

  # Add a mid-infrared power law and choose the output path
  mbbfit calibrate -L 12.5 -z 2.0 --power-law -o states/quasar.txt`,
		Args: cobra.NoArgs,
		RunE: runCalibrateCmd,
	}

	cmd.Flags().Float64P("luminosity", "L", 0,
		"Target log10 luminosity over 8-1000 microns [Lsun] (required)")
	cmd.Flags().Float64P("temperature", "T", 35,
		"Dust temperature [K]")
	cmd.Flags().Float64P("beta", "B", 1.8,
		"Dust emissivity index")
	cmd.Flags().Float64P("redshift", "z", 0,
		"Source redshift (required, must be positive)")
	cmd.Flags().Bool("optically-thin", false,
		"Use the optically thin greybody instead of the general opacity form")
	cmd.Flags().Bool("power-law", false,
		"Attach a mid-infrared power law blueward of the blend wavelength")
	cmd.Flags().StringP("output", "o", defaultStateFile,
		"Output path for the model state file")
	addConfigFlag(cmd)

	if err := cmd.MarkFlagRequired("luminosity"); err != nil {
		panic(err)
	}
	if err := cmd.MarkFlagRequired("redshift"); err != nil {
		panic(err)
	}

	return cmd
}

// runCalibrateCmd executes the calibrate command.
func runCalibrateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	luminosity, err := cmd.Flags().GetFloat64("luminosity")
	if err != nil {
		return err
	}
	temperature, err := cmd.Flags().GetFloat64("temperature")
	if err != nil {
		return err
	}
	beta, err := cmd.Flags().GetFloat64("beta")
	if err != nil {
		return err
	}
	redshift, err := cmd.Flags().GetFloat64("redshift")
	if err != nil {
		return err
	}
	if redshift <= 0 {
		return fmt.Errorf("redshift must be positive, got %g", redshift)
	}

	opticallyThin, err := cmd.Flags().GetBool("optically-thin")
	if err != nil {
		return err
	}
	powerLaw, err := cmd.Flags().GetBool("power-law")
	if err != nil {
		return err
	}
	variant := mbb.VariantFromFlags(opticallyThin, powerLaw)

	statePath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))

	stateCfg, err := newStateConfig(cfg)
	if err != nil {
		return err
	}

	logger.Debug("calibrating model state",
		"variant", variant.String(),
		"log_luminosity", luminosity,
		"temperature", temperature,
		"beta", beta,
		"redshift", redshift,
	)

	state, err := mbb.NewState(stateCfg, luminosity, temperature, beta, redshift, variant)
	if err != nil {
		return fmt.Errorf("calibration failed: %w", err)
	}

	if err := state.Save(statePath); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Calibrated %s model state:\n", variant)
	fmt.Fprintf(out, "  log10(LIR):      %.4f [Lsun]\n", state.LogLuminosity())
	fmt.Fprintf(out, "  log10 amplitude: %.4f\n", state.LogAmplitude())
	fmt.Fprintf(out, "  temperature:     %.2f [K]\n", state.Temperature())
	fmt.Fprintf(out, "  beta:            %.2f\n", state.Beta())
	fmt.Fprintf(out, "  redshift:        %.4f\n", state.Redshift())
	fmt.Fprintf(out, "\nState written to %s\n", statePath)

	return nil
}
