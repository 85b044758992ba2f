// Package main provides the entry point for the mbbfit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for mbbfit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mbbfit",
		Short: "Modified blackbody SED fitting for far-infrared photometry",
		Long: `mbbfit fits modified blackbody (MBB) spectral energy distributions to
far-infrared photometry with an affine-invariant ensemble sampler.

A fit starts from a calibrated model state: use 'mbbfit calibrate' to
build one from a target infrared luminosity, then 'mbbfit fit' to fit it
to observed photometry. Results can be rendered as text, JSON, or
Markdown and are stored in a local SQLite database for later comparison
with 'mbbfit history'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCalibrateCmd())
	cmd.AddCommand(NewFitCmd())
	cmd.AddCommand(NewEvalCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
