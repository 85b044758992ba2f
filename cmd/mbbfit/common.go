package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sedfit/mbbfit/internal/config"
	"github.com/sedfit/mbbfit/internal/cosmo"
	"github.com/sedfit/mbbfit/internal/mbb"
	"github.com/sedfit/mbbfit/internal/report"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// addConfigFlag registers the shared configuration-file flag.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .mbbfit in current or home directory)")
}

// loadBaseConfig builds a Config from the defaults merged with the
// optional .mbbfit file. Explicit CLI flags are applied by the callers
// afterwards, so flags always win over the file.
//
// If the user explicitly specified a config file path, a missing file is
// an error. If no path was specified, a missing file is silently skipped.
func loadBaseConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	cfg.ConfigFilePath, _ = cmd.Flags().GetString("config") //nolint:errcheck // Flag registered by addConfigFlag
	explicit := cfg.ConfigFilePath != ""

	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if explicit {
			return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return cfg, nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	file.Apply(cfg)
	return cfg, nil
}

// newStateConfig builds the model-state settings from the configuration.
func newStateConfig(cfg *config.Config) (mbb.StateConfig, error) {
	cosmology, err := cosmo.New(cfg.HubbleConstant, cfg.OmegaMatter)
	if err != nil {
		return mbb.StateConfig{}, err
	}
	return mbb.StateConfig{
		Cosmology:       cosmology,
		GridPoints:      cfg.GridPoints,
		Tolerance:       cfg.Tolerance,
		MaxIterations:   cfg.MaxIterations,
		InitialGuess:    cfg.InitialGuess,
		BlendWavelength: cfg.BlendWavelength,
	}, nil
}

// openOutput opens the report destination: the given file (creating
// parent directories), or the fallback writer when path is empty. The
// fallback is the command's out stream so output stays redirectable;
// nil falls back to stdout. The returned cleanup closes the file and is
// a no-op for the fallback.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		if fallback == nil {
			fallback = os.Stdout
		}
		return fallback, func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// newReportWriter selects the report format from the configuration.
func newReportWriter(cfg *config.Config, out io.Writer, verbose bool) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(verbose))
	}
}
