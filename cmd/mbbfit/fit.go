package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sedfit/mbbfit/internal/chainstore"
	"github.com/sedfit/mbbfit/internal/config"
	"github.com/sedfit/mbbfit/internal/fit"
	"github.com/sedfit/mbbfit/internal/log"
	"github.com/sedfit/mbbfit/internal/mbb"
	"github.com/sedfit/mbbfit/internal/report"
)

// NewFitCmd creates the fit command.
func NewFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit [photometry-file]",
		Short: "Fit a model state to observed photometry",
		Long: `Fit runs the affine-invariant ensemble sampler against observed
photometry, starting from a calibrated model state, and writes the
posterior medians back into the state file.

The photometry file has one observation per line with three
whitespace-separated columns: observed-frame wavelength [micron],
flux density [Jy], and flux uncertainty [Jy]. Lines starting with '#'
and blank lines are ignored. Rows with a negative wavelength, flux, or
uncertainty are skipped.

With three or more points the emissivity index is sampled alongside the
normalization and temperature; with fewer it is held at the state's
value.

Examples:
  # Fit the default state file to photometry
  mbbfit fit photometry.txt

  # Fit a named state and tag the result for the history database
  mbbfit fit --state states/quasar.txt --target quasar photometry.txt

  # Reproducible fit with JSON output written to a file
  mbbfit fit --seed 42 --json -o fit.json photometry.txt

  # Quick look with a smaller ensemble
  mbbfit fit --walkers 60 --steps 500 photometry.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runFitCmd,
	}

	// Model state flags
	cmd.Flags().StringP("state", "s", defaultStateFile,
		"Model state file to fit (updated in place with the posterior medians)")
	cmd.Flags().StringP("target", "n", "",
		"Target name recorded in the history database (default: photometry file name)")

	// Sampler flags
	cmd.Flags().Int("walkers", config.DefaultWalkers,
		"Ensemble size (must be even)")
	cmd.Flags().Int("burn", config.DefaultBurnSteps,
		"Burn-in iterations to discard")
	cmd.Flags().Int("steps", config.DefaultProductionSteps,
		"Production iterations to record")
	cmd.Flags().Int("workers", 0,
		"Posterior-evaluation workers (0 = one per CPU; never affects results)")
	cmd.Flags().Uint64("seed", 0,
		"Random seed (0 = seed from the clock)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-db", false,
		"Skip saving the fit and chain to the history database")
	cmd.Flags().Bool("no-update-state", false,
		"Leave the state file unchanged instead of writing the fitted parameters back")

	addConfigFlag(cmd)

	return cmd
}

// runFitCmd executes the fit command.
func runFitCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildFitConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	photometryPath := args[0]
	statePath, err := cmd.Flags().GetString("state")
	if err != nil {
		return err
	}
	target, err := cmd.Flags().GetString("target")
	if err != nil {
		return err
	}
	if target == "" {
		target = strings.TrimSuffix(filepath.Base(photometryPath), filepath.Ext(photometryPath))
	}
	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return err
	}
	noUpdateState, err := cmd.Flags().GetBool("no-update-state")
	if err != nil {
		return err
	}

	return runFit(ctx, cfg, fitRunArgs{
		photometryPath: photometryPath,
		statePath:      statePath,
		target:         target,
		saveDB:         !noDB,
		updateState:    !noUpdateState,
		verbose:        verbose,
		out:            cmd.OutOrStdout(),
	}, logger)
}

// buildFitConfig merges the config file with the fit command's flags.
func buildFitConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return nil, err
	}

	// Explicit flags win over the config file.
	if cmd.Flags().Changed("walkers") {
		if cfg.Walkers, err = cmd.Flags().GetInt("walkers"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("burn") {
		if cfg.BurnSteps, err = cmd.Flags().GetInt("burn"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("steps") {
		if cfg.ProductionSteps, err = cmd.Flags().GetInt("steps"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("workers") {
		if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		if cfg.Seed, err = cmd.Flags().GetUint64("seed"); err != nil {
			return nil, err
		}
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	// History database lives in the XDG data directory.
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// fitRunArgs collects the per-run settings that are not part of Config.
type fitRunArgs struct {
	photometryPath string
	statePath      string
	target         string
	saveDB         bool
	updateState    bool
	verbose        bool

	// out receives the report when no output file is configured.
	out io.Writer
}

// runFit executes the fit.
func runFit(ctx context.Context, cfg *config.Config, run fitRunArgs, logger *slog.Logger) error {
	stateCfg, err := newStateConfig(cfg)
	if err != nil {
		return err
	}

	state, err := mbb.LoadState(stateCfg, run.statePath)
	if err != nil {
		return fmt.Errorf("failed to load state file %s: %w", run.statePath, err)
	}

	phot, err := parsePhotometryFile(run.photometryPath)
	if err != nil {
		return fmt.Errorf("failed to read photometry %s: %w", run.photometryPath, err)
	}

	logger.Info("starting fit",
		"target", run.target,
		"points", phot.Len(),
		"variant", state.Variant().String(),
		"walkers", cfg.Walkers,
		"steps", cfg.ProductionSteps,
	)

	result, summary, err := fit.Run(ctx, state, phot, fit.Config{
		Walkers:         cfg.Walkers,
		BurnSteps:       cfg.BurnSteps,
		ProductionSteps: cfg.ProductionSteps,
		JitterScale:     cfg.JitterScale,
		Workers:         cfg.Workers,
		Seed:            cfg.Seed,
	}, logger)
	if err != nil {
		return fmt.Errorf("fit failed: %w", err)
	}

	fitReport := report.New(run.target, state, result, summary, phot.Len())

	out, closeOut, err := openOutput(cfg.ReportFile, run.out)
	if err != nil {
		return err
	}
	if _, err := newReportWriter(cfg, out, run.verbose).Write(fitReport); err != nil {
		_ = closeOut() //nolint:errcheck // Write error takes precedence
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("failed to close report output: %w", err)
	}

	if run.updateState {
		if err := state.Save(run.statePath); err != nil {
			return fmt.Errorf("failed to update state file: %w", err)
		}
		logger.Info("state file updated", "path", run.statePath)
	}

	if run.saveDB && cfg.SaveToDB {
		if err := saveFitResult(ctx, cfg.DBDir, run.target, state, result, summary, logger); err != nil {
			// Persistence failures should not discard an otherwise good fit.
			logger.Error("failed to save fit to database", "error", err)
		}
	}

	return nil
}

// saveFitResult stores the fit and its chain in the history database.
func saveFitResult(ctx context.Context, dbDir, target string, state *mbb.State, result *fit.Result, summary []fit.Quantiles, logger *slog.Logger) error {
	db, err := chainstore.Open(dbDir, chainstore.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-only cleanup

	id, err := db.SaveFit(ctx, &chainstore.FitRecord{
		Target:          target,
		Variant:         state.Variant().String(),
		Redshift:        state.Redshift(),
		LogLuminosity:   state.LogLuminosity(),
		LogAmplitude:    state.LogAmplitude(),
		Temperature:     state.Temperature(),
		Beta:            state.Beta(),
		Dim:             result.Dim,
		Walkers:         result.Walkers,
		ProductionSteps: result.ProductionSteps,
		Summary:         summary,
	}, result.Chain, result.FinalPositions, result.FinalLogProbs)
	if err != nil {
		return err
	}

	logger.Info("fit saved to database", "target", target, "fit_id", id, "dir", dbDir)
	return nil
}

// parsePhotometryFile reads whitespace-separated photometry rows:
// wavelength [micron], flux [Jy], uncertainty [Jy]. Comment ('#') and
// blank lines are skipped.
func parsePhotometryFile(path string) (mbb.Photometry, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided photometry path is intentional
	if err != nil {
		return mbb.Photometry{}, err
	}
	defer f.Close() //nolint:errcheck // Read-only file

	var wavelengths, fluxes, errs []float64

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return mbb.Photometry{}, fmt.Errorf("line %d: expected 3 columns (wavelength flux error), got %d", lineNo, len(fields))
		}

		values := make([]float64, 3)
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return mbb.Photometry{}, fmt.Errorf("line %d: invalid number %q: %w", lineNo, field, err)
			}
			values[i] = v
		}
		wavelengths = append(wavelengths, values[0])
		fluxes = append(fluxes, values[1])
		errs = append(errs, values[2])
	}
	if err := scanner.Err(); err != nil {
		return mbb.Photometry{}, err
	}

	return mbb.NewPhotometry(wavelengths, fluxes, errs)
}
