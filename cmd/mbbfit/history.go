package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sedfit/mbbfit/internal/chainstore"
	"github.com/sedfit/mbbfit/internal/config"
)

// NewHistoryCmd creates the history command.
// This command lists and inspects fits stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [target]",
		Short: "List and inspect stored fit results",
		Long: `History reads the local fit database and displays past fits.

Every 'mbbfit fit' run stores its fitted parameters, posterior summary,
and full chain (unless --no-db was given). This command lists those
results per target, shows individual fits by ID, and lists the known
targets.

Examples:
  # List all fits for a target
  mbbfit history quasar

  # List every stored fit
  mbbfit history

  # List the targets present in the database
  mbbfit history --list-targets

  # Show one fit as JSON
  mbbfit history --id 5 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-targets", "L", false,
		"List all targets in the database")
	cmd.Flags().Int64P("id", "i", 0,
		"Show a single fit by ID (use the listing to find IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listTargets, err := cmd.Flags().GetBool("list-targets")
	if err != nil {
		return err
	}
	fitID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Fits are stored under the XDG data directory by 'mbbfit fit'.
	db, err := chainstore.Open(config.XDGDataDir(), chainstore.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no fit history found (run 'mbbfit fit' first): %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-only cleanup

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case listTargets:
		return printTargets(ctx, db, out, jsonOutput)
	case fitID != 0:
		return printFit(ctx, db, out, fitID, jsonOutput)
	default:
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return printFitList(ctx, db, out, target, jsonOutput)
	}
}

// printTargets lists the distinct targets in the database.
func printTargets(ctx context.Context, db *chainstore.ChainDB, out io.Writer, jsonOutput bool) error {
	targets, err := db.ListTargets(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(targets)
	}

	if len(targets) == 0 {
		fmt.Fprintln(out, "No targets in the database.")
		return nil
	}
	for _, target := range targets {
		fmt.Fprintln(out, target)
	}
	return nil
}

// printFit shows a single fit by ID.
func printFit(ctx context.Context, db *chainstore.ChainDB, out io.Writer, id int64, jsonOutput bool) error {
	rec, err := db.GetFit(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no fit with ID %d", id)
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rec)
	}

	fmt.Fprintf(out, "Fit %d: %s\n", rec.ID, rec.Target)
	fmt.Fprintf(out, "  date:            %s\n", rec.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  variant:         %s\n", rec.Variant)
	fmt.Fprintf(out, "  redshift:        %.4f\n", rec.Redshift)
	fmt.Fprintf(out, "  log10(LIR):      %.4f [Lsun]\n", rec.LogLuminosity)
	fmt.Fprintf(out, "  temperature:     %.2f [K]\n", rec.Temperature)
	fmt.Fprintf(out, "  beta:            %.2f\n", rec.Beta)
	fmt.Fprintf(out, "  walkers/steps:   %d/%d\n", rec.Walkers, rec.ProductionSteps)
	if len(rec.Summary) > 0 {
		fmt.Fprintf(out, "  posterior (p16/p50/p84):\n")
		names := []string{"log10 A", "T [K]", "beta"}
		for i, q := range rec.Summary {
			name := fmt.Sprintf("param %d", i)
			if i < len(names) {
				name = names[i]
			}
			fmt.Fprintf(out, "    %-8s %.4f / %.4f / %.4f\n", name, q.P16, q.P50, q.P84)
		}
	}
	return nil
}

// printFitList lists fits, optionally filtered by target.
func printFitList(ctx context.Context, db *chainstore.ChainDB, out io.Writer, target string, jsonOutput bool) error {
	fits, err := db.ListFits(ctx, target)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(fits)
	}

	if len(fits) == 0 {
		if target != "" {
			return errors.New("no fits found for target " + target)
		}
		fmt.Fprintln(out, "No fits in the database.")
		return nil
	}

	fmt.Fprintf(out, "%-5s %-20s %-20s %-26s %8s %8s %7s\n",
		"ID", "TARGET", "DATE", "VARIANT", "T [K]", "BETA", "LOG L")
	for _, rec := range fits {
		fmt.Fprintf(out, "%-5d %-20s %-20s %-26s %8.2f %8.2f %7.3f\n",
			rec.ID,
			rec.Target,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.Variant,
			rec.Temperature,
			rec.Beta,
			rec.LogLuminosity,
		)
	}
	return nil
}
