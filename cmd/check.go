// =============================================================================
// Payout Breakdown - Check Command
// =============================================================================
//
// This file defines the 'check' command, which runs the reconciliation check
// over a single transaction export: does the payout marker row balance
// against the sum of all other rows?
//
// COMMAND USAGE:
//   payoutbd check <export-file>
//
// OUTPUT:
//   Reconciliation: OK
//   Payout amount:  USD $97.50
//   Balance:        0.00
//
// On failure, every violated condition is listed and the command exits with
// a non-zero status, so the check can gate automated bookkeeping.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sellertools/payout-breakdown/internal/config"
	"github.com/sellertools/payout-breakdown/internal/processor"
	"github.com/sellertools/payout-breakdown/internal/reconcile"
)

// =============================================================================
// CHECK COMMAND DEFINITION
// =============================================================================

// checkCmd represents the 'check' command.
var checkCmd = &cobra.Command{
	Use:   "check <export-file>",
	Short: "Run the reconciliation check on a single export",
	Long: `The check command verifies that a transaction export balances: the payout
marker row's declared transfer amount should cancel against the signed sum of
every other row, exactly one marker row should be present, and all rows
should share one payout currency.

Anomalies are reported as diagnostics, all of them, not just the first. The
command exits non-zero when reconciliation fails.`,

	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(args[0])
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the check command with the root command.
func init() {
	rootCmd.AddCommand(checkCmd)
}

// =============================================================================
// CHECK FUNCTION
// =============================================================================

// runCheck reconciles a single export and prints the result.
func runCheck(filePath string) error {
	mainConfig, err := loadMainConfig()
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	setupLogging(mainConfig)

	profiles, err := config.LoadExportProfiles(mainConfig.ProfilesDir)
	if err != nil {
		return fmt.Errorf("failed to load export profiles: %w", err)
	}
	profile := config.FindMatchingProfile(filepath.Base(filePath), profiles)

	data, err := processor.Load(filePath, profile)
	if err != nil {
		return err
	}

	result := reconcile.Check(data, profile.Columns)
	printCheckResult(result)

	if !result.OK {
		return fmt.Errorf("reconciliation failed for %s", filepath.Base(filePath))
	}
	return nil
}

// printCheckResult renders a reconciliation result for the terminal.
func printCheckResult(result reconcile.Result) {
	if result.OK {
		fmt.Println("Reconciliation: OK")
	} else {
		fmt.Println("Reconciliation: FAILED")
	}
	fmt.Printf("Payout amount:  %.2f\n", result.PayoutAmount)
	fmt.Printf("Balance:        %.2f\n", result.Balance)

	for _, issue := range result.Issues {
		fmt.Printf("  - %s\n", issue)
	}
}
