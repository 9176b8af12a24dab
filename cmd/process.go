// =============================================================================
// Payout Breakdown - Process Command
// =============================================================================
//
// This file defines the 'process' command, which is the main command for
// reconstructing payout batches from transaction exports.
//
// COMMAND USAGE:
//   payoutbd process [flags]
//
// FLAGS:
//   --dry-run     : Parse and group without writing reports or archiving
//   --file        : Process a single export instead of the input directory
//   --profile     : Force a specific export profile by name
//   --details     : Print the per-payout breakdown rows, not just totals
//
// PROCESSING PIPELINE:
//   1. Load configuration and export profiles
//   2. Discover exports in the input directory (or take --file)
//   3. Match each export to a profile (built-in eBay profile by default)
//   4. For each export (concurrently): parse, group, reconcile, report
//   5. Archive processed exports
//   6. Print the per-payout summary tables
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/sellertools/payout-breakdown/internal/config"
	"github.com/sellertools/payout-breakdown/internal/normalize"
	"github.com/sellertools/payout-breakdown/internal/payout"
	"github.com/sellertools/payout-breakdown/internal/processor"
	"github.com/sellertools/payout-breakdown/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun parses and groups without writing reports or archiving.
var dryRun bool

// singleFile is the path to a specific export to process.
var singleFile string

// profileName forces a specific export profile.
var profileName string

// showDetails prints the per-payout breakdown rows.
var showDetails bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Reconstruct payout batches from transaction exports",
	Long: `The process command scans the input directory for transaction exports,
matches them to an export profile, and reconstructs the grouping of line
items into payout batches.

For every export it prints one summary line per payout (settlement amount,
resolved date, row count) plus the reconciliation status. A breakdown report
is written to the report directory and the export is archived.

Exports are processed concurrently and independently: a malformed export
degrades to an empty or flagged result, it never aborts the run.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the process command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Parse and group without writing reports or archiving",
	)

	processCmd.Flags().StringVar(
		&singleFile,
		"file",
		"",
		"Process a single export instead of the input directory",
	)

	processCmd.Flags().StringVar(
		&profileName,
		"profile",
		"",
		"Force a specific export profile by name",
	)

	processCmd.Flags().BoolVar(
		&showDetails,
		"details",
		false,
		"Print the per-payout breakdown rows, not just totals",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess is the main function that orchestrates the pipeline.
func runProcess() error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println("=== Payout Breakdown ===")

	mainConfig, err := loadMainConfig()
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	setupLogging(mainConfig)

	profiles, err := config.LoadExportProfiles(mainConfig.ProfilesDir)
	if err != nil {
		return fmt.Errorf("failed to load export profiles: %w", err)
	}

	files := utils.NewFileManager(mainConfig.InputDir, mainConfig.ReportDir, mainConfig.ArchiveDir)

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if singleFile != "" {
		if !utils.FileExists(singleFile) {
			return fmt.Errorf("export not found: %s", singleFile)
		}
		inputFiles = []string{singleFile}
	} else {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
		inputFiles, err = files.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Println("No transaction exports found in the input directory.")
		return nil
	}

	fmt.Printf("Found %d export(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================
	// Each file is processed in its own goroutine; a semaphore bounds the
	// number of files in flight. Results are collected over a channel.

	var wg sync.WaitGroup
	results := make(chan processor.Result, len(inputFiles))
	semaphore := make(chan struct{}, mainConfig.MaxConcurrency)

	for _, file := range inputFiles {
		wg.Add(1)

		go func(filePath string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			profile := resolveProfile(filePath, profiles)
			proc := processor.New(filePath, profile, mainConfig, files, dryRun)
			results <- proc.Run()
		}(file)
	}

	// Close the results channel when all goroutines are done.
	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 4: COLLECT RESULTS AND PRINT BREAKDOWNS
	// =========================================================================

	var successCount, errorCount int

	for result := range results {
		if result.Success {
			successCount++
			printResult(result)
		} else {
			errorCount++
			fmt.Printf("\n✗ %s: %v\n", filepath.Base(result.FilePath), result.Error)
		}
	}

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total exports:   %d\n", len(inputFiles))
	fmt.Printf("Successful:      %d\n", successCount)
	fmt.Printf("Errors:          %d\n", errorCount)
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveProfile picks the export profile for a file: the --profile flag
// wins, then file matching patterns, then the built-in default.
func resolveProfile(filePath string, profiles map[string]*config.ExportProfile) *config.ExportProfile {
	if profileName != "" {
		if profile, ok := profiles[profileName]; ok {
			return profile
		}
	}
	return config.FindMatchingProfile(filepath.Base(filePath), profiles)
}

// printResult prints the payout summary table for one processed export.
func printResult(result processor.Result) {
	fmt.Printf("\n✓ %s (payouts: %d, rows: %d", filepath.Base(result.FilePath),
		result.Stats.GroupCount, result.Stats.RowsParsed)
	if result.Stats.ParseErrors > 0 {
		fmt.Printf(", skipped rows: %d", result.Stats.ParseErrors)
	}
	fmt.Println(")")

	if result.ReportFile != "" {
		fmt.Printf("  report: %s\n", result.ReportFile)
	}

	// Payouts, newest first.
	fmt.Printf("  %-22s %-26s %16s %6s\n", "Payout ID", "Date", "Amount", "Rows")
	for _, group := range payout.Sorted(result.Groups) {
		date := group.PayoutDate
		if date == "" {
			date = "—"
		}
		fmt.Printf("  %-22s %-26s %16s %6d\n",
			group.PayoutID,
			date,
			normalize.FormatMoney(group.PayoutAmount, group.Currency),
			group.Summary.RowCount,
		)

		if showDetails {
			printGroupDetails(group)
		}
	}

	// Reconciliation status for the export as a whole.
	if result.Reconciliation.OK {
		fmt.Printf("  reconciliation: OK (payout %s)\n",
			normalize.FormatMoney(result.Reconciliation.PayoutAmount, reconCurrency(result)))
	} else {
		fmt.Println("  reconciliation: FAILED")
		for _, issue := range result.Reconciliation.Issues {
			fmt.Printf("    - %s\n", issue)
		}
	}
}

// printGroupDetails prints the category totals and breakdown rows of one
// payout group.
func printGroupDetails(group *payout.Group) {
	fmt.Printf("      sales: %s, fees: %s, adjustments: %s\n",
		normalize.FormatMoney(group.Summary.SalesTotal, group.Currency),
		normalize.FormatMoney(group.Summary.FeesTotal, group.Currency),
		normalize.FormatMoney(group.Summary.AdjustmentsTotal, group.Currency),
	)

	for _, row := range group.Rows {
		label := row.OrderNumber
		if label == "" {
			label = row.ItemTitle
		}
		if label == "" {
			label = "—"
		}
		fmt.Printf("      %-12s %-10s %-36s %10.2f\n", row.Date, row.Kind, truncate(label, 36), row.NetAmount)
	}
}

// reconCurrency picks a display currency for the reconciliation line: the
// first group's currency, or USD for an empty grouping.
func reconCurrency(result processor.Result) string {
	for _, group := range payout.Sorted(result.Groups) {
		return group.Currency
	}
	return "USD"
}

// truncate shortens a string for table display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
