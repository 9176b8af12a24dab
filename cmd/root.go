// =============================================================================
// Payout Breakdown - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'process', 'check') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (payoutbd)
//   ├── processCmd (payoutbd process)
//   ├── checkCmd   (payoutbd check)
//   └── versionCmd (payoutbd version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration system
//   3. Setting up diagnostic logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sellertools/payout-breakdown/internal/config"
	"github.com/sellertools/payout-breakdown/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "payoutbd",

	Short: "Payout Breakdown - Reconstruct payout batches from marketplace transaction exports",

	Long: `Payout Breakdown is a CLI tool that ingests marketplace transaction exports
(the eBay transaction report feeding Payoneer payouts) and reconstructs the
implicit grouping of line items into payout batches.

For each payout it reports the settlement amount, the resolved payout date,
and a breakdown of the constituent rows into sales, fees, and adjustments,
plus a reconciliation check that the batch balances to zero.

All processing is local; exports are never transmitted anywhere.

Example Usage:
  payoutbd process                      # Process all exports in the input directory
  payoutbd process --file export.csv    # Process a single export
  payoutbd check export.csv             # Reconciliation check on one export`,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Execute the root command. If there's an error, print it and exit.
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED SETUP HELPERS
// =============================================================================

// loadMainConfig loads the main configuration. A missing default config file
// is not an error: the tool works out of the box with built-in defaults. An
// explicitly specified file that cannot be read is an error.
func loadMainConfig() (*config.MainConfig, error) {
	if !utils.FileExists(cfgFile) {
		if cfgFile != "config.yaml" {
			return nil, fmt.Errorf("config file not found: %s", cfgFile)
		}
		cfg := &config.MainConfig{}
		config.ApplyMainConfigDefaults(cfg)
		return cfg, nil
	}

	return config.LoadMainConfig(cfgFile)
}

// setupLogging configures the default slog logger. The --verbose flag takes
// precedence over the configured log level.
func setupLogging(cfg *config.MainConfig) {
	level := parseLogLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// parseLogLevel maps the configured level name onto a slog level.
func parseLogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
