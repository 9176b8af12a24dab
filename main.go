// =============================================================================
// Payout Breakdown - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Payout Breakdown CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   payoutbd process       - Process transaction exports in the input directory
//   payoutbd check         - Run the reconciliation check on a single export
//   payoutbd version       - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//   - profiles/      : Contains export-format YAML profiles
//
// =============================================================================

package main

import (
	"github.com/sellertools/payout-breakdown/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
