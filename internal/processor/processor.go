// =============================================================================
// Payout Breakdown - File Processor
// =============================================================================
//
// This module orchestrates the processing of a single transaction export,
// from raw file to payout grouping, reconciliation result, and report file.
//
// PROCESSING PIPELINE:
//   1. Read the export (CSV directly, XLSX via the workbook reader)
//   2. Locate the header and parse the record set
//   3. Group records into payout batches
//   4. Run the reconciliation check over the full record set
//   5. Write the breakdown report (unless disabled or dry-running)
//   6. Archive the processed export
//
// CONCURRENCY:
//   Each file is processed in its own goroutine. A Processor holds no shared
//   mutable state, so files can be processed concurrently; every run
//   produces an independent, freshly constructed grouping and result.
//
// =============================================================================

package processor

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/sellertools/payout-breakdown/internal/config"
	"github.com/sellertools/payout-breakdown/internal/csvparser"
	"github.com/sellertools/payout-breakdown/internal/payout"
	"github.com/sellertools/payout-breakdown/internal/reconcile"
	"github.com/sellertools/payout-breakdown/internal/report"
	"github.com/sellertools/payout-breakdown/internal/xlsxreader"
	"github.com/sellertools/payout-breakdown/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single export.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// ReportFile is the path to the generated report.
	// This is empty if reporting is disabled or processing failed.
	ReportFile string

	// Success indicates whether the processing was successful.
	// Parse-level diagnostics do not fail a run; only I/O does.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Groups is the payout grouping keyed by payout identifier.
	Groups map[string]*payout.Group

	// Reconciliation is the whole-export balance check, computed over the
	// full record set independently of Groups.
	Reconciliation reconcile.Result

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsParsed is the number of data rows parsed from the export.
	RowsParsed int

	// ParseErrors is the number of malformed rows skipped during parsing.
	ParseErrors int

	// GroupCount is the number of payout batches reconstructed.
	GroupCount int

	// BreakdownRows is the number of classified rows across all batches.
	BreakdownRows int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// PROCESSOR STRUCTURE
// =============================================================================

// Processor handles the processing of a single transaction export.
type Processor struct {
	filePath   string
	profile    *config.ExportProfile
	mainConfig *config.MainConfig
	files      *utils.FileManager
	dryRun     bool
}

// New creates a new Processor instance.
func New(filePath string, profile *config.ExportProfile, mainConfig *config.MainConfig, files *utils.FileManager, dryRun bool) *Processor {
	return &Processor{
		filePath:   filePath,
		profile:    profile,
		mainConfig: mainConfig,
		files:      files,
		dryRun:     dryRun,
	}
}

// =============================================================================
// PROCESSING
// =============================================================================

// Run executes the pipeline for this processor's file.
func (p *Processor) Run() Result {
	startTime := time.Now()
	result := Result{FilePath: p.filePath}

	// Step 1-2: read and parse the export.
	data, err := Load(p.filePath, p.profile)
	if err != nil {
		result.Error = err
		return result
	}

	// Step 3: reconstruct the payout batches.
	result.Groups = payout.Build(data, p.profile)

	// Step 4: reconcile the full record set.
	result.Reconciliation = reconcile.Check(data, p.profile.Columns)

	result.Stats = ProcessingStats{
		RowsParsed:  data.RowCount,
		ParseErrors: len(data.ParseErrors),
		GroupCount:  len(result.Groups),
	}
	for _, group := range result.Groups {
		result.Stats.BreakdownRows += group.Summary.RowCount
	}

	// Step 5: write the report.
	if p.mainConfig.ReportFormat != "none" && !p.dryRun {
		reportName := utils.GenerateReportFileName(p.mainConfig.ReportNameFormat, p.filePath)
		reportPath := filepath.Join(p.mainConfig.ReportDir, reportName)

		writer := report.NewWriter(p.mainConfig.ReportFormat)
		written, err := writer.Write(reportPath, result.Groups)
		if err != nil {
			result.Error = fmt.Errorf("failed to write report: %w", err)
			return result
		}
		result.ReportFile = written
	}

	// Step 6: archive the processed export.
	if !p.dryRun {
		if _, err := p.files.ArchiveInputFile(p.filePath); err != nil {
			result.Error = fmt.Errorf("failed to archive export: %w", err)
			return result
		}
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	result.Success = true

	slog.Info("processed export",
		"file", filepath.Base(p.filePath),
		"rows", result.Stats.RowsParsed,
		"payouts", result.Stats.GroupCount,
		"parse_errors", result.Stats.ParseErrors,
		"reconciled", result.Reconciliation.OK,
	)

	return result
}

// =============================================================================
// EXPORT LOADING
// =============================================================================

// Load reads a transaction export into a record set, dispatching on the file
// extension: .xlsx goes through the workbook reader, everything else is
// treated as CSV text.
func Load(filePath string, profile *config.ExportProfile) (*csvparser.CSVData, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		return xlsxreader.Parse(filePath, profile.HeaderAnchors)
	}
	return csvparser.Parse(filePath, profile.HeaderAnchors)
}
