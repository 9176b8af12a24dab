// =============================================================================
// Payout Breakdown - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing all configuration files.
// It handles both the main application configuration and export-format
// profiles.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): Global application settings
//   2. Export Profiles (profiles/*.yaml): Per-marketplace export rules
//
// ARCHITECTURE:
//   The configuration system is designed to be:
//   - Modular: Each export format has its own profile file
//   - Self-contained: A built-in eBay profile is used when no file matches
//   - Validated: All configurations are validated on load
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory where input transaction exports are placed.
	// The application will scan this directory for files to process.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// ReportDir is the directory where generated breakdown reports are placed.
	// Default: "./reports"
	ReportDir string `yaml:"report_dir"`

	// ArchiveDir is the directory where processed exports are moved.
	// Files are only moved here after successful processing.
	// Default: "./archive"
	ArchiveDir string `yaml:"archive_dir"`

	// ProfilesDir is the directory containing export-format profiles.
	// Each YAML file in this directory describes one marketplace export.
	// Default: "./profiles"
	ProfilesDir string `yaml:"profiles_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of diagnostic logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	// ReportFormat selects the report file format.
	// Valid values: "xlsx", "csv", "none"
	// Default: "xlsx"
	ReportFormat string `yaml:"report_format"`

	// ReportNameFormat defines the format for report file names.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {source}    - Base name of the source export (without extension)
	//
	// Example: "{source}_{timestamp}.xlsx"
	// Default: "{source}_{uuid}"
	ReportNameFormat string `yaml:"report_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files to process concurrently.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`
}

// =============================================================================
// EXPORT PROFILE STRUCTURE
// =============================================================================

// ExportProfile holds the parsing rules for one marketplace export format.
// The built-in default profile matches the eBay transaction report that feeds
// Payoneer payouts; other marketplaces can be added as YAML files without
// code changes.
type ExportProfile struct {
	// ProfileName is the human-readable name of the export format.
	// This is used in logs and report headers.
	ProfileName string `yaml:"profile_name"`

	// FileMatchingPatterns is a list of glob patterns to match input files.
	// If a file name matches any of these patterns, this profile is used.
	//
	// Examples:
	//   - "Transaction_report_*.csv"
	//   - "*payout*.csv"
	FileMatchingPatterns []string `yaml:"file_matching_patterns"`

	// HeaderAnchors are column names that identify the real header line.
	// Exports often carry preamble text before the tabular data; the first
	// line containing every anchor (each wrapped in double quotes) is taken
	// as the header, and everything before it is discarded.
	HeaderAnchors []string `yaml:"header_anchors"`

	// Columns maps the semantic fields the pipeline needs onto the export's
	// column headers.
	Columns ColumnMap `yaml:"columns"`

	// DateCandidates are column names tried, in order, when resolving a
	// row's transaction date. Exact matches take precedence over the
	// heuristic "any column containing 'date'" fallback.
	DateCandidates []string `yaml:"date_candidates"`

	// DefaultCurrency is used when a payout's currency cannot be resolved.
	// Default: "USD"
	DefaultCurrency string `yaml:"default_currency"`
}

// ColumnMap names the export columns carrying each semantic field.
type ColumnMap struct {
	// PayoutID is the column holding the payout identifier.
	// Rows without a value here cannot be attributed to any batch.
	PayoutID string `yaml:"payout_id"`

	// Type is the column holding the row type label ("Payout", "Order", ...).
	Type string `yaml:"type"`

	// NetAmount is the column holding the signed net amount of the row.
	NetAmount string `yaml:"net_amount"`

	// Currency is the column holding the payout currency code.
	Currency string `yaml:"currency"`

	// TransactionDate and PayoutDate are used, in that order, to resolve a
	// group's payout date.
	TransactionDate string `yaml:"transaction_date"`
	PayoutDate      string `yaml:"payout_date"`

	// OrderNumber and ItemID signal that a row is a sale.
	OrderNumber string `yaml:"order_number"`
	ItemID      string `yaml:"item_id"`

	// ItemTitle and Description carry display text for breakdown rows.
	// Description also participates in fee classification.
	ItemTitle   string `yaml:"item_title"`
	Description string `yaml:"description"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
// Missing options fall back to the documented defaults, and the configured
// directories are created when absent.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	ApplyMainConfigDefaults(&config)

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ApplyMainConfigDefaults sets default values for any unset configuration
// options. It is exported so commands running without a config file can start
// from the same defaults.
func ApplyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.ReportDir == "" {
		config.ReportDir = "./reports"
	}
	if config.ArchiveDir == "" {
		config.ArchiveDir = "./archive"
	}
	if config.ProfilesDir == "" {
		config.ProfilesDir = "./profiles"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ReportFormat == "" {
		config.ReportFormat = "xlsx"
	}
	if config.ReportNameFormat == "" {
		config.ReportNameFormat = "{source}_{uuid}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.ReportFormat {
	case "xlsx", "csv", "none":
	default:
		return fmt.Errorf("unknown report_format %q", config.ReportFormat)
	}

	// Validate that required directories exist.
	dirs := []string{
		config.InputDir,
		config.ReportDir,
		config.ArchiveDir,
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			// Create the directory if it doesn't exist.
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// LoadExportProfiles loads all export profiles from a directory.
// A missing profiles directory is not an error: the built-in default profile
// still applies, so the tool works out of the box.
func LoadExportProfiles(profilesDir string) (map[string]*ExportProfile, error) {
	profiles := make(map[string]*ExportProfile)

	// Find all YAML files in the profiles directory.
	files, err := filepath.Glob(filepath.Join(profilesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list profile files: %w", err)
	}

	// Also check for .yml extension.
	ymlFiles, err := filepath.Glob(filepath.Join(profilesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list profile files: %w", err)
	}
	files = append(files, ymlFiles...)

	// Load each profile file.
	for _, file := range files {
		profile, err := loadExportProfile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}

		// Use the profile name as the key.
		// If no name is specified, use the file name.
		key := profile.ProfileName
		if key == "" {
			key = filepath.Base(file)
		}

		profiles[key] = profile
	}

	return profiles, nil
}

// loadExportProfile loads a single export profile file.
func loadExportProfile(filePath string) (*ExportProfile, error) {
	// Read the profile file.
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Parse the YAML.
	var profile ExportProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	// Apply default values.
	ApplyProfileDefaults(&profile)

	return &profile, nil
}

// =============================================================================
// BUILT-IN DEFAULT PROFILE
// =============================================================================

// DefaultProfile returns the built-in profile for the eBay transaction
// report. This is the profile used when no YAML profile matches an input
// file, and it is the reference layout the core pipeline is tested against.
func DefaultProfile() *ExportProfile {
	profile := &ExportProfile{
		ProfileName: "eBay transaction report",
	}
	ApplyProfileDefaults(profile)
	return profile
}

// ApplyProfileDefaults fills any unset profile fields with the eBay
// transaction report layout. Partial profiles therefore only need to name
// the columns that differ from the reference export.
func ApplyProfileDefaults(profile *ExportProfile) {
	if profile.ProfileName == "" {
		profile.ProfileName = "eBay transaction report"
	}
	if len(profile.HeaderAnchors) == 0 {
		profile.HeaderAnchors = []string{"Transaction creation date", "Payout ID"}
	}
	if len(profile.DateCandidates) == 0 {
		profile.DateCandidates = []string{
			"Transaction creation date",
			"Transaction creation date (UTC)",
			"Transaction date",
			"Date",
		}
	}
	if profile.DefaultCurrency == "" {
		profile.DefaultCurrency = "USD"
	}

	columns := &profile.Columns
	if columns.PayoutID == "" {
		columns.PayoutID = "Payout ID"
	}
	if columns.Type == "" {
		columns.Type = "Type"
	}
	if columns.NetAmount == "" {
		columns.NetAmount = "Net amount"
	}
	if columns.Currency == "" {
		columns.Currency = "Payout currency"
	}
	if columns.TransactionDate == "" {
		columns.TransactionDate = "Transaction creation date"
	}
	if columns.PayoutDate == "" {
		columns.PayoutDate = "Payout date"
	}
	if columns.OrderNumber == "" {
		columns.OrderNumber = "Order number"
	}
	if columns.ItemID == "" {
		columns.ItemID = "Item ID"
	}
	if columns.ItemTitle == "" {
		columns.ItemTitle = "Item title"
	}
	if columns.Description == "" {
		columns.Description = "Description"
	}
}

// FindMatchingProfile returns the profile whose file matching patterns match
// the given file name, or the built-in default profile when none do.
func FindMatchingProfile(fileName string, profiles map[string]*ExportProfile) *ExportProfile {
	for _, profile := range profiles {
		for _, pattern := range profile.FileMatchingPatterns {
			// Use filepath.Match for glob-style pattern matching.
			matched, err := filepath.Match(pattern, fileName)
			if err != nil {
				// Invalid pattern, skip it.
				continue
			}
			if matched {
				return profile
			}
		}
	}

	return DefaultProfile()
}
