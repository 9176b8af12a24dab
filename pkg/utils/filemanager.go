// =============================================================================
// Payout Breakdown - File Manager
// =============================================================================
//
// This module handles the host-side file plumbing around the parsing core:
// discovering transaction exports in the input directory, archiving them
// after successful processing, and naming report files.
//
// The parsing core itself never touches the filesystem beyond reading the
// one export it is given; everything here belongs to the CLI host.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the breakdown tool.
type FileManager struct {
	// InputDir is the directory where transaction exports are placed.
	InputDir string

	// ReportDir is the directory where breakdown reports are written.
	ReportDir string

	// ArchiveDir is the directory for processed exports.
	ArchiveDir string

	// ArchiveOnSuccess determines whether to archive exports after
	// successful processing.
	ArchiveOnSuccess bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, reportDir, archiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		ReportDir:        reportDir,
		ArchiveDir:       archiveDir,
		ArchiveOnSuccess: true,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		fm.InputDir,
		fm.ReportDir,
		fm.ArchiveDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// exportExtensions are the file extensions recognized as transaction exports.
var exportExtensions = []string{".csv", ".xlsx"}

// DiscoverInputFiles scans the input directory for transaction exports.
// Both raw CSV exports and exports re-saved through Excel are picked up.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsExportFile(entry.Name()) {
			files = append(files, filepath.Join(fm.InputDir, entry.Name()))
		}
	}

	return files, nil
}

// IsExportFile reports whether the file name carries a recognized export
// extension.
func IsExportFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range exportExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a processed export to the archive directory.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := filepath.Join(fm.ArchiveDir, filepath.Base(filePath))

	// Ensure the archive directory exists.
	if err := os.MkdirAll(fm.ArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	// Move the file.
	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// =============================================================================
// REPORT FILE NAMING
// =============================================================================

// GenerateReportFileName generates a report file name from a format string.
//
// Placeholders:
//   {uuid}      - A random UUID
//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//   {date}      - Current date (YYYYMMDD)
//   {time}      - Current time (HHMMSS)
//   {source}    - Base name of the source export (without extension)
//
// EXAMPLE:
//   format: "{source}_{timestamp}"
//   source: "Transaction_report_Jan.csv"
//   output: "Transaction_report_Jan_20240115_143022"
//
// The report format's extension is appended by the report writer, not here.
func GenerateReportFileName(format, sourcePath string) string {
	now := time.Now()

	source := filepath.Base(sourcePath)
	source = strings.TrimSuffix(source, filepath.Ext(source))

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
		"{source}":    source,
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Close()
}

// FileExists checks whether a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
