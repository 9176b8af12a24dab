package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileManager(t *testing.T) *FileManager {
	t.Helper()
	base := t.TempDir()
	return NewFileManager(
		filepath.Join(base, "input"),
		filepath.Join(base, "reports"),
		filepath.Join(base, "archive"),
	)
}

func TestEnsureDirectories(t *testing.T) {
	fm := newTestFileManager(t)

	require.NoError(t, fm.EnsureDirectories())
	assert.DirExists(t, fm.InputDir)
	assert.DirExists(t, fm.ReportDir)
	assert.DirExists(t, fm.ArchiveDir)

	// Idempotent on existing directories.
	assert.NoError(t, fm.EnsureDirectories())
}

func TestIsExportFile(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"Transaction_report.csv", true},
		{"Transaction_report.CSV", true},
		{"statement.xlsx", true},
		{"statement.XLSX", true},
		{"readme.txt", false},
		{"report.xls", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsExportFile(tt.name), tt.name)
	}
}

func TestDiscoverInputFiles(t *testing.T) {
	fm := newTestFileManager(t)
	require.NoError(t, fm.EnsureDirectories())

	require.NoError(t, os.WriteFile(filepath.Join(fm.InputDir, "a.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(fm.InputDir, "b.xlsx"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(fm.InputDir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(fm.InputDir, "sub.csv"), 0755))

	files, err := fm.DiscoverInputFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Contains(t, files, filepath.Join(fm.InputDir, "a.csv"))
	assert.Contains(t, files, filepath.Join(fm.InputDir, "b.xlsx"))
}

func TestArchiveInputFile(t *testing.T) {
	t.Run("moves the file into the archive", func(t *testing.T) {
		fm := newTestFileManager(t)
		require.NoError(t, fm.EnsureDirectories())

		src := filepath.Join(fm.InputDir, "export.csv")
		require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

		archived, err := fm.ArchiveInputFile(src)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(fm.ArchiveDir, "export.csv"), archived)
		assert.FileExists(t, archived)
		assert.NoFileExists(t, src)
	})

	t.Run("creates the archive directory on demand", func(t *testing.T) {
		fm := newTestFileManager(t)
		require.NoError(t, os.MkdirAll(fm.InputDir, 0755))

		src := filepath.Join(fm.InputDir, "export.csv")
		require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

		_, err := fm.ArchiveInputFile(src)
		require.NoError(t, err)
		assert.DirExists(t, fm.ArchiveDir)
	})

	t.Run("no-op when archival is disabled", func(t *testing.T) {
		fm := newTestFileManager(t)
		require.NoError(t, fm.EnsureDirectories())
		fm.ArchiveOnSuccess = false

		src := filepath.Join(fm.InputDir, "export.csv")
		require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

		archived, err := fm.ArchiveInputFile(src)
		require.NoError(t, err)
		assert.Equal(t, src, archived)
		assert.FileExists(t, src)
	})
}

func TestGenerateReportFileName(t *testing.T) {
	t.Run("source placeholder strips the extension", func(t *testing.T) {
		name := GenerateReportFileName("{source}_breakdown", "/data/in/Transaction_report_Jan.csv")
		assert.Equal(t, "Transaction_report_Jan_breakdown", name)
	})

	t.Run("uuid placeholder yields a valid uuid", func(t *testing.T) {
		name := GenerateReportFileName("{uuid}", "export.csv")
		assert.Regexp(t,
			regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`),
			name)
	})

	t.Run("uuid placeholder is unique per call", func(t *testing.T) {
		a := GenerateReportFileName("{uuid}", "export.csv")
		b := GenerateReportFileName("{uuid}", "export.csv")
		assert.NotEqual(t, a, b)
	})

	t.Run("timestamp placeholders match their shapes", func(t *testing.T) {
		name := GenerateReportFileName("{date}T{time}_{timestamp}", "export.csv")
		assert.Regexp(t, regexp.MustCompile(`^\d{8}T\d{6}_\d{8}_\d{6}$`), name)
	})

	t.Run("format without placeholders passes through", func(t *testing.T) {
		assert.Equal(t, "report", GenerateReportFileName("report", "export.csv"))
	})
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	assert.False(t, FileExists(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.True(t, FileExists(path))
}
