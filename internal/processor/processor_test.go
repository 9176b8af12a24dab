package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellertools/payout-breakdown/internal/config"
	"github.com/sellertools/payout-breakdown/pkg/utils"
)

const sampleExport = `Transaction report
Seller ID: some-seller

"Transaction creation date","Type","Order number","Item ID","Item title","Description","Net amount","Payout currency","Payout date","Payout ID"
"Jan 5, 2024","Order","12-34567-89012","1234567890","Vintage camera lens","","100.00","USD","--","PO-1001"
"Jan 5, 2024","Other fee","--","--","--","Final value fee","-2.50","USD","--","PO-1001"
"Jan 6, 2024","Payout","--","--","--","","-97.50","USD","Jan 6, 2024","PO-1001"
`

// testEnv wires a processor against temp directories.
type testEnv struct {
	mainConfig *config.MainConfig
	profile    *config.ExportProfile
	files      *utils.FileManager
	inputFile  string
}

func setupTestEnv(t *testing.T, reportFormat string) testEnv {
	t.Helper()
	base := t.TempDir()

	mainConfig := &config.MainConfig{
		InputDir:         filepath.Join(base, "input"),
		ReportDir:        filepath.Join(base, "reports"),
		ArchiveDir:       filepath.Join(base, "archive"),
		ReportFormat:     reportFormat,
		ReportNameFormat: "{source}_breakdown",
	}
	config.ApplyMainConfigDefaults(mainConfig)

	files := utils.NewFileManager(mainConfig.InputDir, mainConfig.ReportDir, mainConfig.ArchiveDir)
	require.NoError(t, files.EnsureDirectories())

	inputFile := filepath.Join(mainConfig.InputDir, "Transaction_report.csv")
	require.NoError(t, os.WriteFile(inputFile, []byte(sampleExport), 0644))

	return testEnv{
		mainConfig: mainConfig,
		profile:    config.DefaultProfile(),
		files:      files,
		inputFile:  inputFile,
	}
}

func TestRun(t *testing.T) {
	t.Run("full pipeline with csv report", func(t *testing.T) {
		env := setupTestEnv(t, "csv")

		result := New(env.inputFile, env.profile, env.mainConfig, env.files, false).Run()

		require.True(t, result.Success, "error: %v", result.Error)
		assert.Equal(t, 3, result.Stats.RowsParsed)
		assert.Equal(t, 1, result.Stats.GroupCount)
		assert.Equal(t, 2, result.Stats.BreakdownRows)
		assert.Zero(t, result.Stats.ParseErrors)

		group := result.Groups["PO-1001"]
		require.NotNil(t, group)
		assert.InDelta(t, 97.50, group.PayoutAmount, 1e-9)

		assert.True(t, result.Reconciliation.OK)

		// Report written, export archived.
		assert.Equal(t, filepath.Join(env.mainConfig.ReportDir, "Transaction_report_breakdown.csv"), result.ReportFile)
		assert.FileExists(t, result.ReportFile)
		assert.NoFileExists(t, env.inputFile)
		assert.FileExists(t, filepath.Join(env.mainConfig.ArchiveDir, "Transaction_report.csv"))
	})

	t.Run("dry run leaves the filesystem alone", func(t *testing.T) {
		env := setupTestEnv(t, "csv")

		result := New(env.inputFile, env.profile, env.mainConfig, env.files, true).Run()

		require.True(t, result.Success)
		assert.Empty(t, result.ReportFile)
		assert.FileExists(t, env.inputFile, "dry run must not archive")
		assert.Len(t, result.Groups, 1)
	})

	t.Run("report format none skips the report", func(t *testing.T) {
		env := setupTestEnv(t, "none")

		result := New(env.inputFile, env.profile, env.mainConfig, env.files, false).Run()

		require.True(t, result.Success)
		assert.Empty(t, result.ReportFile)
		assert.NoFileExists(t, env.inputFile, "export is still archived")
	})

	t.Run("missing input file fails the run", func(t *testing.T) {
		env := setupTestEnv(t, "csv")

		missing := filepath.Join(env.mainConfig.InputDir, "nope.csv")
		result := New(missing, env.profile, env.mainConfig, env.files, false).Run()

		assert.False(t, result.Success)
		assert.Error(t, result.Error)
	})

	t.Run("export without a header line degrades to an empty grouping", func(t *testing.T) {
		env := setupTestEnv(t, "none")
		require.NoError(t, os.WriteFile(env.inputFile, []byte("free text\nno tabular data\n"), 0644))

		result := New(env.inputFile, env.profile, env.mainConfig, env.files, true).Run()

		require.True(t, result.Success)
		assert.Empty(t, result.Groups)
		assert.False(t, result.Reconciliation.OK, "no marker row can exist")
	})
}

func TestLoad(t *testing.T) {
	profile := config.DefaultProfile()

	t.Run("csv extension goes through the csv parser", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.csv")
		require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

		data, err := Load(path, profile)
		require.NoError(t, err)
		assert.Len(t, data.Rows, 3)
	})

	t.Run("unknown extensions are treated as csv text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.txt")
		require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

		data, err := Load(path, profile)
		require.NoError(t, err)
		assert.Len(t, data.Rows, 3)
	})
}
