package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"latetrack/internal/config"
	apperrors "latetrack/internal/errors"
)

const datasetsJSON = `[
    {"project_name": "P1", "file_name": "p1.csv", "late_field": "Late", "sid_field": "SID",
     "original_score_field": "Score", "level2": 1.0, "level1": 1.1},
    {"project_name": "P2", "file_name": "p2.csv", "late_field": "Late", "sid_field": "SID",
     "original_score_field": "Score", "skip_rows": 1, "level2": 10, "level1": 0.5}
]`

// setupWorkspace lays out a base directory with data files and descriptors
// and points LATETRACK_PATHS_BASE_DIR at it.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	base := t.TempDir()

	files := map[string]string{
		"data_list.json":    datasetsJSON,
		"roster.json":       `{"file_name": "students.csv", "sid_field": "SID", "name_field": "Name"}`,
		"data/p1.csv":       "SID,Late,Score\n123,110%,80\n00123,,70\n000123,5,50\n",
		"data/p2.csv":       "SID,Late,Score\nnote,,\n123,2,90\n9500123,1,60\n",
		"data/students.csv": "SID,Name\n123,Ada King\n9500123,Alan Turing\n",
	}
	for name, content := range files {
		path := filepath.Join(base, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	t.Setenv("LATETRACK_PATHS_BASE_DIR", base)
	return base
}

func newTestApp(t *testing.T, opts Options) (*Application, *bytes.Buffer) {
	t.Helper()
	var diags bytes.Buffer
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	opts.Diagnostics = &diags

	application, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })
	return application, &diags
}

func TestApplication_Run(t *testing.T) {
	base := setupWorkspace(t)
	t.Setenv("LATETRACK_METRICS_TEXTFILE_PATH", "latetrack.prom")

	application, diags := newTestApp(t, Options{RosterFile: "roster.json"})

	result, err := application.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Diagnostics)
	assert.Equal(t, 2, result.Students)
	assert.Len(t, result.Top, 2)
	require.Len(t, result.Stats, 2)
	assert.Equal(t, 1, result.Stats[1].Leading)

	assert.Contains(t, diags.String(), "p1.csv\n\tERR @4:")

	reports := filepath.Join(base, "reports")
	for _, name := range []string{
		config.ByProjectCSV, config.BySIDCSV, config.ByProjectJSON, config.BySIDJSON,
		config.SummaryJSON, config.DiagnosticsCSV, config.ChartsWorkbook, "latetrack.prom",
	} {
		assert.FileExists(t, filepath.Join(reports, name))
	}

	data, err := os.ReadFile(filepath.Join(reports, config.BySIDJSON))
	require.NoError(t, err)
	var bySID map[string]map[string]map[string]*float64
	require.NoError(t, json.Unmarshal(data, &bySID))

	// 123 is late in P1 (level2) and P2 (level1); 00123 is on time in P1;
	// 9500123 is late in P2 (level1).
	assert.Equal(t, 80.0, *bySID["810195123"]["level2"]["P1"])
	assert.Equal(t, 90.0, *bySID["810195123"]["level1"]["P2"])
	assert.Equal(t, 60.0, *bySID["819500123"]["level1"]["P2"])
	assert.NotContains(t, bySID, "810100123")

	summary, err := os.ReadFile(filepath.Join(reports, config.SummaryJSON))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Alan Turing")
}

func TestApplication_RunWithoutCharts(t *testing.T) {
	base := setupWorkspace(t)
	application, _ := newTestApp(t, Options{NoCharts: true, ReportsDir: "out"})

	result, err := application.Run(context.Background())
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(base, "out", config.ChartsWorkbook))
	assert.FileExists(t, filepath.Join(base, "out", config.ByProjectCSV))
	assert.Len(t, result.Written, 6)
}

func TestApplication_Check(t *testing.T) {
	t.Run("valid workspace", func(t *testing.T) {
		base := setupWorkspace(t)
		require.NoError(t, os.WriteFile(filepath.Join(base, "data", "extra.csv"), []byte("SID\n"), 0644))

		application, _ := newTestApp(t, Options{RosterFile: "roster.json"})
		result, err := application.Check(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, result.Datasets)
		assert.Equal(t, []string{"extra.csv"}, result.Unreferenced)
	})

	t.Run("missing column", func(t *testing.T) {
		base := setupWorkspace(t)
		require.NoError(t, os.WriteFile(filepath.Join(base, "data", "p2.csv"), []byte("SID,Score\n"), 0644))

		application, _ := newTestApp(t, Options{})
		_, err := application.Check(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
		assert.Contains(t, err.Error(), "Late")
		assert.Equal(t, 2, apperrors.ExitCode(err))
	})

	t.Run("missing data file", func(t *testing.T) {
		base := setupWorkspace(t)
		require.NoError(t, os.Remove(filepath.Join(base, "data", "p1.csv")))

		application, _ := newTestApp(t, Options{})
		_, err := application.Check(context.Background())
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("missing dataset list", func(t *testing.T) {
		setupWorkspace(t)
		application, _ := newTestApp(t, Options{DatasetsFile: "nope.json"})
		_, err := application.Check(context.Background())
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	})
}

func TestApplication_RunMissingColumnMatchesCheck(t *testing.T) {
	base := setupWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(base, "data", "p2.csv"), []byte("SID,Score\n"), 0644))

	application, _ := newTestApp(t, Options{})
	_, checkErr := application.Check(context.Background())
	_, runErr := application.Run(context.Background())

	require.Error(t, runErr)
	assert.True(t, apperrors.IsType(runErr, apperrors.ErrTypeValidation))
	assert.Contains(t, runErr.Error(), "Late")
	assert.Equal(t, apperrors.ExitCode(checkErr), apperrors.ExitCode(runErr))
	assert.Equal(t, 2, apperrors.ExitCode(runErr))
}

func TestNew_InvalidConfig(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("LATETRACK_GRADING_SID_MASK", "0,12")

	_, err := New(Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}
