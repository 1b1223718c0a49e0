package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "latetrack/internal/errors"
	"latetrack/pkg/contracts/domain"
)

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "valid directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: false,
		},
		{
			name: "non-existent directory",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "path is file not directory",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "test.txt")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			dir := tt.setupFunc(t)

			err := validator.ValidateInputDirectory(dir)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)
	dir := filepath.Join(t.TempDir(), "new", "nested", "dir")

	require.NoError(t, validator.ValidateOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoFileExists(t, filepath.Join(dir, ".write_test"))
}

func TestFileValidator_ValidateTableFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"p1.csv", "p2.XLSX", "notes.pdf", "~$p3.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.csv"), 0755))

	tests := []struct {
		file          string
		wantErr       bool
		errorContains string
	}{
		{file: "p1.csv"},
		{file: "p2.XLSX"},
		{file: "notes.pdf", wantErr: true, errorContains: "unsupported extension"},
		{file: "~$p3.xlsx", wantErr: true, errorContains: "temporary"},
		{file: "missing.csv", wantErr: true, errorContains: "does not exist"},
		{file: "folder.csv", wantErr: true, errorContains: "is a directory"},
	}

	validator := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			err := validator.ValidateTableFile(filepath.Join(dir, tt.file))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_ValidateSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p1.csv"), []byte("SID,Late\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "students.csv"), []byte("SID,Name\n"), 0644))

	validator := NewFileValidator(nil)
	roster := &domain.RosterDescriptor{FileName: "students.csv"}

	t.Run("all present", func(t *testing.T) {
		err := validator.ValidateSources(dir, []domain.DatasetDescriptor{{ProjectName: "P1", FileName: "p1.csv"}}, roster)
		assert.NoError(t, err)
	})

	t.Run("missing files are reported together", func(t *testing.T) {
		err := validator.ValidateSources(dir, []domain.DatasetDescriptor{
			{ProjectName: "P1", FileName: "p1.csv"},
			{ProjectName: "P2", FileName: "p2.csv"},
			{ProjectName: "P3", FileName: "p3.xlsx"},
		}, &domain.RosterDescriptor{FileName: "roster.csv"})

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
		assert.Contains(t, err.Error(), "3 source file(s)")
		assert.Contains(t, err.Error(), `project "P2"`)
		assert.Contains(t, err.Error(), `project "P3"`)
		assert.Contains(t, err.Error(), "roster")
	})

	t.Run("missing data directory", func(t *testing.T) {
		err := validator.ValidateSources(filepath.Join(dir, "nope"), nil, nil)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})
}
