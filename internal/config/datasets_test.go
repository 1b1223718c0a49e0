package config

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "latetrack/internal/errors"
)

var tiers = []string{"level2", "level1"}

func TestParseDatasets(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		errType   apperrors.ErrorType
		errSubstr string
		check     func(*testing.T, []byte)
	}{
		{
			name: "valid list",
			input: `[
				{"project_name": "P1", "file_name": "p1.csv", "late_field": "Late", "sid_field": "SID",
				 "original_score_field": "Score", "skip_rows": 1, "level2": 1.0, "level1": 1.1},
				{"project_name": "P2", "file_name": "p2.xlsx", "sheet": "Grades", "late_field": "Late",
				 "sid_field": "SID", "level2": 50, "level1": 0}
			]`,
		},
		{
			name:    "empty list",
			input:   `[]`,
			wantErr: true,
			errType: apperrors.ErrTypeConfig,
		},
		{
			name:    "not json",
			input:   `[{`,
			wantErr: true,
			errType: apperrors.ErrTypeConfig,
		},
		{
			name:    "missing sid field",
			input:   `[{"project_name": "P1", "file_name": "p1.csv", "late_field": "Late", "level2": 1, "level1": 1}]`,
			wantErr: true,
			errType: apperrors.ErrTypeConfig,
		},
		{
			name:    "negative skip rows",
			input:   `[{"project_name": "P1", "file_name": "p1.csv", "late_field": "L", "sid_field": "S", "skip_rows": -1, "level2": 1, "level1": 1}]`,
			wantErr: true,
			errType: apperrors.ErrTypeConfig,
		},
		{
			name:    "non numeric threshold",
			input:   `[{"project_name": "P1", "file_name": "p1.csv", "late_field": "L", "sid_field": "S", "level2": "high", "level1": 1}]`,
			wantErr: true,
			errType: apperrors.ErrTypeConfig,
		},
		{
			name: "duplicate project names",
			input: `[
				{"project_name": "P1", "file_name": "a.csv", "late_field": "L", "sid_field": "S", "level2": 1, "level1": 1},
				{"project_name": "P1", "file_name": "b.csv", "late_field": "L", "sid_field": "S", "level2": 1, "level1": 1}
			]`,
			wantErr:   true,
			errType:   apperrors.ErrTypeConfig,
			errSubstr: "ProjectName",
		},
		{
			name:      "missing tier threshold",
			input:     `[{"project_name": "P1", "file_name": "p1.csv", "late_field": "L", "sid_field": "S", "level2": 1}]`,
			wantErr:   true,
			errType:   apperrors.ErrTypeConfig,
			errSubstr: "level1",
		},
		{
			name:      "unknown tier threshold",
			input:     `[{"project_name": "P1", "file_name": "p1.csv", "late_field": "L", "sid_field": "S", "level2": 1, "level1": 1, "level3": 2}]`,
			wantErr:   true,
			errType:   apperrors.ErrTypeConfig,
			errSubstr: "level3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDatasets([]byte(tt.input), tiers)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.errType), "got %v", err)
				if tt.errSubstr != "" {
					assert.Contains(t, err.Error(), tt.errSubstr)
				}
				return
			}
			require.NoError(t, err)
			require.Len(t, got, 2)

			assert.Equal(t, "P1", got[0].ProjectName)
			assert.Equal(t, "Score", got[0].OriginalScoreField)
			assert.Equal(t, 1, got[0].SkipRows)
			assert.Equal(t, map[string]float64{"level2": 1.0, "level1": 1.1}, got[0].Thresholds)

			assert.Equal(t, "Grades", got[1].Sheet)
			assert.Empty(t, got[1].OriginalScoreField)
			assert.Equal(t, 0, got[1].SkipRows)
			assert.Equal(t, map[string]float64{"level2": 50, "level1": 0}, got[1].Thresholds)
		})
	}
}

func TestLoadDatasets_NotFound(t *testing.T) {
	_, err := LoadDatasets(filepath.Join(t.TempDir(), "missing.json"), tiers)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestLoadDatasets_FromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data_list.json",
		`[{"project_name": "P1", "file_name": "p1.csv", "late_field": "L", "sid_field": "S", "level2": 1, "level1": 1.1}]`)

	got, err := LoadDatasets(path, tiers)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1.csv", got[0].FileName)
}

func TestParseRoster(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		roster, err := ParseRoster([]byte(`{"file_name": "students.csv", "sid_field": "SID", "name_field": "Name", "skip_rows": 2}`))
		require.NoError(t, err)
		assert.Equal(t, "students.csv", roster.FileName)
		assert.Equal(t, "SID", roster.SIDField)
		assert.Equal(t, "Name", roster.NameField)
		assert.Equal(t, 2, roster.SkipRows)
	})

	t.Run("missing name field", func(t *testing.T) {
		_, err := ParseRoster([]byte(`{"file_name": "students.csv", "sid_field": "SID"}`))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})

	t.Run("unexpected key", func(t *testing.T) {
		_, err := ParseRoster([]byte(`{"file_name": "s.csv", "sid_field": "SID", "name_field": "N", "level1": 1}`))
		require.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := LoadRoster(filepath.Join(t.TempDir(), "roster.json"))
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	})
}

func TestTemplateDatasets_RoundTrips(t *testing.T) {
	template := TemplateDatasets(tiers)

	data, err := json.MarshalIndent(template, "", "    ")
	require.NoError(t, err)

	parsed, err := ParseDatasets(data, tiers)
	require.NoError(t, err)
	assert.Equal(t, template, parsed)
	assert.Greater(t, parsed[0].Thresholds["level2"], parsed[0].Thresholds["level1"])
}

func TestTemplateDatasetsFor(t *testing.T) {
	list := TemplateDatasetsFor([]string{"AP Assign1.csv", "quiz.xlsx"}, tiers)
	require.Len(t, list, 2)
	assert.Equal(t, "AP Assign1", list[0].ProjectName)
	assert.Equal(t, "quiz", list[1].ProjectName)
	assert.Equal(t, "quiz.xlsx", list[1].FileName)

	data, err := json.Marshal(list)
	require.NoError(t, err)
	_, err = ParseDatasets(data, tiers)
	assert.NoError(t, err)
}
