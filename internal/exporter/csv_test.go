package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"latetrack/internal/config"
)

func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	reportsDir := filepath.Join(t.TempDir(), "reports")
	writer := NewCSVWriter(&config.Paths{ReportsDir: reportsDir}, discardLogger())
	return writer, reportsDir
}

func readCSV(t *testing.T, path string) ([][]string, bool) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	hasBOM := bytes.HasPrefix(data, utf8BOM)
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return records, hasBOM
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    [][]string
		wantBOM bool
	}{
		{
			name: "headers and records with BOM",
			options: WriteOptions{
				Headers:   []string{"Project", "Total"},
				Records:   [][]string{{"P1", "3"}, {"P, quoted", "1"}},
				BOMPrefix: true,
			},
			want:    [][]string{{"Project", "Total"}, {"P1", "3"}, {"P, quoted", "1"}},
			wantBOM: true,
		},
		{
			name:    "headers only",
			options: WriteOptions{Headers: []string{"Project", "Total"}},
			want:    [][]string{{"Project", "Total"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer, reportsDir := setupTestEnv(t)

			require.NoError(t, writer.WriteCSV("out.csv", tt.options))

			got, hasBOM := readCSV(t, filepath.Join(reportsDir, "out.csv"))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantBOM, hasBOM)
		})
	}
}

func TestCSVWriter_Append(t *testing.T) {
	writer, reportsDir := setupTestEnv(t)

	require.NoError(t, writer.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}}))
	require.NoError(t, writer.WriteCSV("out.csv", WriteOptions{Records: [][]string{{"2"}}, Append: true}))

	got, hasBOM := readCSV(t, filepath.Join(reportsDir, "out.csv"))
	assert.True(t, hasBOM)
	assert.Equal(t, [][]string{{"A"}, {"1"}, {"2"}}, got)
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, _ := setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "elsewhere", "abs.csv")

	require.NoError(t, writer.WriteSimpleCSV(path, []string{"A"}, nil))
	assert.FileExists(t, path)
}

func TestStreamWriter(t *testing.T) {
	writer, reportsDir := setupTestEnv(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"SID", "Name"})
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"810195123", "Ada"}))
	require.NoError(t, stream.WriteRecord([]string{"810100123", "Alan"}))
	require.NoError(t, stream.Close())

	got, hasBOM := readCSV(t, filepath.Join(reportsDir, "stream.csv"))
	assert.True(t, hasBOM)
	assert.Equal(t, [][]string{{"SID", "Name"}, {"810195123", "Ada"}, {"810100123", "Alan"}}, got)
}
