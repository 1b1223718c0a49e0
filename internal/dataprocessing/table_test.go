package dataprocessing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	input := "\ufeffStudent ID , Late,Score\n" +
		"123,110%,80\n" +
		"\n" +
		"00123,,95\n" +
		"\"9500123\",\"5\"\n"

	table, err := ReadCSV("p1.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "p1.csv", table.Name)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, 2, table.Rows[0].Number)
	assert.Equal(t, []string{"123", "110%", "80"}, table.Rows[0].Values)
	assert.Equal(t, 4, table.Rows[1].Number, "blank line keeps physical numbering")
	assert.Equal(t, 5, table.Rows[2].Number)
	assert.Equal(t, "", table.Rows[2].Get(2), "short row reads as empty")

	sidCol, err := table.Column("Student ID")
	require.NoError(t, err)
	assert.Equal(t, 0, sidCol)

	lateCol, err := table.Column("Late")
	require.NoError(t, err)
	assert.Equal(t, 1, lateCol)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV("empty.csv", strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyTable))
}

func TestTable_ColumnNormalizesUnicode(t *testing.T) {
	// Header uses a combining accent, lookup uses the precomposed form.
	table := NewTable("t", []string{"Re\u0301sultat", "SID"}, nil)

	i, err := table.Column("R\u00e9sultat")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = table.Column("Missing")
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Missing", missing.Column)
	assert.Equal(t, "t", missing.Table)
}

func TestRow_Get(t *testing.T) {
	row := Row{Number: 2, Values: []string{"a", "b"}}
	assert.Equal(t, "a", row.Get(0))
	assert.Equal(t, "b", row.Get(1))
	assert.Equal(t, "", row.Get(2))
	assert.Equal(t, "", row.Get(-1))
}

func TestFileOpener_CSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p1.csv"), []byte("SID,Late\n123,2\n"), 0644))

	opener := NewFileOpener(dir)
	assert.Equal(t, filepath.Join(dir, "p1.csv"), opener.Path("p1.csv"))

	table, err := opener.Open("p1.csv", "")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"123", "2"}, table.Rows[0].Values)

	_, err = opener.Open("missing.csv", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileOpener_Workbook(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	defer f.Close()
	first := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(first, "A1", &[]interface{}{"SID", "Late", "Score"}))
	require.NoError(t, f.SetSheetRow(first, "A2", &[]interface{}{"123", "110%", 80}))
	require.NoError(t, f.SetSheetRow(first, "A4", &[]interface{}{"00123", 7, 90}))
	require.NoError(t, f.SetSheetRow(first, "A5", &[]interface{}{"456", 2}))

	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]interface{}{"SID", "Late"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]interface{}{"555", 1}))

	require.NoError(t, f.SaveAs(filepath.Join(dir, "grades.xlsx")))

	opener := NewFileOpener(dir)

	t.Run("first sheet by default", func(t *testing.T) {
		table, err := opener.Open("grades.xlsx", "")
		require.NoError(t, err)
		require.Len(t, table.Rows, 3)
		assert.Equal(t, 2, table.Rows[0].Number)
		assert.Equal(t, "110%", table.Rows[0].Get(1))
		assert.Equal(t, 4, table.Rows[1].Number)
		assert.Equal(t, "7", table.Rows[1].Get(1))
		assert.Equal(t, []string{"456", "2", ""}, table.Rows[2].Values)
	})

	t.Run("named sheet", func(t *testing.T) {
		table, err := opener.Open("grades.xlsx", "Other")
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "555", table.Rows[0].Get(0))
	})

	t.Run("unknown sheet", func(t *testing.T) {
		_, err := opener.Open("grades.xlsx", "Nope")
		assert.Error(t, err)
	})
}
