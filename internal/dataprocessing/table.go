package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// Row is one data row of a source table.
type Row struct {
	// Number is the 1-based row number in the source file; the header is row 1.
	Number int
	Values []string
}

// Get returns the cell at column index i, or "" when the row is short.
func (r Row) Get(i int) string {
	if i < 0 || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}

// Table is a fully materialized source table with a header row.
type Table struct {
	Name    string
	Header  []string
	Rows    []Row
	columns map[string]int
}

// NewTable builds a table and indexes its header. Header names are compared
// after trimming and Unicode NFC normalization.
func NewTable(name string, header []string, rows []Row) *Table {
	t := &Table{
		Name:    name,
		Header:  header,
		Rows:    rows,
		columns: make(map[string]int, len(header)),
	}
	for i, h := range header {
		key := headerKey(h)
		if _, dup := t.columns[key]; !dup {
			t.columns[key] = i
		}
	}
	return t
}

// Column returns the index of the named column.
func (t *Table) Column(field string) (int, error) {
	if i, ok := t.columns[headerKey(field)]; ok {
		return i, nil
	}
	return -1, &MissingColumnError{Table: t.Name, Column: field}
}

func headerKey(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return norm.NFC.String(strings.TrimSpace(s))
}

// Opener materializes source tables by file name.
type Opener interface {
	Open(fileName, sheet string) (*Table, error)
}

// FileOpener reads tables from DataDir. Excel workbooks (.xlsx, .xlsm) are
// read with excelize; every other file is read as CSV.
type FileOpener struct {
	DataDir string
}

// NewFileOpener creates an opener rooted at dataDir.
func NewFileOpener(dataDir string) *FileOpener {
	return &FileOpener{DataDir: dataDir}
}

// Path resolves fileName against the data directory.
func (o *FileOpener) Path(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(o.DataDir, fileName)
}

// Open reads the whole table and closes the file before returning.
func (o *FileOpener) Open(fileName, sheet string) (*Table, error) {
	path := o.Path(fileName)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return openWorkbook(path, fileName, sheet)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fileName, err)
		}
		defer f.Close()
		return ReadCSV(fileName, f)
	}
}

// ReadCSV reads an excel-dialect CSV table. Blank lines are skipped and row
// numbers follow the physical line of each record.
func ReadCSV(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyTable)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", name, err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, Row{Number: line, Values: record})
	}

	return NewTable(name, header, rows), nil
}

func openWorkbook(path, name, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: %w", name, ErrEmptyTable)
		}
		sheet = sheets[0]
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, name, err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyTable)
	}

	header := grid[0]
	var rows []Row
	for i, cells := range grid[1:] {
		if isBlank(cells) {
			continue
		}
		rows = append(rows, Row{Number: i + 2, Values: padCells(cells, len(header))})
	}

	return NewTable(name, header, rows), nil
}

// padCells extends cells to width; GetRows drops trailing empty cells.
func padCells(cells []string, width int) []string {
	for len(cells) < width {
		cells = append(cells, "")
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
