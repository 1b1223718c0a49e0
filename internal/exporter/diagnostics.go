package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"latetrack/internal/dataprocessing"
)

// DiagnosticWriter prints skipped rows in a compact, grep-friendly form:
//
//	p1.csv
//		ERR @6: 	"000123, 5, 50"	invalid identifier length
//
// A file name line precedes each run of diagnostics from the same file.
type DiagnosticWriter struct {
	w io.Writer
}

// NewDiagnosticWriter creates a writer printing to w, usually stderr.
func NewDiagnosticWriter(w io.Writer) *DiagnosticWriter {
	return &DiagnosticWriter{w: w}
}

// Write prints diags in order.
func (d *DiagnosticWriter) Write(diags []dataprocessing.Diagnostic) error {
	current := ""
	for i, diag := range diags {
		if i == 0 || diag.File != current {
			current = diag.File
			if _, err := fmt.Fprintln(d.w, current); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(d.w, "\tERR @%d: \t%q\t%v\n",
			diag.Row, strings.Join(diag.Values, ", "), diag.Err); err != nil {
			return err
		}
	}
	return nil
}

// DiagnosticHeader is the header of the diagnostics CSV report.
func DiagnosticHeader() []string {
	return []string{"Project", "File", "Row", "Values", "Error"}
}

// DiagnosticRecords formats diags as CSV rows.
func DiagnosticRecords(diags []dataprocessing.Diagnostic) [][]string {
	records := make([][]string, 0, len(diags))
	for _, diag := range diags {
		reason := ""
		if diag.Err != nil {
			reason = diag.Err.Error()
		}
		records = append(records, []string{
			diag.Project,
			diag.File,
			strconv.Itoa(diag.Row),
			strings.Join(diag.Values, ", "),
			reason,
		})
	}
	return records
}
