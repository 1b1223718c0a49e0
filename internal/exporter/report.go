package exporter

import (
	"context"
	"log/slog"

	"latetrack/internal/config"
	"latetrack/internal/dataprocessing"
	apperrors "latetrack/internal/errors"
	"latetrack/pkg/contracts/domain"
)

// Report is everything a run produces.
type Report struct {
	ByProject   domain.ByProject
	BySID       domain.BySID
	Projects    []dataprocessing.ProjectSummary
	Students    []dataprocessing.StudentSummary
	Diagnostics []dataprocessing.Diagnostic
}

// Options selects optional outputs.
type Options struct {
	Charts bool
}

// ReportExporter writes a Report into the reports directory.
type ReportExporter struct {
	paths      *config.Paths
	csvWriter  *CSVWriter
	summarizer *dataprocessing.Summarizer
	logger     *slog.Logger
}

// NewReportExporter creates a report exporter. The summarizer decides the
// tier columns and their order.
func NewReportExporter(paths *config.Paths, summarizer *dataprocessing.Summarizer, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &ReportExporter{
		paths:      paths,
		csvWriter:  NewCSVWriter(paths, logger),
		summarizer: summarizer,
		logger:     logger,
	}
}

// Export writes every report file and returns the written paths in order.
func (e *ReportExporter) Export(ctx context.Context, report Report, opts Options) ([]string, error) {
	var written []string

	if err := e.csvWriter.WriteSimpleCSV(e.paths.ByProjectCSV,
		e.summarizer.ProjectHeader(), e.summarizer.ProjectRecords(report.Projects)); err != nil {
		return written, apperrors.NewStorageError("failed to write project table", err)
	}
	written = append(written, e.paths.ByProjectCSV)

	if err := e.writeStudentTable(report.Students); err != nil {
		return written, apperrors.NewStorageError("failed to write student table", err)
	}
	written = append(written, e.paths.BySIDCSV)

	if err := WriteJSON(e.paths.ByProjectJSON, report.ByProject); err != nil {
		return written, apperrors.NewStorageError("failed to write project aggregate", err)
	}
	written = append(written, e.paths.ByProjectJSON)

	if err := WriteJSON(e.paths.BySIDJSON, report.BySID); err != nil {
		return written, apperrors.NewStorageError("failed to write student aggregate", err)
	}
	written = append(written, e.paths.BySIDJSON)

	if err := e.summarizer.WriteJSON(ctx, e.paths.SummaryJSON, report.Projects, report.Students); err != nil {
		return written, err
	}
	written = append(written, e.paths.SummaryJSON)

	if err := e.csvWriter.WriteSimpleCSV(e.paths.DiagnosticsCSV,
		DiagnosticHeader(), DiagnosticRecords(report.Diagnostics)); err != nil {
		return written, apperrors.NewStorageError("failed to write diagnostics", err)
	}
	written = append(written, e.paths.DiagnosticsCSV)

	if opts.Charts {
		if err := ChartWorkbook(e.paths.ChartsWorkbook, e.summarizer.TierOrder(), report.Projects, report.Students); err != nil {
			return written, apperrors.NewStorageError("failed to write charts", err)
		}
		written = append(written, e.paths.ChartsWorkbook)
	}

	e.logger.InfoContext(ctx, "Reports written",
		slog.String("dir", e.paths.ReportsDir),
		slog.Int("files", len(written)))

	return written, nil
}

// writeStudentTable streams the by-SID table, one student per record.
func (e *ReportExporter) writeStudentTable(students []dataprocessing.StudentSummary) error {
	stream, err := e.csvWriter.CreateStreamWriter(e.paths.BySIDCSV, e.summarizer.StudentHeader())
	if err != nil {
		return err
	}
	for _, record := range e.summarizer.StudentRecords(students) {
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return err
		}
	}
	return stream.Close()
}
