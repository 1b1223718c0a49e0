// Package exporter writes the lateness reports.
//
// This package contains four components:
//
// CSVWriter: core CSV writing with headers, streaming, and a UTF-8 BOM for
// Excel compatibility.
//
// WriteJSON and ChartWorkbook: the raw aggregates as JSON, and an Excel
// workbook with the summary tables and native charts.
//
// DiagnosticWriter: prints skipped rows, grouped by source file.
//
// ReportExporter: writes all of the above into the reports directory.
//
// Example usage:
//
//	summarizer := dataprocessing.NewSummarizer(logger, cfg.Grading.Tiers)
//	exp := exporter.NewReportExporter(paths, summarizer, logger)
//	written, err := exp.Export(ctx, exporter.Report{
//	    ByProject: byProject,
//	    BySID:     bySID,
//	    Projects:  summarizer.Projects(ctx, byProject),
//	    Students:  summarizer.Students(ctx, bySID, names),
//	}, exporter.Options{Charts: true})
package exporter
