package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"latetrack/internal/dataprocessing"
)

const (
	chartsSheet   = "Charts"
	projectsSheet = "Projects"
	studentsSheet = "Students"
)

// ChartWorkbook writes an Excel workbook with the project and student
// summary tables and three native charts built on them:
//
//   - average original score per project (column)
//   - classified submissions per project, stacked by tier (column)
//   - late projects per student (horizontal bar)
//
// Charts whose source table is empty are left out.
func ChartWorkbook(path string, tiers []string, projects []dataprocessing.ProjectSummary, students []dataprocessing.StudentSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), chartsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, sheet := range []string{projectsSheet, studentsSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	if err := writeProjectSheet(f, tiers, projects); err != nil {
		return err
	}
	if err := writeStudentSheet(f, tiers, students); err != nil {
		return err
	}

	if len(projects) > 0 {
		if err := addProjectCharts(f, tiers, len(projects)); err != nil {
			return err
		}
	}
	if len(students) > 0 {
		if err := addStudentChart(f, tiers, len(students)); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Projects sheet layout: A project, B.. tier counts, then Total and
// Average score.
func writeProjectSheet(f *excelize.File, tiers []string, projects []dataprocessing.ProjectSummary) error {
	header := []interface{}{"Project"}
	for _, tier := range tiers {
		header = append(header, tier)
	}
	header = append(header, "Total", "Average score")
	if err := f.SetSheetRow(projectsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write projects header: %w", err)
	}

	for i, p := range projects {
		row := []interface{}{p.Project}
		for _, tier := range tiers {
			row = append(row, p.TierCounts[tier])
		}
		row = append(row, p.Total, p.AverageScore)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(projectsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write project %s: %w", p.Project, err)
		}
	}
	return nil
}

// Students sheet layout: A SID, B name, C label, D.. tier counts, then Total.
func writeStudentSheet(f *excelize.File, tiers []string, students []dataprocessing.StudentSummary) error {
	header := []interface{}{"SID", "Name", "Label"}
	for _, tier := range tiers {
		header = append(header, tier)
	}
	header = append(header, "Total")
	if err := f.SetSheetRow(studentsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write students header: %w", err)
	}

	for i, s := range students {
		label := s.SID.String()
		if s.Name != "" {
			label = s.Name
		}
		row := []interface{}{s.SID.String(), s.Name, label}
		for _, tier := range tiers {
			row = append(row, s.TierCounts[tier])
		}
		row = append(row, s.Total)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(studentsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write student %s: %w", s.SID, err)
		}
	}
	return nil
}

func addProjectCharts(f *excelize.File, tiers []string, n int) error {
	last := n + 1
	categories := columnRange(projectsSheet, 1, 2, last)
	averageCol := len(tiers) + 3

	average := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       cellRef(projectsSheet, averageCol, 1),
			Categories: categories,
			Values:     columnRange(projectsSheet, averageCol, 2, last),
		}},
		Title:     []excelize.RichTextRun{{Text: "Average score by project"}},
		Legend:    excelize.ChartLegend{Position: "none"},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
	}
	if err := f.AddChart(chartsSheet, "A1", average); err != nil {
		return fmt.Errorf("failed to add average score chart: %w", err)
	}

	byTier := &excelize.Chart{
		Type:      excelize.ColStacked,
		Title:     []excelize.RichTextRun{{Text: "Late submissions by project"}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
	}
	for i := range tiers {
		col := i + 2
		byTier.Series = append(byTier.Series, excelize.ChartSeries{
			Name:       cellRef(projectsSheet, col, 1),
			Categories: categories,
			Values:     columnRange(projectsSheet, col, 2, last),
		})
	}
	if err := f.AddChart(chartsSheet, "K1", byTier); err != nil {
		return fmt.Errorf("failed to add tier chart: %w", err)
	}
	return nil
}

func addStudentChart(f *excelize.File, tiers []string, n int) error {
	last := n + 1
	totalCol := len(tiers) + 4

	height := uint(20*n + 120)
	if height < 360 {
		height = 360
	}

	chart := &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       cellRef(studentsSheet, totalCol, 1),
			Categories: columnRange(studentsSheet, 3, 2, last),
			Values:     columnRange(studentsSheet, totalCol, 2, last),
		}},
		Title:     []excelize.RichTextRun{{Text: "Late projects by student"}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: 640, Height: height},
	}
	if err := f.AddChart(chartsSheet, "A20", chart); err != nil {
		return fmt.Errorf("failed to add student chart: %w", err)
	}
	return nil
}

// cellRef returns an absolute single-cell reference such as Projects!$B$1.
func cellRef(sheet string, col, row int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("%s!$%s$%d", sheet, name, row)
}

// columnRange returns an absolute range within one column.
func columnRange(sheet string, col, from, to int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("%s!$%s$%d:$%s$%d", sheet, name, from, name, to)
}
