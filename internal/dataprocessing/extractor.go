package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"latetrack/internal/sid"
	"latetrack/pkg/contracts/domain"
)

// Diagnostic records a row that was skipped. It is informational only.
type Diagnostic struct {
	Project string
	File    string
	Row     int
	Values  []string
	Err     error
}

// ProjectStats summarizes how the rows of one dataset were handled.
type ProjectStats struct {
	Project      string
	File         string
	Rows         int
	Leading      int
	Classified   int
	Unclassified int
	Skipped      int
}

// Extraction is the result of running the extractor over all datasets.
type Extraction struct {
	ByProject   domain.ByProject
	Diagnostics []Diagnostic
	Stats       []ProjectStats
}

// RowRecorder observes per-row outcomes, typically for metrics.
type RowRecorder interface {
	ObserveRow(project string, outcome string)
}

// Extractor builds the project-indexed aggregate from dataset descriptors.
type Extractor struct {
	opener     Opener
	normalizer *sid.Normalizer
	tierOrder  []string
	recorder   RowRecorder
	logger     *slog.Logger
}

// NewExtractor creates an extractor. tierOrder is the check order of the
// lateness tiers; every descriptor must define a threshold for each of them.
func NewExtractor(opener Opener, normalizer *sid.Normalizer, tierOrder []string, recorder RowRecorder, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		opener:     opener,
		normalizer: normalizer,
		tierOrder:  append([]string(nil), tierOrder...),
		recorder:   recorder,
		logger:     logger.With(slog.String("component", "extractor")),
	}
}

// Extract reads every dataset in order. Row problems become diagnostics and
// never stop the run; a dataset that cannot be opened or lacks a configured
// column does.
func (e *Extractor) Extract(ctx context.Context, descriptors []domain.DatasetDescriptor) (*Extraction, error) {
	seen := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		if seen[d.ProjectName] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProject, d.ProjectName)
		}
		seen[d.ProjectName] = true
	}

	result := &Extraction{ByProject: make(domain.ByProject, len(descriptors))}

	for _, d := range descriptors {
		buckets, stats, diags, err := e.extractOne(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", d.ProjectName, err)
		}
		result.ByProject[d.ProjectName] = buckets
		result.Stats = append(result.Stats, stats)
		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	e.logger.InfoContext(ctx, "Extraction complete",
		slog.Int("projects", len(result.ByProject)),
		slog.Int("diagnostics", len(result.Diagnostics)))

	return result, nil
}

func (e *Extractor) extractOne(ctx context.Context, d domain.DatasetDescriptor) (map[string]domain.TierEntries, ProjectStats, []Diagnostic, error) {
	stats := ProjectStats{Project: d.ProjectName, File: d.FileName}

	tiers, err := d.Tiers(e.tierOrder)
	if err != nil {
		return nil, stats, nil, fmt.Errorf("%w: %v", ErrMissingThreshold, err)
	}

	table, err := e.opener.Open(d.FileName, d.Sheet)
	if err != nil {
		return nil, stats, nil, err
	}
	columns, err := BindColumns(table, d)
	if err != nil {
		return nil, stats, nil, err
	}
	classifier := NewClassifier(e.normalizer, d, columns, tiers)

	buckets := make(map[string]domain.TierEntries, len(tiers))
	for _, tier := range tiers {
		buckets[tier.Name] = make(domain.TierEntries)
	}

	e.logger.InfoContext(ctx, "Processing dataset",
		slog.String("project", d.ProjectName),
		slog.String("file", d.FileName),
		slog.Int("rows", len(table.Rows)),
		slog.Int("skip_rows", d.SkipRows))

	var diags []Diagnostic
	for i, row := range table.Rows {
		if i < d.SkipRows {
			stats.Leading++
			continue
		}
		stats.Rows++

		outcome := classifier.Classify(row)
		if e.recorder != nil {
			e.recorder.ObserveRow(d.ProjectName, outcome.Kind.String())
		}

		switch outcome.Kind {
		case Classified:
			stats.Classified++
			// A repeated identifier keeps only its last row, even when the
			// earlier row landed in another tier.
			for _, entries := range buckets {
				delete(entries, outcome.Entry.SID)
			}
			buckets[outcome.Entry.Tier][outcome.Entry.SID] = outcome.Entry.Score
		case Unclassified:
			stats.Unclassified++
		case Skipped:
			stats.Skipped++
			diags = append(diags, Diagnostic{
				Project: d.ProjectName,
				File:    d.FileName,
				Row:     row.Number,
				Values:  append([]string(nil), row.Values...),
				Err:     outcome.Err,
			})
			e.logger.DebugContext(ctx, "Row skipped",
				slog.String("project", d.ProjectName),
				slog.Int("row", row.Number),
				slog.String("error", outcome.Err.Error()))
		}
	}

	e.logger.InfoContext(ctx, "Dataset processed",
		slog.String("project", d.ProjectName),
		slog.Int("classified", stats.Classified),
		slog.Int("unclassified", stats.Unclassified),
		slog.Int("skipped", stats.Skipped))

	return buckets, stats, diags, nil
}
