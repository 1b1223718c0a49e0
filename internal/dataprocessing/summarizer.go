package dataprocessing

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"latetrack/internal/errors"
	"latetrack/pkg/contracts/domain"
)

// Summarizer turns the two aggregates into per-project and per-student
// summary rows. It is the single place tier counts and averages are computed;
// the exporter only formats what it produces.
type Summarizer struct {
	logger    *slog.Logger
	tierOrder []string
}

// ProjectSummary is one row of the by-project table.
type ProjectSummary struct {
	Project      string         `json:"project"`
	TierCounts   map[string]int `json:"tier_counts"`
	Total        int            `json:"total"`
	ScoredCount  int            `json:"scored_count"`
	AverageScore float64        `json:"average_score"`
}

// StudentSummary is one row of the by-SID table.
type StudentSummary struct {
	SID        domain.StudentID `json:"sid"`
	Name       string           `json:"name"`
	TierCounts map[string]int   `json:"tier_counts"`
	Total      int              `json:"total"`
}

// NewSummarizer creates a summarizer reporting tiers in tierOrder.
func NewSummarizer(logger *slog.Logger, tierOrder []string) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		logger:    logger.With(slog.String("component", "summarizer")),
		tierOrder: append([]string(nil), tierOrder...),
	}
}

// TierOrder returns the tiers in reporting order.
func (s *Summarizer) TierOrder() []string {
	return append([]string(nil), s.tierOrder...)
}

// Projects summarizes each project, sorted by project name. The average
// covers every valid score across all tiers of the project.
func (s *Summarizer) Projects(ctx context.Context, byProject domain.ByProject) []ProjectSummary {
	summaries := make([]ProjectSummary, 0, len(byProject))
	for _, project := range byProject.Projects() {
		summary := ProjectSummary{Project: project, TierCounts: make(map[string]int, len(s.tierOrder))}
		var sum float64
		for tier, entries := range byProject[project] {
			summary.TierCounts[tier] += len(entries)
			summary.Total += len(entries)
			for _, score := range entries {
				if score.Valid {
					sum += score.Value
					summary.ScoredCount++
				}
			}
		}
		if summary.ScoredCount > 0 {
			summary.AverageScore = sum / float64(summary.ScoredCount)
		}
		summaries = append(summaries, summary)
	}

	s.logger.DebugContext(ctx, "Project summaries generated", slog.Int("count", len(summaries)))
	return summaries
}

// Students summarizes each student, sorted by SID. A student missing from
// names gets an empty name.
func (s *Summarizer) Students(ctx context.Context, bySID domain.BySID, names domain.NameMap) []StudentSummary {
	summaries := make([]StudentSummary, 0, len(bySID))
	for _, id := range bySID.SIDs() {
		summary := StudentSummary{SID: id, Name: names[id], TierCounts: make(map[string]int, len(s.tierOrder))}
		for tier, projects := range bySID[id] {
			summary.TierCounts[tier] += len(projects)
			summary.Total += len(projects)
		}
		summaries = append(summaries, summary)
	}

	s.logger.DebugContext(ctx, "Student summaries generated", slog.Int("count", len(summaries)))
	return summaries
}

// ProjectHeader is the by-project table header.
func (s *Summarizer) ProjectHeader() []string {
	header := []string{"Project"}
	header = append(header, s.tierOrder...)
	return append(header, "Total")
}

// ProjectRecords formats project summaries as table rows.
func (s *Summarizer) ProjectRecords(summaries []ProjectSummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		row := []string{summary.Project}
		for _, tier := range s.tierOrder {
			row = append(row, strconv.Itoa(summary.TierCounts[tier]))
		}
		records = append(records, append(row, strconv.Itoa(summary.Total)))
	}
	return records
}

// StudentHeader is the by-SID table header.
func (s *Summarizer) StudentHeader() []string {
	header := []string{"SID", "Name"}
	header = append(header, s.tierOrder...)
	return append(header, "Total")
}

// StudentRecords formats student summaries as table rows.
func (s *Summarizer) StudentRecords(summaries []StudentSummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		row := []string{summary.SID.String(), summary.Name}
		for _, tier := range s.tierOrder {
			row = append(row, strconv.Itoa(summary.TierCounts[tier]))
		}
		records = append(records, append(row, strconv.Itoa(summary.Total)))
	}
	return records
}

// WriteJSON writes both summary lists with metadata.
func (s *Summarizer) WriteJSON(ctx context.Context, path string, projects []ProjectSummary, students []StudentSummary) error {
	s.logger.InfoContext(ctx, "Writing summaries to JSON",
		slog.String("path", path),
		slog.Int("projects", len(projects)),
		slog.Int("students", len(students)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for JSON output", err)
	}

	payload := map[string]interface{}{
		"tiers":        s.tierOrder,
		"projects":     projects,
		"students":     students,
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "late_summary_v1",
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create JSON summary file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return errors.NewStorageError("failed to encode summaries to JSON", err)
	}
	return nil
}

// TopStudents returns up to n students ordered by total late submissions,
// ties broken by SID. n <= 0 returns all of them.
func TopStudents(summaries []StudentSummary, n int) []StudentSummary {
	sorted := append([]StudentSummary(nil), summaries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Total != sorted[j].Total {
			return sorted[i].Total > sorted[j].Total
		}
		return sorted[i].SID < sorted[j].SID
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
