package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"latetrack/internal/sid"
	"latetrack/pkg/contracts/domain"
)

// ResolveNames builds the SID → display name map from the roster table.
// Rows with an unusable identifier are reported as diagnostics; a repeated
// identifier keeps the last name seen.
func ResolveNames(ctx context.Context, opener Opener, normalizer *sid.Normalizer, roster domain.RosterDescriptor, logger *slog.Logger) (domain.NameMap, []Diagnostic, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "roster"))

	table, err := opener.Open(roster.FileName, roster.Sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("roster: %w", err)
	}
	sidCol, err := table.Column(roster.SIDField)
	if err != nil {
		return nil, nil, fmt.Errorf("roster: %w", err)
	}
	nameCol, err := table.Column(roster.NameField)
	if err != nil {
		return nil, nil, fmt.Errorf("roster: %w", err)
	}

	names := make(domain.NameMap, len(table.Rows))
	var diags []Diagnostic
	for i, row := range table.Rows {
		if i < roster.SkipRows {
			continue
		}
		id, err := normalizer.Normalize(row.Get(sidCol))
		if err != nil {
			diags = append(diags, Diagnostic{
				File:   roster.FileName,
				Row:    row.Number,
				Values: append([]string(nil), row.Values...),
				Err:    err,
			})
			continue
		}
		names[id] = strings.TrimSpace(row.Get(nameCol))
	}

	logger.InfoContext(ctx, "Roster loaded",
		slog.String("file", roster.FileName),
		slog.Int("students", len(names)),
		slog.Int("skipped", len(diags)))

	return names, diags, nil
}
