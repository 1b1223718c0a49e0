// Package app wires configuration, logging and the processing packages into
// the operations exposed on the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"latetrack/internal/config"
	"latetrack/internal/dataprocessing"
	apperrors "latetrack/internal/errors"
	"latetrack/internal/exporter"
	"latetrack/internal/files"
	"latetrack/internal/infrastructure"
	"latetrack/internal/sid"
	"latetrack/internal/validation"
	"latetrack/pkg/contracts/domain"
)

// Options carries command line overrides. Empty fields keep the configured
// value.
type Options struct {
	ConfigFile   string
	DatasetsFile string
	RosterFile   string
	DataDir      string
	ReportsDir   string
	NoCharts     bool

	// Logger replaces the configured global logger when set.
	Logger *slog.Logger
	// Diagnostics receives skipped row reports; defaults to stderr.
	Diagnostics io.Writer
}

const topStudents = 5

// Application is the container for one invocation.
type Application struct {
	Config     *config.Config
	Paths      *config.Paths
	Logger     *slog.Logger
	Normalizer *sid.Normalizer

	opts Options
}

// CheckResult describes a successful check.
type CheckResult struct {
	Datasets int
	// Unreferenced lists data directory tables no descriptor names.
	Unreferenced []string
}

// RunResult describes a completed run.
type RunResult struct {
	RunID       string
	Stats       []dataprocessing.ProjectStats
	Diagnostics int
	Students    int
	// Top lists the students with the most late submissions.
	Top     []dataprocessing.StudentSummary
	Written []string
}

// New loads the configuration, applies opts, resolves paths and sets up
// logging.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}
	applyOverrides(cfg, opts)

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}

	logger := opts.Logger
	if logger == nil {
		cfg.Logging.FilePath = paths.GetLogPath(cfg.Logging.FilePath)
		logger, err = infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to initialize logger", err)
		}
	}

	normalizer, err := sid.NewNormalizer(cfg.Grading.SIDMask)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid identifier mask", err)
	}

	if opts.Diagnostics == nil {
		opts.Diagnostics = os.Stderr
	}

	paths.LogPathResolution(logger)
	infrastructure.WithComponent(logger, "sid").Debug("Identifier mask loaded",
		slog.String("prefix", fmt.Sprint(normalizer.Mask())),
		slog.Any("accepted_lengths", normalizer.AcceptedLengths()))

	return &Application{
		Config:     cfg,
		Paths:      paths,
		Logger:     logger,
		Normalizer: normalizer,
		opts:       opts,
	}, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.DatasetsFile != "" {
		cfg.Paths.DatasetsFile = opts.DatasetsFile
	}
	if opts.RosterFile != "" {
		cfg.Paths.RosterFile = opts.RosterFile
	}
	if opts.DataDir != "" {
		cfg.Paths.DataDir = opts.DataDir
	}
	if opts.ReportsDir != "" {
		cfg.Paths.ReportsDir = opts.ReportsDir
	}
}

// LoadDescriptors reads the dataset list and, when configured, the roster
// descriptor.
func (a *Application) LoadDescriptors() ([]domain.DatasetDescriptor, *domain.RosterDescriptor, error) {
	descriptors, err := config.LoadDatasets(a.Paths.DatasetsFile, a.Config.Grading.Tiers)
	if err != nil {
		return nil, nil, err
	}
	if a.Paths.RosterFile == "" {
		return descriptors, nil, nil
	}
	roster, err := config.LoadRoster(a.Paths.RosterFile)
	if err != nil {
		return nil, nil, err
	}
	return descriptors, roster, nil
}

// Check validates the descriptors and opens every referenced table, binding
// its configured columns. Nothing is written.
func (a *Application) Check(ctx context.Context) (*CheckResult, error) {
	ctx = infrastructure.EnsureRunID(ctx)

	descriptors, roster, err := a.LoadDescriptors()
	if err != nil {
		return nil, err
	}

	validator := validation.NewFileValidator(a.Logger)
	if err := validator.ValidateSources(a.Paths.DataDir, descriptors, roster); err != nil {
		return nil, err
	}

	opener := dataprocessing.NewFileOpener(a.Paths.DataDir)
	for _, d := range descriptors {
		table, err := opener.Open(d.FileName, d.Sheet)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("project %q", d.ProjectName), err)
		}
		if _, err := dataprocessing.BindColumns(table, d); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("project %q", d.ProjectName), err)
		}
		a.Logger.InfoContext(ctx, "Dataset checked",
			slog.String("project", d.ProjectName),
			slog.String("file", d.FileName),
			slog.Int("rows", len(table.Rows)))
	}

	referenced := make([]string, 0, len(descriptors)+1)
	for _, d := range descriptors {
		referenced = append(referenced, d.FileName)
	}

	if roster != nil {
		table, err := opener.Open(roster.FileName, roster.Sheet)
		if err != nil {
			return nil, apperrors.NewValidationError("roster", err)
		}
		for _, field := range []string{roster.SIDField, roster.NameField} {
			if _, err := table.Column(field); err != nil {
				return nil, apperrors.NewValidationError("roster", err)
			}
		}
		referenced = append(referenced, roster.FileName)
	}

	result := &CheckResult{Datasets: len(descriptors)}
	tables, err := files.NewDiscovery(a.Paths.BaseDir).FindTables(a.Paths.DataDir)
	if err != nil {
		return nil, apperrors.NewValidationError("failed to list data directory", err)
	}
	for _, f := range files.Unreferenced(tables, referenced) {
		a.Logger.WarnContext(ctx, "Table not referenced by any descriptor", slog.String("file", f.Name))
		result.Unreferenced = append(result.Unreferenced, f.Name)
	}

	a.Logger.InfoContext(ctx, "Check passed", slog.Int("datasets", len(descriptors)))
	return result, nil
}

// Run executes the whole pipeline: extract, index, resolve names, summarize
// and export.
func (a *Application) Run(ctx context.Context) (*RunResult, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	result := &RunResult{RunID: infrastructure.GetRunID(ctx)}

	a.Logger.InfoContext(ctx, "Run started",
		slog.String("datasets_file", a.Paths.DatasetsFile),
		slog.String("data_dir", a.Paths.DataDir))

	descriptors, roster, err := a.LoadDescriptors()
	if err != nil {
		return nil, err
	}

	validator := validation.NewFileValidator(a.Logger)
	if err := validator.ValidateSources(a.Paths.DataDir, descriptors, roster); err != nil {
		return nil, err
	}
	if err := validator.ValidateOutputDirectory(a.Paths.ReportsDir); err != nil {
		return nil, apperrors.NewStorageError("reports directory is unusable", err)
	}

	metrics := infrastructure.NewRunMetrics()
	opener := dataprocessing.NewFileOpener(a.Paths.DataDir)
	tiers := a.Config.Grading.Tiers

	extraction, err := dataprocessing.NewExtractor(opener, a.Normalizer, tiers, metrics, a.Logger).Extract(ctx, descriptors)
	if err != nil {
		return nil, extractionError(err)
	}
	diagnostics := extraction.Diagnostics

	bySID := dataprocessing.IndexBySID(extraction.ByProject, tiers)

	var names domain.NameMap
	if roster != nil {
		var rosterDiags []dataprocessing.Diagnostic
		names, rosterDiags, err = dataprocessing.ResolveNames(ctx, opener, a.Normalizer, *roster, a.Logger)
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read roster", err)
		}
		diagnostics = append(diagnostics, rosterDiags...)
	}

	if err := exporter.NewDiagnosticWriter(a.opts.Diagnostics).Write(diagnostics); err != nil {
		a.Logger.WarnContext(ctx, "Failed to print diagnostics", slog.String("error", err.Error()))
	}

	summarizer := dataprocessing.NewSummarizer(a.Logger, tiers)
	report := exporter.Report{
		ByProject:   extraction.ByProject,
		BySID:       bySID,
		Projects:    summarizer.Projects(ctx, extraction.ByProject),
		Students:    summarizer.Students(ctx, bySID, names),
		Diagnostics: diagnostics,
	}

	written, err := exporter.NewReportExporter(a.Paths, summarizer, a.Logger).
		Export(ctx, report, exporter.Options{Charts: !a.opts.NoCharts})
	if err != nil {
		return nil, err
	}

	metrics.SetTotals(len(extraction.ByProject), len(bySID))
	if path := a.Config.Metrics.TextfilePath; path != "" {
		if err := metrics.WriteTextfile(a.Paths.GetReportPath(path)); err != nil {
			return nil, apperrors.NewStorageError("failed to write metrics", err)
		}
		written = append(written, a.Paths.GetReportPath(path))
	}

	result.Stats = extraction.Stats
	result.Diagnostics = len(diagnostics)
	result.Students = len(bySID)
	result.Top = dataprocessing.TopStudents(report.Students, topStudents)
	result.Written = written

	a.Logger.InfoContext(ctx, "Run finished",
		slog.Int("projects", len(extraction.ByProject)),
		slog.Int("students", result.Students),
		slog.Int("diagnostics", result.Diagnostics))

	return result, nil
}

// extractionError classifies an extraction failure. Problems a check would
// also report are validation errors.
func extractionError(err error) error {
	var missing *dataprocessing.MissingColumnError
	if errors.As(err, &missing) || errors.Is(err, dataprocessing.ErrMissingThreshold) {
		return apperrors.NewValidationError("dataset does not match its descriptor", err)
	}
	return apperrors.NewParsingError("extraction failed", err)
}

// Close releases the log file, if any.
func (a *Application) Close() error {
	if a.opts.Logger != nil {
		return nil
	}
	return infrastructure.CloseLogFile()
}
