package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Paths contains all the application paths, resolved to absolute form.
// This is the single source of truth for file locations during a run.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string

	// Config files
	DatasetsFile string
	RosterFile   string

	// Well-known report files
	ByProjectCSV   string
	BySIDCSV       string
	ByProjectJSON  string
	BySIDJSON      string
	SummaryJSON    string
	ChartsWorkbook string
	DiagnosticsCSV string
}

// GetPaths resolves the configured paths. Relative entries are joined to
// BaseDir; an empty BaseDir means the current working directory.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	reportsDir := resolve(cfg.ReportsDir)

	return &Paths{
		BaseDir:      base,
		DataDir:      resolve(cfg.DataDir),
		ReportsDir:   reportsDir,
		LogsDir:      resolve(cfg.LogsDir),
		DatasetsFile: resolve(cfg.DatasetsFile),
		RosterFile:   resolve(cfg.RosterFile),

		ByProjectCSV:   filepath.Join(reportsDir, ByProjectCSV),
		BySIDCSV:       filepath.Join(reportsDir, BySIDCSV),
		ByProjectJSON:  filepath.Join(reportsDir, ByProjectJSON),
		BySIDJSON:      filepath.Join(reportsDir, BySIDJSON),
		SummaryJSON:    filepath.Join(reportsDir, SummaryJSON),
		ChartsWorkbook: filepath.Join(reportsDir, ChartsWorkbook),
		DiagnosticsCSV: filepath.Join(reportsDir, DiagnosticsCSV),
	}, nil
}

// EnsureDirectories creates the output directories if they don't exist.
// The data directory is input only and is never created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetDataPath returns the path of a source table inside the data directory
func (p *Paths) GetDataPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.DataDir, filename)
}

// GetReportPath returns the path of a file inside the reports directory
func (p *Paths) GetReportPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path of a file inside the logs directory
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("config_files",
			slog.String("datasets", p.DatasetsFile),
			slog.String("roster", p.RosterFile),
		))
}

// ValidateRequiredFiles checks that the descriptor files exist
func (p *Paths) ValidateRequiredFiles() error {
	requiredFiles := map[string]string{
		"Datasets": p.DatasetsFile,
	}
	if p.RosterFile != "" {
		requiredFiles["Roster"] = p.RosterFile
	}

	var missingFiles []string
	for name, path := range requiredFiles {
		if !FileExists(path) {
			missingFiles = append(missingFiles, fmt.Sprintf("%s (%s)", name, path))
		}
	}

	if len(missingFiles) > 0 {
		sort.Strings(missingFiles)
		return fmt.Errorf("required files missing: %s", strings.Join(missingFiles, ", "))
	}

	return nil
}
