package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "latetrack/internal/errors"
	"latetrack/pkg/contracts/domain"
)

// tableExtensions are the source formats the table reader understands.
var tableExtensions = map[string]bool{
	".csv":  true,
	".txt":  true,
	".xlsx": true,
	".xlsm": true,
}

// FileValidator checks input and output locations before a run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateInputDirectory validates that the input directory exists
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateTableFile checks that path is a readable CSV or Excel file and
// not an Excel lock file.
func (v *FileValidator) ValidateTableFile(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Temporary Excel file referenced",
			slog.String("file", path))
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !tableExtensions[ext] {
		v.logger.Error("Unsupported table format",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s has unsupported extension %q", path, ext)
	}

	return v.ValidateFile(path)
}

// ValidateSources checks every table referenced by the descriptors, plus
// the roster when given. All problems are reported in one validation error.
func (v *FileValidator) ValidateSources(dataDir string, descriptors []domain.DatasetDescriptor, roster *domain.RosterDescriptor) error {
	if err := v.ValidateInputDirectory(dataDir); err != nil {
		return apperrors.NewValidationError("data directory is unusable", err)
	}

	resolve := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(dataDir, name)
	}

	var errs []error
	for _, d := range descriptors {
		if err := v.ValidateTableFile(resolve(d.FileName)); err != nil {
			errs = append(errs, fmt.Errorf("project %q: %w", d.ProjectName, err))
		}
	}
	if roster != nil {
		if err := v.ValidateTableFile(resolve(roster.FileName)); err != nil {
			errs = append(errs, fmt.Errorf("roster: %w", err))
		}
	}

	if len(errs) > 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("%d source file(s) failed validation", len(errs)), errors.Join(errs...))
	}

	v.logger.Info("Source files validated",
		slog.String("directory", dataDir),
		slog.Int("datasets", len(descriptors)))
	return nil
}
