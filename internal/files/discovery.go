package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// tableSuffixes are the source table formats the reader understands.
var tableSuffixes = []string{".csv", ".xlsx", ".xlsm"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Stem returns the file name without its extension.
func (f FileInfo) Stem() string {
	return strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance. Relative directories
// are resolved against basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindTables lists the CSV and Excel files directly inside dir, sorted by
// name. Excel lock files (~$name.xlsx) are ignored.
func (d *Discovery) FindTables(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") || !isTable(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Unreferenced returns the files whose names are not in referenced.
func Unreferenced(files []FileInfo, referenced []string) []FileInfo {
	known := make(map[string]bool, len(referenced))
	for _, name := range referenced {
		known[filepath.Base(name)] = true
	}

	var out []FileInfo
	for _, f := range files {
		if !known[f.Name] {
			out = append(out, f)
		}
	}
	return out
}

func isTable(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range tableSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
