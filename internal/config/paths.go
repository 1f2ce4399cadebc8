package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the resolved directory layout for a run. All directories are
// absolute after Resolve.
type Paths struct {
	BaseDir     string
	DataDir     string
	DatasetsDir string
	ReportsDir  string
	LogsDir     string
}

// ResolvePaths turns the configured (possibly relative) directories into an
// absolute Paths layout rooted at the working directory.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	return &Paths{
		BaseDir:     base,
		DataDir:     resolve(cfg.DataDir),
		DatasetsDir: resolve(cfg.DatasetsDir),
		ReportsDir:  resolve(cfg.ReportsDir),
		LogsDir:     resolve(cfg.LogsDir),
	}, nil
}

// EnsureDirectories creates all required directories if they do not exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.DatasetsDir, p.ReportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDatasetPath returns the full path for a dataset file
func (p *Paths) GetDatasetPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.DatasetsDir, filename)
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved layout for startup debugging
func (p *Paths) LogPathResolution() {
	slog.Info("Resolved application paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("datasets_dir", p.DatasetsDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir))
}
