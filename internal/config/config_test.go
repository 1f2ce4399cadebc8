package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retailcli/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	// Point the loader at an absent file so only env/defaults apply
	t.Setenv("RETAIL_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "transactions.xlsx", cfg.Pipeline.DatasetFile)
	assert.Equal(t, DefaultDateFormat, cfg.Pipeline.DateFormat)
	assert.Equal(t, 10, cfg.Pipeline.TopProducts)
	assert.Equal(t, 5, cfg.Pipeline.TopCountries)
	assert.Equal(t, 5, cfg.Pipeline.TopMonths)
	assert.Equal(t, 5, cfg.Pipeline.TopCustomers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RETAIL_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RETAIL_SERVER_PORT", "9191")
	t.Setenv("RETAIL_LOGGING_LEVEL", "debug")
	t.Setenv("RETAIL_PIPELINE_DATASET_FILE", "sales.csv")
	t.Setenv("RETAIL_PIPELINE_DATE_FORMAT", "2006-01-02 15:04:05")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "sales.csv", cfg.Pipeline.DatasetFile)
	assert.Equal(t, "2006-01-02 15:04:05", cfg.Pipeline.DateFormat)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 7070
pipeline:
  dataset_file: retail_2011.xlsx
  top_products: 25
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("RETAIL_CONFIG_FILE", configFile)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "retail_2011.xlsx", cfg.Pipeline.DatasetFile)
}

func TestLoad_FromFile_AllSections(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
server:
  idle_timeout: 90s
  shutdown_timeout: 5s
logging:
  format: text
  output: both
  file_path: logs/pipeline.log
  development: true
paths:
  reports_dir: out/reports
  logs_dir: out/logs
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("RETAIL_CONFIG_FILE", configFile)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/pipeline.log", cfg.Logging.FilePath)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "out/reports", cfg.Paths.ReportsDir)
	assert.Equal(t, "out/logs", cfg.Paths.LogsDir)
}

func TestLoad_FromFile_EnvStillWins(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
logging:
  level: error
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("RETAIL_CONFIG_FILE", configFile)
	t.Setenv("RETAIL_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("RETAIL_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RETAIL_LOGGING_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
}

func TestResolvePaths(t *testing.T) {
	paths, err := ResolvePaths(PathsConfig{
		DataDir:     "data",
		DatasetsDir: "data/datasets",
		ReportsDir:  "data/reports",
		LogsDir:     "logs",
	})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(paths.DatasetsDir))
	assert.True(t, filepath.IsAbs(paths.ReportsDir))
	assert.Equal(t, filepath.Join(paths.BaseDir, "data", "datasets"), paths.DatasetsDir)
}

func TestPaths_GetDatasetPath(t *testing.T) {
	paths := &Paths{DatasetsDir: "/srv/retail/data/datasets"}

	assert.Equal(t, "/srv/retail/data/datasets/transactions.xlsx",
		paths.GetDatasetPath("transactions.xlsx"))
	assert.Equal(t, "/tmp/other.csv", paths.GetDatasetPath("/tmp/other.csv"))
}

func TestPaths_GetLogPath(t *testing.T) {
	paths := &Paths{LogsDir: "/srv/retail/logs"}

	assert.Equal(t, "/srv/retail/logs/app.log", paths.GetLogPath("app.log"))
	assert.Equal(t, "/var/log/retail.log", paths.GetLogPath("/var/log/retail.log"))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := &Paths{
		DataDir:     filepath.Join(base, "data"),
		DatasetsDir: filepath.Join(base, "data", "datasets"),
		ReportsDir:  filepath.Join(base, "data", "reports"),
		LogsDir:     filepath.Join(base, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.DatasetsDir, paths.ReportsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
