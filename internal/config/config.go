package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "retailcli/internal/errors"
)

// DefaultDateFormat is the invoice date layout of the raw dataset export.
// The whole dataset is assumed to use one consistent format; a value that
// does not parse under this layout aborts the run.
const DefaultDateFormat = "1/2/2006 15:04"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	DatasetsDir string `yaml:"datasets_dir" envconfig:"DATASETS_DIR" default:"data/datasets"`
	ReportsDir  string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// PipelineConfig contains the cleaning and aggregation settings
type PipelineConfig struct {
	// DatasetFile is the raw transaction dataset consumed by the pipeline,
	// relative to DatasetsDir unless absolute. Excel (.xlsx) and CSV are
	// supported.
	DatasetFile string `yaml:"dataset_file" envconfig:"DATASET_FILE" default:"transactions.xlsx"`

	// DateFormat is the single dataset-wide invoice date layout.
	DateFormat string `yaml:"date_format" envconfig:"DATE_FORMAT"`

	// Top-N cutoffs for the ranked report sections.
	TopProducts  int `yaml:"top_products" envconfig:"TOP_PRODUCTS" default:"10" validate:"min=1"`
	TopCountries int `yaml:"top_countries" envconfig:"TOP_COUNTRIES" default:"5" validate:"min=1"`
	TopMonths    int `yaml:"top_months" envconfig:"TOP_MONTHS" default:"5" validate:"min=1"`
	TopCustomers int `yaml:"top_customers" envconfig:"TOP_CUSTOMERS" default:"5" validate:"min=1"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("RETAIL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config over the env pass. File values replace
// the envconfig defaults, but a variable set explicitly in the environment
// still takes precedence over the file.
func mergeConfigs(fileConfig, envConfig Config) Config {
	envSet := func(name string) bool {
		_, ok := os.LookupEnv("RETAIL_" + name)
		return ok
	}

	if fileConfig.Server.Port != 0 && !envSet("SERVER_PORT") {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if fileConfig.Server.ReadTimeout != 0 && !envSet("SERVER_READ_TIMEOUT") {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if fileConfig.Server.WriteTimeout != 0 && !envSet("SERVER_WRITE_TIMEOUT") {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if fileConfig.Server.IdleTimeout != 0 && !envSet("SERVER_IDLE_TIMEOUT") {
		envConfig.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if fileConfig.Server.ShutdownTimeout != 0 && !envSet("SERVER_SHUTDOWN_TIMEOUT") {
		envConfig.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}
	if fileConfig.Logging.Level != "" && !envSet("LOGGING_LEVEL") {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && !envSet("LOGGING_FORMAT") {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if fileConfig.Logging.Output != "" && !envSet("LOGGING_OUTPUT") {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && !envSet("LOGGING_FILE_PATH") {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	// A false in the file cannot be told apart from an absent key, so the
	// file can only switch development mode on.
	if fileConfig.Logging.Development && !envSet("LOGGING_DEVELOPMENT") {
		envConfig.Logging.Development = true
	}
	if fileConfig.Paths.DataDir != "" && !envSet("PATHS_DATA_DIR") {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if fileConfig.Paths.DatasetsDir != "" && !envSet("PATHS_DATASETS_DIR") {
		envConfig.Paths.DatasetsDir = fileConfig.Paths.DatasetsDir
	}
	if fileConfig.Paths.ReportsDir != "" && !envSet("PATHS_REPORTS_DIR") {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if fileConfig.Paths.LogsDir != "" && !envSet("PATHS_LOGS_DIR") {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if fileConfig.Pipeline.DatasetFile != "" && !envSet("PIPELINE_DATASET_FILE") {
		envConfig.Pipeline.DatasetFile = fileConfig.Pipeline.DatasetFile
	}
	if fileConfig.Pipeline.DateFormat != "" && !envSet("PIPELINE_DATE_FORMAT") {
		envConfig.Pipeline.DateFormat = fileConfig.Pipeline.DateFormat
	}
	if fileConfig.Pipeline.TopProducts != 0 && !envSet("PIPELINE_TOP_PRODUCTS") {
		envConfig.Pipeline.TopProducts = fileConfig.Pipeline.TopProducts
	}
	if fileConfig.Pipeline.TopCountries != 0 && !envSet("PIPELINE_TOP_COUNTRIES") {
		envConfig.Pipeline.TopCountries = fileConfig.Pipeline.TopCountries
	}
	if fileConfig.Pipeline.TopMonths != 0 && !envSet("PIPELINE_TOP_MONTHS") {
		envConfig.Pipeline.TopMonths = fileConfig.Pipeline.TopMonths
	}
	if fileConfig.Pipeline.TopCustomers != 0 && !envSet("PIPELINE_TOP_CUSTOMERS") {
		envConfig.Pipeline.TopCustomers = fileConfig.Pipeline.TopCustomers
	}

	return envConfig
}

// applyDefaults fills in values envconfig defaults cannot express
func (c *Config) applyDefaults() {
	if c.Pipeline.DateFormat == "" {
		c.Pipeline.DateFormat = DefaultDateFormat
	}
}

// Validate checks the loaded configuration against its constraints
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("invalid configuration", err)
	}
	return nil
}

// getConfigFilePath returns the config file location, honoring the
// RETAIL_CONFIG_FILE override.
func getConfigFilePath() string {
	if path := os.Getenv("RETAIL_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
