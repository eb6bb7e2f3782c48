package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// PathsConfig contains the pipeline's directory layout. Relative paths
// are interpreted against the working directory, so a bare invocation
// next to a data/ checkout works without any configuration.
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	PlotsDir  string `yaml:"plots_dir" envconfig:"PLOTS_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load resolves configuration in layers: built-in defaults, then an
// optional config.yaml, then BATT_* environment variables. Later layers
// win. Command-line flags are applied on top by the caller through
// ApplyOverrides.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configFile, err)
		}
	}

	// Defaults live in Default() rather than envconfig tags, so an
	// unset variable leaves the layered value alone instead of
	// resetting it.
	if err := envconfig.Process("BATT", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyOverrides replaces path settings with non-empty flag values.
func (c *Config) ApplyOverrides(dataDir, outputDir, plotsDir string) {
	if dataDir != "" {
		c.Paths.DataDir = dataDir
	}
	if outputDir != "" {
		c.Paths.OutputDir = outputDir
	}
	if plotsDir != "" {
		c.Paths.PlotsDir = plotsDir
	}
}

// ResolvePaths derives the run's file system locations from the
// configured directories.
func (c *Config) ResolvePaths() *Paths {
	return NewPaths(c.Paths)
}

// loadFromFile merges a YAML file over cfg. Keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Paths.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.Paths.PlotsDir == "" {
		return fmt.Errorf("plots directory cannot be empty")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "json" {
		// Structured output only; anything else is a misconfiguration
		// we silently correct.
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFilePath
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			OutputDir: DefaultOutputDir,
			PlotsDir:  DefaultPlotsDir,
			LogsDir:   DefaultLogsDir,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFilePath,
		},
	}
}
