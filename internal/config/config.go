package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const configFileName = "tdf.config.json"

type Config struct {
	Version      string   `json:"version" mapstructure:"version"`
	SchemaPath   string   `json:"schema_path" mapstructure:"schema_path"`
	ScenarioPath string   `json:"scenario_path" mapstructure:"scenario_path"`
	OutPath      string   `json:"out_path" mapstructure:"out_path"`
	Database     Database `json:"database" mapstructure:"database"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

// DefaultConfig returns the config used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Version:      "1",
		SchemaPath:   "db/schema.yaml",
		ScenarioPath: "db/scenario.yaml",
		OutPath:      "db/generated.sql",
		Database: Database{
			Provider: "postgresql",
			URLEnv:   "DATABASE_URL",
		},
	}
}

// Load unmarshals whatever viper read and fills in defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaults := DefaultConfig()
	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.SchemaPath == "" {
		cfg.SchemaPath = defaults.SchemaPath
	}
	if cfg.ScenarioPath == "" {
		cfg.ScenarioPath = defaults.ScenarioPath
	}
	if cfg.OutPath == "" {
		cfg.OutPath = defaults.OutPath
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = defaults.Database.Provider
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = defaults.Database.URLEnv
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}
	if c.SchemaPath == "" {
		return fmt.Errorf("schema_path cannot be empty")
	}
	if c.ScenarioPath == "" {
		return fmt.Errorf("scenario_path cannot be empty")
	}
	return nil
}

// GetDatabaseURL resolves the connection URL from the configured
// environment variable.
func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

// IsInitialized reports whether a config file exists in the working
// directory.
func IsInitialized() bool {
	_, err := os.Stat(configFileName)
	return err == nil
}

// InitializeProject writes the default config file and creates the db/
// directory. Fails if the project is already initialized.
func InitializeProject() error {
	if IsInitialized() {
		return fmt.Errorf("project already initialized: %s exists", configFileName)
	}

	cfg := DefaultConfig()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configFileName, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFileName, err)
	}

	if dir := filepath.Dir(cfg.SchemaPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
