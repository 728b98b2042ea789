package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data source names accepted by DataConfig.Source
const (
	SourceAPI      = "api"
	SourceFixtures = "fixtures"
)

// Config holds all configuration options for the dashboard
type Config struct {
	// Backend API connection
	API APIConfig `yaml:"api" json:"api"`

	// Data fetching behavior
	Data DataConfig `yaml:"data" json:"data"`

	// Fetch retry policy
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Rate limiting for API requests
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Snapshot export settings
	Export ExportConfig `yaml:"export" json:"export"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds backend connection configuration
type APIConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DataConfig holds data source and fetch behavior configuration
type DataConfig struct {
	Source       string        `yaml:"source" json:"source"`
	AutoFetch    bool          `yaml:"auto_fetch" json:"auto_fetch"`
	CacheTime    time.Duration `yaml:"cache_time" json:"cache_time"`
	DefaultLimit int           `yaml:"default_limit" json:"default_limit"`
}

// RetryConfig holds the post-insight fetch retry policy
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	Delay       time.Duration `yaml:"delay" json:"delay"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// ExportConfig holds snapshot export configuration
type ExportConfig struct {
	Directory         string `yaml:"directory" json:"directory"`
	OverwriteExisting bool   `yaml:"overwrite_existing" json:"overwrite_existing"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Data: DataConfig{
			Source:       SourceAPI,
			AutoFetch:    true,
			CacheTime:    5 * time.Minute,
			DefaultLimit: 50,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			Delay:       time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Export: ExportConfig{
			Directory:         "./exports",
			OverwriteExisting: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("IGBOARD_API_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if source := os.Getenv("IGBOARD_DATA_SOURCE"); source != "" {
		c.Data.Source = strings.ToLower(source)
	}
	if limit := os.Getenv("IGBOARD_DEFAULT_LIMIT"); limit != "" {
		var val int
		fmt.Sscanf(limit, "%d", &val)
		if val > 0 {
			c.Data.DefaultLimit = val
		}
	}
	if attempts := os.Getenv("IGBOARD_RETRY_ATTEMPTS"); attempts != "" {
		var val int
		fmt.Sscanf(attempts, "%d", &val)
		if val > 0 {
			c.Retry.MaxAttempts = val
		}
	}
	if rpm := os.Getenv("IGBOARD_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}
	if exportDir := os.Getenv("IGBOARD_EXPORT_DIR"); exportDir != "" {
		c.Export.Directory = exportDir
	}
	if logLevel := os.Getenv("IGBOARD_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".igboard.yaml",
		".igboard.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igboard", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igboard", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igboard.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	} else if _, err := url.Parse(c.API.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("invalid API base URL: %w", err))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("API timeout must be positive"))
	}

	if c.Data.Source != SourceAPI && c.Data.Source != SourceFixtures {
		errs = append(errs, fmt.Errorf("data source must be %q or %q", SourceAPI, SourceFixtures))
	}
	if c.Data.DefaultLimit <= 0 {
		errs = append(errs, errors.New("default limit must be positive"))
	}

	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("retry attempts cannot be negative"))
	}
	if c.Retry.Delay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Export.Directory == "" {
		errs = append(errs, errors.New("export directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["api-url"].(string); ok && baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if source, ok := flags["data-source"].(string); ok && source != "" {
		c.Data.Source = strings.ToLower(source)
	}
	if limit, ok := flags["limit"].(int); ok && limit > 0 {
		c.Data.DefaultLimit = limit
	}
	if attempts, ok := flags["max-retries"].(int); ok && attempts > 0 {
		c.Retry.MaxAttempts = attempts
	}
	if exportDir, ok := flags["export-dir"].(string); ok && exportDir != "" {
		c.Export.Directory = exportDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igboard.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
