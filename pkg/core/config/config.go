// Package config holds runtime configuration for the statement pipeline,
// loaded from YAML with environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// APIConfig configures SEC EDGAR access.
type APIConfig struct {
	UserAgent  string  `yaml:"user_agent"`
	RateLimit  float64 `yaml:"rate_limit"`  // requests per second
	Timeout    int     `yaml:"timeout"`     // seconds
	MaxRetries int     `yaml:"max_retries"`
}

// ParserConfig configures caching, output, and parallelism.
type ParserConfig struct {
	CacheDir       string `yaml:"cache_dir"`
	DataDir        string `yaml:"data_dir"`   // local statement files
	OutputDir      string `yaml:"output_dir"` // generated reports
	MaxWorkers     int    `yaml:"max_workers"`
	ValidateOutput bool   `yaml:"validate_output"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port      string `yaml:"port"`
	ConfigDir string `yaml:"config_dir"` // encrypted API key storage
}

// Config is the complete runtime configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Parser ParserConfig `yaml:"parser"`
	Server ServerConfig `yaml:"server"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		API: APIConfig{
			UserAgent:  "edgar_statements/1.0",
			RateLimit:  10,
			Timeout:    30,
			MaxRetries: 3,
		},
		Parser: ParserConfig{
			CacheDir:       ".cache/edgar",
			DataDir:        "data",
			OutputDir:      "output",
			MaxWorkers:     4,
			ValidateOutput: true,
		},
		Server: ServerConfig{
			Port:      "8080",
			ConfigDir: "config",
		},
	}
}

// Load reads a YAML configuration file over the defaults; fields absent
// from the file keep their default values. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		applyEnv(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides file values with the environment where set.
func applyEnv(cfg *Config) {
	if ua := os.Getenv("SEC_USER_AGENT"); ua != "" {
		cfg.API.UserAgent = ua
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if dir := os.Getenv("EDGAR_DATA_DIR"); dir != "" {
		cfg.Parser.DataDir = dir
	}
	if dir := os.Getenv("EDGAR_OUTPUT_DIR"); dir != "" {
		cfg.Parser.OutputDir = dir
	}
}
