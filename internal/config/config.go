// Package config provides configuration loading for the PDF converter.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the converter.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Conversion    ConversionConfig    `yaml:"conversion"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// ConversionConfig holds conversion pipeline settings.
type ConversionConfig struct {
	ScratchDir     string `yaml:"scratch_dir"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	ImageDPI       int    `yaml:"image_dpi"`
}

// HTTPConfig holds browser-facing HTTP settings.
type HTTPConfig struct {
	CORSOrigins       []string `yaml:"cors_origins"`
	RequestsPerMinute int      `yaml:"requests_per_minute"` // 0 disables rate limiting
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}

		cfg.Conversion.ScratchDir = ResolveRelativePath(path, cfg.Conversion.ScratchDir)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			RequestTimeout:   90 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Conversion: ConversionConfig{
			ScratchDir:     filepath.Join(os.TempDir(), "pdf-converter"),
			MaxUploadBytes: 50 << 20,
			ImageDPI:       72,
		},
		HTTP: HTTPConfig{
			CORSOrigins:       []string{"*"},
			RequestsPerMinute: 0,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "pdf-converter",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Server.RequestTimeout, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := validation.ValidateStruct(&c.Conversion,
		validation.Field(&c.Conversion.ScratchDir, validation.Required),
		validation.Field(&c.Conversion.MaxUploadBytes, validation.Min(int64(0))),
		validation.Field(&c.Conversion.ImageDPI, validation.Required, validation.Min(18), validation.Max(600)),
	); err != nil {
		return fmt.Errorf("conversion: %w", err)
	}

	if err := validation.ValidateStruct(&c.HTTP,
		validation.Field(&c.HTTP.RequestsPerMinute, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("http: %w", err)
	}

	if err := validation.ValidateStruct(&c.Observability,
		validation.Field(&c.Observability.LogFormat, validation.In("json", "console")),
	); err != nil {
		return fmt.Errorf("observability: %w", err)
	}

	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("SCRATCH_DIR"); v != "" {
		cfg.Conversion.ScratchDir = v
	}

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Conversion.MaxUploadBytes = n
		}
	}

	if v := os.Getenv("IMAGE_DPI"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Conversion.ImageDPI = n
		}
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = strings.Split(v, ",")
	}

	if v := os.Getenv("REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RequestsPerMinute = n
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if targetPath == "" || filepath.IsAbs(targetPath) {
		return targetPath
	}
	configDir := filepath.Dir(configPath)
	return filepath.Join(configDir, targetPath)
}
