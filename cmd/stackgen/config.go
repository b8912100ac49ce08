package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/artpar/stackgen/internal/core/compose"
	"github.com/artpar/stackgen/internal/core/service"
	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	OutputDir string   `mapstructure:"output_dir"`
	Project   string   `mapstructure:"project"`
	EnvNames  []string `mapstructure:"env_names"`

	Log       LogConfig       `mapstructure:"log"`
	Toolchain ToolchainConfig `mapstructure:"toolchain"`
	Compose   ComposeConfig   `mapstructure:"compose"`
	Images    ImagesConfig    `mapstructure:"images"`

	// Services is the run; empty selects the default backend and frontend.
	Services []service.Spec `mapstructure:"services"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ToolchainConfig holds external tool configuration.
type ToolchainConfig struct {
	// Enabled runs package managers and scaffolders after writing files.
	Enabled bool `mapstructure:"enabled"`

	// OnFailure is "warn" or "abort".
	OnFailure string `mapstructure:"on_failure"`

	// Timeout bounds each tool invocation.
	Timeout time.Duration `mapstructure:"timeout"`

	// PythonVersion skips detection of the host python3 when set.
	PythonVersion string `mapstructure:"python_version"`
}

// ComposeConfig holds output document configuration.
type ComposeConfig struct {
	File    string `mapstructure:"file"`
	EnvFile string `mapstructure:"env_file"`
	Verify  bool   `mapstructure:"verify"`
}

// ImagesConfig holds image pre-pull configuration.
type ImagesConfig struct {
	Pull       bool   `mapstructure:"pull"`
	DockerHost string `mapstructure:"docker_host"`
	Platform   string `mapstructure:"platform"`
}

// ProjectName returns the configured project, or one derived from the
// output directory.
func (c *Config) ProjectName() string {
	if c.Project != "" {
		return compose.ProjectName(c.Project)
	}
	abs, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return compose.DefaultProjectName
	}
	return compose.ProjectName(filepath.Base(abs))
}

// ServiceSpecs returns the configured services or the default run.
func (c *Config) ServiceSpecs() []service.Spec {
	if len(c.Services) == 0 {
		return service.DefaultSpecs()
	}
	return c.Services
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("output_dir", ".")
	v.SetDefault("project", "")
	v.SetDefault("env_names", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("toolchain.enabled", true)
	v.SetDefault("toolchain.on_failure", "warn")
	v.SetDefault("toolchain.timeout", "5m")
	v.SetDefault("toolchain.python_version", "")
	v.SetDefault("compose.file", "compose.yml")
	v.SetDefault("compose.env_file", ".env.example")
	v.SetDefault("compose.verify", true)
	v.SetDefault("images.pull", false)
	v.SetDefault("images.docker_host", "")
	v.SetDefault("images.platform", "")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("STACKGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
// Logs go to stderr; stdout carries the command's own output.
func SetupLogger(cfg *Config) *slog.Logger {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
