package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/artpar/stackgen/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Config Loading Tests
// =============================================================================

func TestLoadConfig_DefaultValues(t *testing.T) {
	// Clear environment
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "", cfg.Project)
	assert.Empty(t, cfg.EnvNames)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.Toolchain.Enabled)
	assert.Equal(t, "warn", cfg.Toolchain.OnFailure)
	assert.Equal(t, 5*time.Minute, cfg.Toolchain.Timeout)
	assert.Equal(t, "compose.yml", cfg.Compose.File)
	assert.Equal(t, ".env.example", cfg.Compose.EnvFile)
	assert.True(t, cfg.Compose.Verify)
	assert.False(t, cfg.Images.Pull)
	assert.Empty(t, cfg.Services)
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)

	// Create temp config file
	configContent := `
output_dir: "out"
project: "shop"
env_names: ["dev", "prod"]

log:
  level: "debug"
  format: "json"

toolchain:
  enabled: false
  on_failure: "abort"
  timeout: 90s
  python_version: "3.11"

compose:
  verify: false

images:
  pull: true
  platform: "linux/amd64"

services:
  - kind: nginx
    name: proxy
  - kind: fastapi
    name: api
    port: 9000
    packages: ["sqlalchemy"]
    dependencies:
      - kind: postgres
        name: db
  - kind: vue
    name: web
    depends_on: ["api"]
`
	tmpFile := filepath.Join(t.TempDir(), "stackgen.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(configContent), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "shop", cfg.Project)
	assert.Equal(t, []string{"dev", "prod"}, cfg.EnvNames)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Toolchain.Enabled)
	assert.Equal(t, "abort", cfg.Toolchain.OnFailure)
	assert.Equal(t, 90*time.Second, cfg.Toolchain.Timeout)
	assert.Equal(t, "3.11", cfg.Toolchain.PythonVersion)
	assert.False(t, cfg.Compose.Verify)
	assert.True(t, cfg.Images.Pull)
	assert.Equal(t, "linux/amd64", cfg.Images.Platform)

	require.Len(t, cfg.Services, 3)
	api := cfg.Services[1]
	assert.Equal(t, "fastapi", api.Kind)
	assert.Equal(t, "api", api.Name)
	assert.Equal(t, 9000, api.Port)
	assert.Equal(t, []string{"sqlalchemy"}, api.Packages)
	require.Len(t, api.Dependencies, 1)
	assert.Equal(t, "postgres", api.Dependencies[0].Kind)
	assert.Equal(t, []string{"api"}, cfg.Services[2].DependsOn)
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	clearEnv(t)

	// Set environment variables
	t.Setenv("STACKGEN_OUTPUT_DIR", "/tmp/stack")
	t.Setenv("STACKGEN_PROJECT", "demo")
	t.Setenv("STACKGEN_ENV_NAMES", "dev,staging")
	t.Setenv("STACKGEN_LOG_LEVEL", "warn")
	t.Setenv("STACKGEN_TOOLCHAIN_ENABLED", "false")
	t.Setenv("STACKGEN_TOOLCHAIN_TIMEOUT", "30s")
	t.Setenv("STACKGEN_IMAGES_PULL", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/stack", cfg.OutputDir)
	assert.Equal(t, "demo", cfg.Project)
	assert.Equal(t, []string{"dev", "staging"}, cfg.EnvNames)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Toolchain.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Toolchain.Timeout)
	assert.True(t, cfg.Images.Pull)
}

func TestLoadConfig_FileNotFound_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("/nonexistent/path/stackgen.yaml")
	require.NoError(t, err) // Should not error, just use defaults

	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "compose.yml", cfg.Compose.File)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	clearEnv(t)

	// Create invalid config file
	tmpFile := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("invalid: yaml: content: [[["), 0644))

	_, err := LoadConfig(tmpFile)
	assert.Error(t, err)
}

// =============================================================================
// Derived Values Tests
// =============================================================================

func TestConfig_ProjectName(t *testing.T) {
	cfg := &Config{Project: "My Shop", OutputDir: "."}
	assert.Equal(t, "my-shop", cfg.ProjectName())

	dir := filepath.Join(t.TempDir(), "acme-api")
	cfg = &Config{OutputDir: dir}
	assert.Equal(t, "acme-api", cfg.ProjectName())
}

func TestConfig_ServiceSpecs_DefaultsWhenEmpty(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, service.DefaultSpecs(), cfg.ServiceSpecs())

	cfg.Services = []service.Spec{{Kind: "redis"}}
	assert.Equal(t, cfg.Services, cfg.ServiceSpecs())
}

// =============================================================================
// Logger Setup Tests
// =============================================================================

func TestSetupLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}

	logger := newLogger(cfg, &buf)
	logger.Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.NotNil(t, SetupLogger(cfg))
}

func TestSetupLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}

	logger := newLogger(cfg, &buf)
	logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestSetupLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		warnSeen  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, true},
		{"error", false, false},
		{"invalid", false, true}, // falls back to info
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&Config{Log: LogConfig{Level: tt.level}}, &buf)

			logger.Debug("debug-line")
			logger.Warn("warn-line")

			assert.Equal(t, tt.debugSeen, strings.Contains(buf.String(), "debug-line"))
			assert.Equal(t, tt.warnSeen, strings.Contains(buf.String(), "warn-line"))
		})
	}
}

// =============================================================================
// Test Helpers
// =============================================================================

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"STACKGEN_OUTPUT_DIR",
		"STACKGEN_PROJECT",
		"STACKGEN_ENV_NAMES",
		"STACKGEN_LOG_LEVEL",
		"STACKGEN_LOG_FORMAT",
		"STACKGEN_TOOLCHAIN_ENABLED",
		"STACKGEN_TOOLCHAIN_ON_FAILURE",
		"STACKGEN_TOOLCHAIN_TIMEOUT",
		"STACKGEN_TOOLCHAIN_PYTHON_VERSION",
		"STACKGEN_COMPOSE_FILE",
		"STACKGEN_COMPOSE_VERIFY",
		"STACKGEN_IMAGES_PULL",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}
