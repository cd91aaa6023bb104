package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - LoadConfigFromDir() uses defaults when no config file exists
// - LoadConfigFromDir() loads from .apimesh/config.yml when present
// - LoadConfigFromDir() merges config file with defaults
// - Environment variables override config file values
// - LoadConfigFromDir() returns error for malformed YAML
// - Validate() accepts valid configuration
// - Validate() rejects invalid provider
// - Validate() rejects empty model, host, output file
// - Validate() rejects non-positive worker bound
// - Validate() returns multiple errors for multiple invalid fields

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)

	assert.Contains(t, cfg.Scan.IgnoreDirs, "node_modules")
	assert.Contains(t, cfg.Scan.IgnoreDirs, ".git")
	assert.Equal(t, "swagger.json", cfg.Output.File)
	assert.Equal(t, "http://localhost:3000", cfg.Output.Host)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.NotEmpty(t, cfg.LLM.Model)
	assert.Equal(t, "GEMINI_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, 5, cfg.Workers.Max)

	// Verify default config passes validation
	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := LoadConfigFromDir(tempDir)

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default().Output.Host, cfg.Output.Host)
	assert.Equal(t, Default().Workers.Max, cfg.Workers.Max)
}

func TestLoadConfig_LoadsFromConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".apimesh")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `
output:
  host: https://api.example.com
  file: docs/openapi.json
llm:
  model: gemini-2.5-pro
workers:
  max: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(configContent), 0644))

	cfg, err := LoadConfigFromDir(tempDir)

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.Output.Host)
	assert.Equal(t, "docs/openapi.json", cfg.Output.File)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.Workers.Max)

	// Unset keys keep their defaults
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Contains(t, cfg.Scan.IgnoreDirs, "node_modules")
}

func TestLoadConfig_EnvOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".apimesh")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"),
		[]byte("output:\n  host: https://file.example.com\n"), 0644))

	t.Setenv("APIMESH_OUTPUT_HOST", "https://env.example.com")

	cfg, err := LoadConfigFromDir(tempDir)

	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Output.Host)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".apimesh")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"),
		[]byte("output: [unclosed"), 0644))

	_, err := LoadConfigFromDir(tempDir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("rejects unknown provider", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.LLM.Provider = "openai"
		err := Validate(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidProvider)
	})

	t.Run("rejects empty model", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.LLM.Model = "  "
		assert.ErrorIs(t, Validate(cfg), ErrEmptyModel)
	})

	t.Run("rejects empty host", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Output.Host = ""
		assert.ErrorIs(t, Validate(cfg), ErrEmptyHost)
	})

	t.Run("rejects empty output file", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Output.File = ""
		assert.ErrorIs(t, Validate(cfg), ErrEmptyOutputFile)
	})

	t.Run("rejects non-positive workers", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Workers.Max = 0
		assert.ErrorIs(t, Validate(cfg), ErrInvalidWorkers)
	})

	t.Run("reports multiple errors", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.LLM.Model = ""
		cfg.Output.Host = ""
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})
}
