package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-cfg-structure/internal/log"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"EliminateEmpty", cfg.EliminateEmpty, true},
		{"Indent", cfg.Indent, 4},
		{"Workers", cfg.Workers, 4},
		{"CacheEnabled", cfg.CacheEnabled, true},
		{"CacheDir", cfg.CacheDir, ".gcs/cache"},
		{"CacheSize", cfg.CacheSize, 1024},
		{"LogLevel", cfg.LogLevel, "info"},
		{"JSONOutput", cfg.JSONOutput, false},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}

	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		errContains string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "tab indent", modify: func(c *Config) { c.Indent = 0 }},
		{
			name:        "negative indent",
			modify:      func(c *Config) { c.Indent = -1 },
			errContains: "indent",
		},
		{
			name:        "zero workers",
			modify:      func(c *Config) { c.Workers = 0 },
			errContains: "workers",
		},
		{
			name:        "cache without dir",
			modify:      func(c *Config) { c.CacheDir = "" },
			errContains: "cache_dir",
		},
		{
			name:   "disabled cache without dir",
			modify: func(c *Config) { c.CacheEnabled = false; c.CacheDir = "" },
		},
		{
			name:        "zero cache size",
			modify:      func(c *Config) { c.CacheSize = 0 },
			errContains: "cache_size",
		},
		{
			name:        "bad log level",
			modify:      func(c *Config) { c.LogLevel = "loud" },
			errContains: "log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gcs", "config.yaml")

	cfg := DefaultConfig()
	cfg.Indent = 2
	cfg.Workers = 8
	cfg.CacheEnabled = false
	cfg.LogLevel = "debug"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indent: 0\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Indent)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.EliminateEmpty)
}

func TestLoadFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("indent: [1"), 0644))
	_, err = LoadFromFile(bad)
	assert.ErrorContains(t, err, "failed to parse config file")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("workers: -3\n"), 0644))
	_, err = LoadFromFile(invalid)
	assert.ErrorContains(t, err, "workers")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GCS_ELIMINATE_EMPTY", "false")
	t.Setenv("GCS_INDENT", "8")
	t.Setenv("GCS_WORKERS", "2")
	t.Setenv("GCS_CACHE_ENABLED", "no")
	t.Setenv("GCS_CACHE_DIR", "/tmp/gcs")
	t.Setenv("GCS_CACHE_SIZE", "16")
	t.Setenv("GCS_LOG_LEVEL", "warn")
	t.Setenv("GCS_JSON_OUTPUT", "1")
	t.Setenv("GCS_VERBOSE", "yes")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.False(t, cfg.EliminateEmpty)
	assert.Equal(t, 8, cfg.Indent)
	assert.Equal(t, 2, cfg.Workers)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, "/tmp/gcs", cfg.CacheDir)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.JSONOutput)
	assert.True(t, cfg.Verbose)
}

func TestEnvOverrides_IgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("GCS_WORKERS", "many")
	t.Setenv("GCS_CACHE_SIZE", "-1")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 1024, cfg.CacheSize)
}

func TestLevel(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, log.InfoLevel, cfg.Level())

	cfg.LogLevel = "error"
	assert.Equal(t, log.ErrorLevel, cfg.Level())

	cfg.Verbose = true
	assert.Equal(t, log.DebugLevel, cfg.Level())
}

func TestCacheFile(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(".gcs", "cache", "results.msgpack"), cfg.CacheFile())
}
