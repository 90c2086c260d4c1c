package healthcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/l3aro/go-cfg-structure/internal/config"
	"github.com/l3aro/go-cfg-structure/pkg/cache"
)

// ComponentStatus represents the health of one part of the setup.
type ComponentStatus struct {
	Path   string
	Status string // "ready", "empty", "disabled", "error"
	Detail string
	Error  string
}

// HealthCheckResult contains the full health check output for display.
type HealthCheckResult struct {
	SavedPath      string
	SavedScope     string // "global" or "project"
	EffectivePath  string
	EffectiveScope string // "global" or "project"
	Config         ComponentStatus
	Cache          ComponentStatus
}

// Failed reports whether any component is in error.
func (r *HealthCheckResult) Failed() bool {
	return r.Config.Status == "error" || r.Cache.Status == "error"
}

// Check performs a health check against the given config.
// savedPath is where the user saved config (may be empty outside init).
// effectivePath is the config file actually in use (considering priority).
func Check(cfg *config.Config, savedPath string, effectivePath string) (*HealthCheckResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	result := &HealthCheckResult{
		SavedPath:      savedPath,
		SavedScope:     scopeFromPath(savedPath),
		EffectivePath:  effectivePath,
		EffectiveScope: scopeFromPath(effectivePath),
	}

	result.Config = checkConfig(cfg, effectivePath)
	result.Cache = checkCache(cfg)

	return result, nil
}

// scopeFromPath determines "global" or "project" scope from a config file path.
// Returns empty string if path is empty.
func scopeFromPath(path string) string {
	if path == "" {
		return ""
	}

	home, err := os.UserHomeDir()
	if err == nil {
		globalDir := filepath.Join(home, ".gcs")
		if strings.HasPrefix(path, globalDir) {
			return "global"
		}
	}

	return "project"
}

// checkConfig validates the effective settings.
func checkConfig(cfg *config.Config, path string) ComponentStatus {
	status := ComponentStatus{
		Path:   path,
		Detail: fmt.Sprintf("workers=%d indent=%d eliminate_empty=%t log_level=%s", cfg.Workers, cfg.Indent, cfg.EliminateEmpty, cfg.LogLevel),
	}

	if err := cfg.Validate(); err != nil {
		status.Status = "error"
		status.Error = err.Error()
		return status
	}

	status.Status = "ready"
	return status
}

// checkCache verifies the cache directory is writable and the persisted
// cache file, if any, decodes.
func checkCache(cfg *config.Config) ComponentStatus {
	status := ComponentStatus{Path: cfg.CacheFile()}

	if !cfg.CacheEnabled {
		status.Status = "disabled"
		return status
	}

	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		status.Status = "error"
		status.Error = fmt.Sprintf("cannot create cache directory: %v", err)
		return status
	}

	probe, err := os.CreateTemp(cfg.CacheDir, ".probe-*")
	if err != nil {
		status.Status = "error"
		status.Error = fmt.Sprintf("cache directory is not writable: %v", err)
		return status
	}
	probe.Close()
	os.Remove(probe.Name())

	if _, err := os.Stat(status.Path); os.IsNotExist(err) {
		status.Status = "empty"
		return status
	}

	c := cache.New(cache.Options{MaxSize: cfg.CacheSize})
	if err := cache.LoadFromFile(c, status.Path); err != nil {
		status.Status = "error"
		status.Error = err.Error()
		return status
	}

	status.Status = "ready"
	status.Detail = fmt.Sprintf("%d cached functions", c.Len())
	return status
}
