package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, "license.json", cfg.License.File)
	assert.Equal(t, 9100, cfg.Printer.Port)
	assert.False(t, cfg.IsProduction())
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Server.Port)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 4000
environment: production
printer:
  address: 10.0.0.5
  timeout: 2s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "10.0.0.5", cfg.Printer.Address)
	assert.Equal(t, 2*time.Second, cfg.Printer.Timeout)
	// untouched values keep their defaults
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("PRINTER_ADDRESS", "192.168.0.50")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "192.168.0.50", cfg.Printer.Address)
}
