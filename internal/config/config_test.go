package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/schemalab/internal/logging"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := `server:
  port: 9090
  allow_origins:
    - http://localhost:5173
  shutdown_timeout: 2s
log:
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o644))
	t.Setenv("SCHEMALAB_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 0\n"), 0o644))
	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalidPort)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [\n"), 0o644))
	_, err = Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, ErrInvalidPort},
		{"zero timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, ErrInvalidTimeout},
		{"no origins", func(c *Config) { c.Server.AllowOrigins = nil }, ErrNoOrigins},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, logging.ErrInvalidLevel},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, logging.ErrInvalidFormat},
		{"bad timezone", func(c *Config) { c.Store.Timezone = "Mars/Olympus" }, ErrInvalidTimezone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestWriteDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	created, err := WriteDefault(dir)
	require.NoError(t, err)
	assert.True(t, created)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	created, err = WriteDefault(dir)
	require.NoError(t, err)
	assert.False(t, created)
}
