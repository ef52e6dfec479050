package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("APP_PORT", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
http:
  port: "9090"
  read_timeout: 5s
db:
  dsn: "postgres://test@localhost/test"
  max_conns: 10
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout.Std())
	assert.Equal(t, "postgres://test@localhost/test", cfg.DB.DSN)
	assert.EqualValues(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, "debug", cfg.Log.Level)

	// untouched values keep defaults
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout.Std())
	assert.EqualValues(t, 5, cfg.DB.MinConns)
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env@localhost/env")
	t.Setenv("APP_PORT", "7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres://env@localhost/env", cfg.DB.DSN)
	assert.Equal(t, "7070", cfg.HTTP.Port)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  dsn: \"postgres://file@localhost/file\"\n"), 0o600))

	t.Setenv("DATABASE_URL", "postgres://env@localhost/env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env@localhost/env", cfg.DB.DSN)
}
