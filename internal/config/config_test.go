package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "nestogy.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.False(t, cfg.Minio.Enabled())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: 9090
db:
  path: /var/lib/nestogy/engine.db
log:
  level: debug
auth:
  jwt_secret: supersecret
minio:
  endpoint: localhost:9000
  access_key: minio
  secret_key: minio123
  bucket: attachments
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("NESTOGY_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/var/lib/nestogy/engine.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "supersecret", cfg.Auth.JWTSecret)
	require.True(t, cfg.Minio.Enabled())
	require.Equal(t, "attachments", cfg.Minio.Bucket)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))
	t.Setenv("NESTOGY_CONFIG_PATH", path)
	t.Setenv("NESTOGY_SERVER_PORT", "7070")
	t.Setenv("NESTOGY_LOG_LEVEL", "warn")
	t.Setenv("NESTOGY_TRANSPORT_MODE", "stdio")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "stdio", cfg.Transport.Mode)
}

func TestInvalidPort(t *testing.T) {
	t.Setenv("NESTOGY_SERVER_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}
