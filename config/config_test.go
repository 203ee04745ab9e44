package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"schedulink/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORS.AllowOrigins)
	assert.Zero(t, cfg.Server.RateLimit.RPS)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NotEmpty(t, cfg.Database.DSN)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "schedulink.yaml")
	yaml := `
server:
  port: 9090
  rate_limit:
    rps: 5
    burst: 10
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("SCHEDULINK_SERVER_PORT", "9191")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/slots?sslmode=disable")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.InDelta(t, 5.0, cfg.Server.RateLimit.RPS, 0.0001)
	assert.Equal(t, 10, cfg.Server.RateLimit.Burst)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "postgres://u:p@db:5432/slots?sslmode=disable", cfg.Database.DSN)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := config.Load("does-not-exist.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := config.Config{
		Server:   config.ServerConfig{Port: 8080},
		Database: config.DatabaseConfig{DSN: "postgres://localhost/x"},
	}
	require.NoError(t, valid.Validate())

	noDSN := valid
	noDSN.Database.DSN = ""
	assert.Error(t, noDSN.Validate())

	badPort := valid
	badPort.Server.Port = 70000
	assert.Error(t, badPort.Validate())

	badRate := valid
	badRate.Server.RateLimit.RPS = -1
	assert.Error(t, badRate.Validate())
}
