package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.test.yaml")
	yamlBody := `
env: production
server:
  port: 9000
database:
  driver: mysql
  host: db.internal
  user: news
  password: pw
  dbname: newsroom
jwt:
  secret: from-file
  expires_in: 10m
llm:
  provider: anthropic
  model: claude-test
scheduler:
  enabled: true
  interval: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("LLM_API_KEY", "secret-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 10*time.Minute, cfg.JWT.ExpiresIn)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshIn)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "secret-key", cfg.LLM.APIKey)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Interval)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gpt-4", cfg.LLM.Model)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.NotEmpty(t, cfg.JWT.Secret)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := Load("")
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 3306, User: "u", Password: "p", DBName: "n"}
	dsn := d.GetDSN()
	assert.Contains(t, dsn, "u:p@tcp(h:3306)/n")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
