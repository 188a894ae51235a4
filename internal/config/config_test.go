package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartconv/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, int64(16), cfg.Files.MaxUploadMB)
	assert.Equal(t, int64(16*1024*1024), cfg.Files.MaxUploadBytes())
	assert.Equal(t, "static/uploads", cfg.Files.UploadDir)
	assert.Equal(t, "static/processed", cfg.Files.ProcessedDir)
	assert.Equal(t, 60*time.Second, cfg.Tools.Timeout())
	assert.Equal(t, []string{"ghostscript", "rasterize"}, cfg.Compress.StrategyNames())
	assert.Equal(t, 200, cfg.PDF.ImageDPI)
	assert.Equal(t, "none", cfg.Storage.Provider)
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, time.Hour, cfg.Download.Expiry)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SMARTCONV_DB_DRIVER", "sqlite3")
	t.Setenv("SMARTCONV_DB_SQLITE_PATH", "/tmp/ledger.db")
	t.Setenv("SMARTCONV_COMPRESS_STRATEGIES", " optimize , ghostscript,, ")
	t.Setenv("SMARTCONV_STORAGE_PROVIDER", "gcs")
	t.Setenv("SMARTCONV_TOOLS_TIMEOUT_SECS", "5")
	t.Setenv("SMARTCONV_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ledger.db", cfg.DB.DSN())
	assert.Equal(t, "sqlite3:///tmp/ledger.db", cfg.DB.MigrateURL())
	assert.Equal(t, []string{"optimize", "ghostscript"}, cfg.Compress.StrategyNames())
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Tools.Timeout())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Port)
}

func TestDBConfig_PostgresDSN(t *testing.T) {
	d := config.DBConfig{
		Driver: "pgx", User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", d.DSN())
	assert.Equal(t, d.DSN(), d.MigrateURL())
}

func TestToolsConfig_TimeoutFallback(t *testing.T) {
	tc := config.ToolsConfig{TimeoutSecs: 0}
	assert.Equal(t, 60*time.Second, tc.Timeout())
}
