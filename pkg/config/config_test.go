package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 48, cfg.Report.SLATargetHours)
	assert.Equal(t, 72, cfg.Report.OverdueHours)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, "/inventario/repuestos/", cfg.Inventory.LowStockURL)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("REPORT_SLA_TARGET_HOURS", "24")
	t.Setenv("DB_STATEMENT_TIMEOUT_MS", "1500")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.Report.SLATargetHours)
	assert.Equal(t, 1500*time.Millisecond, cfg.DB.StatementTimeout())
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_SLAInvalido(t *testing.T) {
	t.Setenv("REPORT_SLA_TARGET_HOURS", "0")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_SLA_TARGET_HOURS")
}

func TestLoad_ProductionExigeSecreto(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "taller", Password: "p@ss:word", DBName: "taller", SSLMode: "disable"}
	assert.Equal(t, "postgres://taller:p%40ss%3Aword@db:5432/taller?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://x@y/z"
	assert.Equal(t, "postgresql://x@y/z", c.ConnectionString())
}
