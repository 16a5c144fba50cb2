package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/pkg/config"
)

func TestNewPoolConfig_AplicaLimites(t *testing.T) {
	cfg := config.DBConfig{MaxConns: 8, StatementTimeoutMs: 2500}

	pc, err := newPoolConfig("postgres://u:p@127.0.0.1:5432/taller?sslmode=disable", cfg)
	require.NoError(t, err)

	assert.EqualValues(t, 8, pc.MaxConns)
	assert.EqualValues(t, 2, pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.Equal(t, "2500", pc.ConnConfig.RuntimeParams["statement_timeout"])
	assert.NotNil(t, pc.AfterConnect)
}

func TestNewPoolConfig_SinTimeout(t *testing.T) {
	pc, err := newPoolConfig("postgres://u:p@127.0.0.1:5432/taller", config.DBConfig{MaxConns: 1})
	require.NoError(t, err)

	assert.EqualValues(t, 1, pc.MinConns)
	_, ok := pc.ConnConfig.RuntimeParams["statement_timeout"]
	assert.False(t, ok)
}

func TestNewPoolConfig_DSNInvalido(t *testing.T) {
	_, err := newPoolConfig("::no-es-un-dsn", config.DBConfig{})
	assert.Error(t, err)
}

func TestDatabaseURLWithIPv4_IPLiteral(t *testing.T) {
	assert.Equal(t, "postgres://u:p@127.0.0.1:6543/db", databaseURLWithIPv4("postgres://u:p@127.0.0.1:6543/db"))
}
