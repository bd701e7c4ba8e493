package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drb-alger/gestion-magasin/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "magasin.db", cfg.DB.Path)
	assert.Equal(t, 2000, cfg.History.DefaultLimit)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Empty(t, cfg.Catalog.Recipients)
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CATALOG_RECIPIENTS", "Bureau Suivi,Autres")
	t.Setenv("HISTORY_DEFAULT_LIMIT", "1500")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, []string{"Bureau Suivi", "Autres"}, cfg.Catalog.Recipients)
	assert.Equal(t, 1500, cfg.History.DefaultLimit)
}

func TestLoad_DriverInvalido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "mysql")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "mag", Password: "p@ss:w/rd", DBName: "magasin", SSLMode: "disable"}
	assert.Equal(t, "postgres://mag:p%40ss%3Aw%2Frd@db:5432/magasin?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
