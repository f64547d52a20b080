package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load()
	require.Error(t, err, "driver desconocido")
	assert.Nil(t, cfg)

	t.Setenv("STORE_DRIVER", "Memory")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestValidate_ProductionRequiereSecret(t *testing.T) {
	cfg := &Config{
		App:   AppConfig{Env: "production"},
		Store: StoreConfig{Driver: StoreDriverPostgres},
		JWT:   JWTConfig{Expiration: 60},
	}
	assert.Error(t, cfg.Validate())
	cfg.JWT.Secret = "s3cr3t"
	assert.NoError(t, cfg.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/stock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
