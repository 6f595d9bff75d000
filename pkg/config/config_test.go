package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-management-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.Seed.OnStart)
	assert.Equal(t, "postgres://postgres:@localhost:5432/stock_management?sslmode=disable", cfg.DB.ConnectionString())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOW_STOCK_THRESHOLD", "5")
	t.Setenv("SEED_ON_START", "true")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/stock?sslmode=require")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)
	assert.True(t, cfg.Seed.OnStart)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "postgres://u:p@db:5432/stock?sslmode=require", cfg.DB.ConnectionString())
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("driver desconocido", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := config.Load()
		assert.ErrorContains(t, err, "STORAGE_DRIVER")
	})
	t.Run("exportador desconocido", func(t *testing.T) {
		t.Setenv("OTEL_EXPORTER", "jaeger")
		_, err := config.Load()
		assert.ErrorContains(t, err, "OTEL_EXPORTER")
	})
	t.Run("umbral negativo", func(t *testing.T) {
		t.Setenv("LOW_STOCK_THRESHOLD", "-1")
		_, err := config.Load()
		assert.ErrorContains(t, err, "LOW_STOCK_THRESHOLD")
	})
	t.Run("umbral cero", func(t *testing.T) {
		t.Setenv("LOW_STOCK_THRESHOLD", "0")
		_, err := config.Load()
		assert.ErrorContains(t, err, "LOW_STOCK_THRESHOLD")
	})
}
