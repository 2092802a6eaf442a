package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"SERVICE_NAME", "APP_ENV", "SERVER_PORT", "STORE_DRIVER", "JWT_TTL",
		"CATALOG_FEED_URL", "CART_CUMULATIVE_STOCK_CHECK", "KAFKA_BROKERS", "ES_URL", "ES_INDEX",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "storefront", cfg.ServiceName)
	assert.Equal(t, EnvProduction, cfg.AppEnv)
	assert.False(t, cfg.Development())
	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "https://dummyjson.com/products", cfg.CatalogFeedURL)
	assert.True(t, cfg.CumulativeStockCheck)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.ESURL)
	assert.Equal(t, "products", cfg.ESIndex)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "Development")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CART_CUMULATIVE_STOCK_CHECK", "false")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")

	cfg := Load()
	assert.True(t, cfg.Development())
	assert.Equal(t, 8081, cfg.ServerPort)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.CumulativeStockCheck)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "-5m")

	assert.Equal(t, 7, EnvIntDefault("X_INT", 7))
	assert.True(t, EnvBoolDefault("X_BOOL", true))
	assert.Equal(t, time.Minute, EnvDurationDefault("X_DUR", time.Minute))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STOREFRONT_TEST_KEY=from-file\n"), 0o600))
	t.Setenv("STOREFRONT_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("STOREFRONT_TEST_KEY"))

	LoadEnvFile(path)
	assert.Equal(t, "from-file", os.Getenv("STOREFRONT_TEST_KEY"))

	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}
