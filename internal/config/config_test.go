package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "CATALOG_SOURCE", "CATALOG_PATH", "CATALOG_CACHE", "CATALOG_REDIS", "CATALOG_REDIS_TTL", "CART_EVENTS", "KAFKA_BROKERS", "AUDIT_WORKERS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "file", cfg.CatalogSource)
	assert.Equal(t, "data/automobileParts.json", cfg.CatalogPath)
	assert.True(t, cfg.CatalogCache)
	assert.False(t, cfg.CatalogRedis)
	assert.Zero(t, cfg.CatalogRedisTTL)
	assert.False(t, cfg.CartEvents)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 4, cfg.AuditWorkers)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "Postgres")
	t.Setenv("CATALOG_CACHE", "false")
	t.Setenv("CATALOG_REDIS", "true")
	t.Setenv("CATALOG_REDIS_TTL", "90s")
	t.Setenv("CART_EVENTS", "1")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("AUDIT_WORKERS", "-3")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.CatalogSource)
	assert.False(t, cfg.CatalogCache)
	assert.True(t, cfg.CatalogRedis)
	assert.Equal(t, 90*time.Second, cfg.CatalogRedisTTL)
	assert.True(t, cfg.CartEvents)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 4, cfg.AuditWorkers)
}
