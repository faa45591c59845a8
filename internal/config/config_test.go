package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
    t.Setenv("APP_ENV", "test")
    t.Setenv("APP_PORT", "8080")
    t.Setenv("SESSION_SECRET", "s3cret")
    t.Setenv("SESSION_TTL_MIN", "5")
    t.Setenv("CATALOG_SOURCE", "file")
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://x")

    cfg := Load()
    assert.Equal(t, "8080", cfg.Port)
    assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
    assert.Equal(t, "redis", cfg.SessionStore)
    assert.Equal(t, "amqp://x", cfg.AMQPURL)
    assert.Equal(t, "data/filme.json", cfg.Catalog.Path)
    assert.Equal(t, uint64(1), cfg.Catalog.ScreeningID)
}

func TestLoadCatalogConfig_Postgres(t *testing.T) {
    t.Setenv("CATALOG_SOURCE", "postgres")
    t.Setenv("DATABASE_URL", "postgres://u@h/db")
    t.Setenv("CATALOG_SCREENING_ID", "3")
    c := LoadCatalogConfig()
    assert.Equal(t, "postgres://u@h/db", c.DatabaseURL)
    assert.Equal(t, uint64(3), c.ScreeningID)
}

func TestLoadRateLimitConfig(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")
    c := LoadRateLimitConfig()
    assert.True(t, c.Enabled)
    assert.Equal(t, 1, c.Capacity)
    assert.Equal(t, 2*time.Second, c.RefillInterval)
    assert.Equal(t, 10*time.Second, c.TTL)
    assert.Equal(t, "session_route", c.KeyStrategy)
}

func TestLoadCacheConfig(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head ,")
    t.Setenv("CACHE_ENABLED", "off")
    c := LoadCacheConfig()
    assert.False(t, c.Enabled)
    assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.Methods)
}

func TestEnvBool(t *testing.T) {
    t.Setenv("X_FLAG", "YES")
    assert.True(t, envBool("X_FLAG", false))
    t.Setenv("X_FLAG", "maybe")
    assert.False(t, envBool("X_FLAG", false))
}

func TestLoadRedisConfig(t *testing.T) {
    t.Setenv("REDIS_HOST", "cache")
    t.Setenv("REDIS_PORT", "6380")
    t.Setenv("REDIS_DB", "2")
    c := LoadRedisConfig()
    assert.Equal(t, "cache:6380", c.Addr)
    assert.Equal(t, 2, c.DB)
    assert.Equal(t, "seat-session", c.Prefix)
}
