package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "https://api.goshippo.com", cfg.ShippoBaseURL)
	assert.Equal(t, 20*time.Second, cfg.FreightosTimeout)
	assert.InDelta(t, 1.0, cfg.GeocoderRPS, 1e-9)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10000, cfg.CacheMaxItems)
	assert.False(t, cfg.DBEnabled)
	assert.False(t, cfg.FreightosOAuthEnabled())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHIPPO_API_KEY", "shippo_test_123")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("FREIGHTOS_TIMEOUT", "5s")

	cfg := LoadConfig()
	assert.Equal(t, "shippo_test_123", cfg.ShippoAPIKey)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 5*time.Second, cfg.FreightosTimeout)
}

func TestDSN(t *testing.T) {
	cfg := Config{DBUser: "quotes", DBPass: "secret", DBHost: "db:3306", DBName: "shipquote"}
	assert.Equal(t, "quotes:secret@tcp(db:3306)/shipquote?parseTime=true&loc=UTC", cfg.DSN())
}

func TestFreightosOAuthEnabled(t *testing.T) {
	cfg := Config{FreightosClientID: "id", FreightosClientSecret: "secret", FreightosTokenURL: "https://auth.example/token"}
	assert.True(t, cfg.FreightosOAuthEnabled())
}
