package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	GRPCAddr       string
	RequestTimeout time.Duration

	ShippoAPIKey  string
	ShippoBaseURL string
	ShippoTimeout time.Duration

	FreightosAPIKey       string
	FreightosBaseURL      string
	FreightosTimeout      time.Duration
	FreightosClientID     string
	FreightosClientSecret string
	FreightosTokenURL     string

	GeocoderBaseURL   string
	GeocoderUserAgent string
	GeocoderRPS       float64
	GeocoderTimeout   time.Duration
	PostalBaseURL     string
	PostalTimeout     time.Duration

	CacheBackend  string
	CacheTTL      time.Duration
	CacheMaxItems int
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DBEnabled bool
	DBUser    string
	DBPass    string
	DBHost    string
	DBName    string

	LogLevel       string
	LogDevelopment bool
}

func LoadConfig() Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port:                  v.GetString("server.port"),
		GRPCAddr:              v.GetString("server.grpc_addr"),
		RequestTimeout:        v.GetDuration("server.request_timeout"),
		ShippoAPIKey:          v.GetString("shippo.api_key"),
		ShippoBaseURL:         v.GetString("shippo.base_url"),
		ShippoTimeout:         v.GetDuration("shippo.timeout"),
		FreightosAPIKey:       v.GetString("freightos.api_key"),
		FreightosBaseURL:      v.GetString("freightos.base_url"),
		FreightosTimeout:      v.GetDuration("freightos.timeout"),
		FreightosClientID:     v.GetString("freightos.client_id"),
		FreightosClientSecret: v.GetString("freightos.client_secret"),
		FreightosTokenURL:     v.GetString("freightos.token_url"),
		GeocoderBaseURL:       v.GetString("geocoder.base_url"),
		GeocoderUserAgent:     v.GetString("geocoder.user_agent"),
		GeocoderRPS:           v.GetFloat64("geocoder.rps"),
		GeocoderTimeout:       v.GetDuration("geocoder.timeout"),
		PostalBaseURL:         v.GetString("postal.base_url"),
		PostalTimeout:         v.GetDuration("postal.timeout"),
		CacheBackend:          v.GetString("cache.backend"),
		CacheTTL:              v.GetDuration("cache.ttl"),
		CacheMaxItems:         v.GetInt("cache.max_items"),
		RedisAddr:             v.GetString("redis.addr"),
		RedisPassword:         v.GetString("redis.password"),
		RedisDB:               v.GetInt("redis.db"),
		DBEnabled:             v.GetBool("database.enabled"),
		DBUser:                v.GetString("database.user"),
		DBPass:                v.GetString("database.pass"),
		DBHost:                v.GetString("database.host"),
		DBName:                v.GetString("database.name"),
		LogLevel:              v.GetString("log.level"),
		LogDevelopment:        v.GetBool("log.development"),
	}
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBName,
	)
}

// FreightosOAuthEnabled reports whether client-credential auth is configured.
func (c Config) FreightosOAuthEnabled() bool {
	return c.FreightosClientID != "" && c.FreightosClientSecret != "" && c.FreightosTokenURL != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.grpc_addr", "0.0.0.0:50051")
	v.SetDefault("server.request_timeout", "45s")
	v.SetDefault("shippo.base_url", "https://api.goshippo.com")
	v.SetDefault("shippo.timeout", "20s")
	v.SetDefault("freightos.base_url", "https://ship.freightos.com/api/shippingCalculator")
	v.SetDefault("freightos.timeout", "20s")
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "shipquote/1.0")
	v.SetDefault("geocoder.rps", 1)
	v.SetDefault("geocoder.timeout", "10s")
	v.SetDefault("postal.base_url", "https://api.zippopotam.us")
	v.SetDefault("postal.timeout", "10s")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_items", 10000)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}
