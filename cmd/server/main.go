package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shipquote/config"
	"shipquote/database"
	"shipquote/geo"
	grpcapi "shipquote/protocol/grpc"
	httpapi "shipquote/protocol/http"
	"shipquote/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.LoadConfig()
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, closeCache := newAddressCache(cfg, logger)
	defer closeCache()

	resolver := geo.NewResolver(
		geo.NewNominatim(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cfg.GeocoderRPS, cfg.GeocoderTimeout),
		geo.NewZippopotam(cfg.PostalBaseURL, cfg.PostalTimeout),
		cache,
		logger.Named("geo"),
	)

	var recorder service.Recorder
	var history httpapi.History
	if cfg.DBEnabled {
		store, err := database.NewStore(cfg, logger)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		defer store.Close()
		recorder, history = store, store
	}

	quotes := service.NewQuoteService(
		service.NewShippoClient(cfg),
		service.NewFreightosClient(cfg),
		resolver,
		recorder,
		logger.Named("quote"),
	)
	providerTimeout := max(cfg.ShippoTimeout, cfg.FreightosTimeout)
	if providerTimeout > 0 {
		quotes.ProviderTimeout = providerTimeout
	}

	app := httpapi.NewApp(quotes, history, logger.Named("http"), cfg.RequestTimeout)
	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpcapi.NewServer(grpcapi.Providers{
		Shippo:    cfg.ShippoAPIKey != "",
		Freightos: cfg.FreightosAPIKey != "" || cfg.FreightosOAuthEnabled(),
	}, logger.Named("grpc"))

	go func() {
		if err := grpcapi.Start(cfg.GRPCAddr, grpcServer); err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()
	go func() {
		logger.Info("HTTP server running", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.Stop()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}

func newAddressCache(cfg config.Config, logger *zap.Logger) (geo.Cache, func()) {
	if cfg.CacheBackend != "redis" {
		return geo.NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxItems), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, address lookups will not be cached", zap.Error(err))
	}
	return geo.NewRedisCache(client, cfg.CacheTTL, logger.Named("cache")), func() { _ = client.Close() }
}
