package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kungfu-delivery/config"
	"kungfu-delivery/internal/ai"
	httpapi "kungfu-delivery/internal/api/http"
	"kungfu-delivery/internal/auth"
	"kungfu-delivery/internal/logger"
	"kungfu-delivery/internal/service"
	"kungfu-delivery/internal/storage"

	"github.com/rs/zerolog"
)

const loginsPerMinute = 10

func openStore(cfg *config.Config, log zerolog.Logger) (service.Store, func()) {
	if cfg.StoreDriver == "file" {
		store, err := storage.OpenFileStore(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to open file store")
		}
		log.Info().Str("dir", cfg.DataDir).Msg("using file store")
		return store, func() {}
	}

	db := config.MustInitPostgres(cfg)
	store := storage.NewPostgresStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}
	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("using postgres store")
	return store, func() { db.Close() }
}

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.AppEnv, os.Stdout)

	store, closeStore := openStore(cfg, log)
	defer closeStore()

	var cache service.StatsCache
	if rdb := config.MustInitRedis(cfg); rdb != nil {
		defer rdb.Close()
		cache = storage.NewRedisStatsCache(rdb, cfg.StatsCacheTTL)
	}

	var publisher service.EventPublisher
	if writer := config.NewKafkaWriter(cfg, cfg.OrderEventsTopic); writer != nil {
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	}

	userTokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	adminTokens := auth.NewJWTManager(cfg.AdminJWTSecret, cfg.TokenTTL)
	loc := cfg.Location()

	stats := service.NewStatisticsService(store, cache, loc)
	orders := service.NewOrderService(store, service.DefaultQRGenerator{BaseURL: cfg.QRBaseURL}, publisher, service.PolicyFor(cfg.OrderTransitions)).
		WithStatsCache(cache)
	chat := ai.NewClient(ai.Config{BaseURL: cfg.AIBaseURL, APIKey: cfg.AIAPIKey, Model: cfg.AIModel}, nil)

	handler := httpapi.NewHandler(httpapi.Services{
		Users:      service.NewUserService(store, auth.BcryptHasher{}, userTokens, adminTokens),
		Addresses:  service.NewAddressService(store),
		Catalog:    service.NewCatalogService(store, storage.NewDiskImageStore(cfg.UploadDir)),
		Cart:       service.NewCartService(store, store),
		Orders:     orders,
		Statistics: stats,
		Recommend:  service.NewRecommendService(store, stats, chat, cfg.AITimeout, loc),
	}, userTokens, adminTokens)
	handler.UploadDir = cfg.UploadDir
	handler.Validator = httpapi.NewRequestValidator(cfg.MaxUploadBytes)
	handler.AILimiter = httpapi.PerMinute(cfg.AIRatePerMinute)
	handler.LoginLimiter = httpapi.PerMinute(loginsPerMinute)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("kungfu-delivery api starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
