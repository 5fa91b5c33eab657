package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kungfu-delivery/config"
	"kungfu-delivery/internal/aggregator"
	"kungfu-delivery/internal/logger"
	"kungfu-delivery/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.AppEnv, os.Stdout).With().Str("component", "stats-agg").Logger()

	if cfg.KafkaBroker == "" || cfg.RedisHost == "" {
		log.Fatal().Msg("KAFKA_BROKER and REDIS_HOST are required")
	}

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg, cfg.OrderEventsTopic, cfg.AggGroupID)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := aggregator.NewConsumer(reader, storage.NewRedisStatsCache(rdb, cfg.StatsCacheTTL), log)
	consumer.Start(ctx)
}
