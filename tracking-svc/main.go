package main

import (
	"context"

	"zestify-storefront/config"
	"zestify-storefront/pkg/logger"
	"zestify-storefront/pkg/shutdown"
	"zestify-storefront/tracking-svc/internal/service"
	"zestify-storefront/tracking-svc/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "tracking-svc", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg, cfg.OrderStatusTopic, "tracking-svc-consumer")
	defer reader.Close()

	log.Info().Str("topic", cfg.OrderStatusTopic).Str("broker", cfg.KafkaBroker).Msg("tracking service starting")
	service.NewConsumer(reader, storage.NewStore(rdb, storage.DefaultStatusTTL), log).Start(ctx)
}
