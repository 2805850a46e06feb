package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/shenikar/incident_reporting/internal/app"
	"github.com/shenikar/incident_reporting/internal/config"
	"github.com/shenikar/incident_reporting/internal/notify"
	"github.com/shenikar/incident_reporting/pkg/logger"
	redisclient "github.com/shenikar/incident_reporting/pkg/redis"
	"github.com/sirupsen/logrus"
)

// Отдельный процесс доставки уведомлений, читает ту же очередь Redis, что и воркер сервера
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Миграции применяет HTTP-сервер
	cfg.RunMigrations = false
	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open user directory: %v", err)
	}
	defer stores.Close()

	redisClient, err := redisclient.NewRedisClient(ctx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	worker := notify.NewWorker(redisClient, stores.Users, app.NewSender(cfg, log), log, app.WorkerConfig(cfg))
	worker.Run(ctx)
}
