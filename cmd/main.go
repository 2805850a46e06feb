package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/incident_reporting/internal/analytics"
	"github.com/shenikar/incident_reporting/internal/app"
	"github.com/shenikar/incident_reporting/internal/config"
	v1 "github.com/shenikar/incident_reporting/internal/handler/http/v1"
	"github.com/shenikar/incident_reporting/internal/notify"
	"github.com/shenikar/incident_reporting/internal/repository"
	"github.com/shenikar/incident_reporting/internal/service"
	"github.com/shenikar/incident_reporting/pkg/logger"
	redisclient "github.com/shenikar/incident_reporting/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/incident_reporting/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Community Safety Incident API
// @version 1.0
// @description Incident reporting, moderation and analytics API.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключение к хранилищу (миграции применяются для PostgreSQL)
	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open incident store: %v", err)
	}
	defer stores.Close()

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Уведомления: публикация в очередь и воркер доставки
	publisher := notify.NewRedisPublisher(redisClient, cfg.NotifyQueueKey)
	dispatcher := notify.NewAsyncDispatcher(publisher, log, cfg.NotifyPublishTimeout)
	worker := notify.NewWorker(redisClient, stores.Users, app.NewSender(cfg, log), log, app.WorkerConfig(cfg))
	worker.Start(ctx)

	// Инициализация сервисов
	cache := repository.NewIncidentCache(redisClient, cfg.IncidentCacheTTL)
	lifecycle := service.NewLifecycleManager(stores.Incidents, cache, dispatcher, log)
	query := service.NewQueryEngine(stores.Incidents, log)
	incidentService := service.NewIncidentService(stores.Incidents, cache, lifecycle, query, log)
	analyticsService := service.NewAnalyticsService(analytics.NewEngine(stores.Incidents, stores.Users), log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, analyticsService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	// Дожидаемся публикации уже принятых событий
	dispatcher.Wait()
	cancel()

	log.Info("Server gracefully stopped")
}
