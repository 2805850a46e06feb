// Package app собирает зависимости, общие для HTTP-сервера и воркера уведомлений
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shenikar/incident_reporting/internal/analytics"
	"github.com/shenikar/incident_reporting/internal/config"
	"github.com/shenikar/incident_reporting/internal/notify"
	"github.com/shenikar/incident_reporting/internal/repository"
	"github.com/shenikar/incident_reporting/internal/repository/mongostore"
	"github.com/shenikar/incident_reporting/internal/service"
	"github.com/shenikar/incident_reporting/pkg/mongodb"
	"github.com/shenikar/incident_reporting/pkg/postgres"
	"github.com/sirupsen/logrus"
)

// UserDirectory объединяет запросы к каталогу пользователей, нужные аналитике и уведомлениям
type UserDirectory interface {
	analytics.UserDirectory
	notify.UserLookup
}

// Stores - выбранное драйвером хранилище инцидентов и каталог пользователей
type Stores struct {
	Incidents service.IncidentRepository
	Users     UserDirectory
	Close     func()
}

// OpenStores подключается к хранилищу, выбранному STORE_DRIVER
func OpenStores(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, err := mongodb.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		store := mongostore.NewStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info("Successfully connected to MongoDB")
		return &Stores{
			Incidents: store,
			Users:     mongostore.NewUsers(db),
			Close:     func() { _ = client.Disconnect(context.Background()) },
		}, nil
	default:
		if cfg.RunMigrations {
			if err := RunMigrations(cfg, log); err != nil {
				return nil, err
			}
		}
		dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("Successfully connected to PostgreSQL")
		return &Stores{
			Incidents: repository.NewIncidentRepository(dbpool),
			Users:     repository.NewUserRepository(dbpool),
			Close:     dbpool.Close,
		}, nil
	}
}

// RunMigrations применяет SQL-миграции из каталога migrations
func RunMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
		migrationURL = strings.Replace(migrationURL, "postgresql://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// NewSender выбирает SendGrid, если задан ключ, иначе письма только пишутся в лог
func NewSender(cfg *config.Config, log *logrus.Logger) notify.Sender {
	if cfg.SendGridAPIKey == "" {
		log.Warn("SENDGRID_API_KEY is not set, emails will only be logged")
		return notify.NewLogSender(log)
	}
	return notify.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName)
}

// WorkerConfig переносит параметры доставки из конфигурации
func WorkerConfig(cfg *config.Config) notify.WorkerConfig {
	return notify.WorkerConfig{
		QueueKey:   cfg.NotifyQueueKey,
		MaxRetries: cfg.NotifyMaxRetries,
		BaseDelay:  cfg.NotifyBaseDelay,
	}
}
