package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"community_safety"`

	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr        string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass        string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	IncidentCacheTTL time.Duration `env:"INCIDENT_CACHE_TTL" envDefault:"5m"`

	// Auth Config
	JWTSecret string `env:"JWT_SECRET"`

	// Notification Config
	NotifyQueueKey       string        `env:"NOTIFY_QUEUE_KEY" envDefault:"incident_notifications"`
	NotifyMaxRetries     int           `env:"NOTIFY_MAX_RETRIES" envDefault:"3"`
	NotifyBaseDelay      time.Duration `env:"NOTIFY_BASE_DELAY" envDefault:"1s"`
	NotifyPublishTimeout time.Duration `env:"NOTIFY_PUBLISH_TIMEOUT" envDefault:"5s"`
	SendGridAPIKey       string        `env:"SENDGRID_API_KEY"`
	MailFrom             string        `env:"MAIL_FROM" envDefault:"no-reply@community-safety.local"`
	MailFromName         string        `env:"MAIL_FROM_NAME" envDefault:"Community Safety Platform"`

	// Query Config
	QueryMaxLimit int `env:"QUERY_MAX_LIMIT" envDefault:"100"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		StoreDriver:          strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RunMigrations:        getEnvAsBool("RUN_MIGRATIONS", true),
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDatabase:        getEnv("MONGO_DATABASE", "community_safety"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		IncidentCacheTTL:     getEnvAsDuration("INCIDENT_CACHE_TTL", 5*time.Minute),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		NotifyQueueKey:       getEnv("NOTIFY_QUEUE_KEY", "incident_notifications"),
		NotifyMaxRetries:     getEnvAsInt("NOTIFY_MAX_RETRIES", 3),
		NotifyBaseDelay:      getEnvAsDuration("NOTIFY_BASE_DELAY", time.Second),
		NotifyPublishTimeout: getEnvAsDuration("NOTIFY_PUBLISH_TIMEOUT", 5*time.Second),
		SendGridAPIKey:       os.Getenv("SENDGRID_API_KEY"),
		MailFrom:             getEnv("MAIL_FROM", "no-reply@community-safety.local"),
		MailFromName:         getEnv("MAIL_FROM_NAME", "Community Safety Platform"),
		QueryMaxLimit:        getEnvAsInt("QUERY_MAX_LIMIT", 100),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI environment variable is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.QueryMaxLimit < 1 {
		c.QueryMaxLimit = 100
	}
	if c.NotifyMaxRetries < 1 {
		c.NotifyMaxRetries = 1
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
