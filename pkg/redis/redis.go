package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options - параметры подключения к Redis
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient создает и возвращает новый клиент Redis.
// ReadTimeout отключен, чтобы блокирующий BRPOP воркера уведомлений не обрывался по таймауту.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  -1,
		WriteTimeout: 3 * time.Second,
	})

	// Проверяем соединение с Redis
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
