package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey - ключ списка Redis, используемого как очередь уведомлений
const DefaultQueueKey = "incident_notifications"

// RedisPublisher - реализация Publisher, использующая список Redis
type RedisPublisher struct {
	redisClient *redis.Client
	queueKey    string
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client, queueKey string) *RedisPublisher {
	if queueKey == "" {
		queueKey = DefaultQueueKey
	}
	return &RedisPublisher{
		redisClient: client,
		queueKey:    queueKey,
	}
}

// Publish публикует событие в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	// LPUSH добавляет событие в левую часть списка, воркер забирает справа
	if err := p.redisClient.LPush(ctx, p.queueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification event to Redis: %w", err)
	}
	return nil
}
