package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/shenikar/incident_reporting/internal/service"
)

// DefaultCacheTTL - срок жизни записи кеша по умолчанию
const DefaultCacheTTL = 5 * time.Minute

// IncidentCache хранит инциденты в Redis в виде JSON
type IncidentCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewIncidentCache(redisClient *redis.Client, ttl time.Duration) service.IncidentCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &IncidentCache{redisClient: redisClient, ttl: ttl}
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

// GetIncident пытается получить инцидент из Redis
func (c *IncidentCache) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := c.redisClient.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncident сохраняет инцидент в Redis
func (c *IncidentCache) SetIncident(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := c.redisClient.Set(ctx, cacheKey(incident.ID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncident удаляет инцидент из Redis кеша
func (c *IncidentCache) InvalidateIncident(ctx context.Context, id uuid.UUID) error {
	if err := c.redisClient.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
