package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// IncidentRepository определяет контракт хранилища инцидентов
type IncidentRepository interface {
	// Create сохраняет новый инцидент и заполняет ID, CreatedAt, UpdatedAt
	Create(ctx context.Context, incident *models.Incident) error
	// GetByID возвращает models.ErrNotFound, если инцидента нет
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Find(ctx context.Context, filter models.IncidentFilter, sort models.SortSpec, skip, limit int) ([]*models.Incident, error)
	// Count считает все инциденты под фильтром, включая гео-условие
	Count(ctx context.Context, filter models.IncidentFilter) (int64, error)
	// Update применяет патч, только если текущий статус равен expected (если он задан).
	// Возвращает models.ErrConflict при несовпадении статуса и models.ErrNotFound при отсутствии записи.
	Update(ctx context.Context, id uuid.UUID, expected *models.Status, patch models.IncidentPatch) (*models.Incident, error)
	// Delete удаляет запись, только если ее статус равен expected
	Delete(ctx context.Context, id uuid.UUID, expected models.Status) error
	// Snapshots возвращает проекции инцидентов, созданных не раньше since (nil - все)
	Snapshots(ctx context.Context, since *time.Time) ([]models.IncidentSnapshot, error)
}

// IncidentCache - кеш чтения инцидентов по ID. Промах возвращает (nil, nil).
type IncidentCache interface {
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncident(ctx context.Context, incident *models.Incident) error
	InvalidateIncident(ctx context.Context, id uuid.UUID) error
}
