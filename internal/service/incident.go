package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=incident.go -destination=mocks/mock_service.go -package=mocks

// IncidentService определяет контракт бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, actor models.Actor, draft models.IncidentDraft) (*models.Incident, error)
	GetIncident(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error)
	ListPublic(ctx context.Context, q models.ListQuery) (*models.IncidentPage, error)
	ListMine(ctx context.Context, actor models.Actor, q models.ListQuery) (*models.IncidentPage, error)
	ListAll(ctx context.Context, actor models.Actor, q models.ListQuery) (*models.IncidentPage, error)
	UpdateIncident(ctx context.Context, actor models.Actor, id uuid.UUID, patch models.IncidentPatch) (*models.Incident, error)
	DeleteIncident(ctx context.Context, actor models.Actor, id uuid.UUID) error
	VerifyIncident(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error)
	RejectIncident(ctx context.Context, actor models.Actor, id uuid.UUID, reason string) (*models.Incident, error)
	ResolveIncident(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error)
}

type incidentService struct {
	repo      IncidentRepository
	cache     IncidentCache
	lifecycle *LifecycleManager
	query     *QueryEngine
	logger    *logrus.Logger
}

// NewIncidentService собирает сервис из менеджера жизненного цикла и движка выборок. cache может быть nil.
func NewIncidentService(repo IncidentRepository, cache IncidentCache, lifecycle *LifecycleManager, query *QueryEngine, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:      repo,
		cache:     cache,
		lifecycle: lifecycle,
		query:     query,
		logger:    logger,
	}
}

// CreateIncident создает инцидент от имени пользователя
func (s *incidentService) CreateIncident(ctx context.Context, actor models.Actor, draft models.IncidentDraft) (*models.Incident, error) {
	return s.lifecycle.Submit(ctx, actor, draft)
}

// GetIncident получает инцидент по ID. Неподтвержденные инциденты видны только автору и модераторам.
func (s *incidentService) GetIncident(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	incident := s.fromCache(ctx, log, id)
	if incident == nil {
		var err error
		incident, err = s.repo.GetByID(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Failed to get incident in repository")
			return nil, fmt.Errorf("service: could not get incident: %w", err)
		}
		incident = s.fill(ctx, log, incident)
	}

	owner := actor.UserID != uuid.Nil && incident.ReportedBy == actor.UserID
	switch {
	case owner || actor.Privileged():
		return incident, nil
	case incident.Status == models.StatusVerified:
		public := *incident
		redact(&public)
		return &public, nil
	default:
		log.Warn("Access to unverified incident denied")
		return nil, fmt.Errorf("%w: incident is not publicly visible", models.ErrForbidden)
	}
}

func (s *incidentService) fromCache(ctx context.Context, log *logrus.Entry, id uuid.UUID) *models.Incident {
	if s.cache == nil {
		return nil
	}
	incident, err := s.cache.GetIncident(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
		return nil
	}
	return incident
}

// fill кладет запись в кеш и сверяет ее с хранилищем. Если запись успела измениться
// или исчезнуть, кеш сбрасывается: переход, завершившийся между чтением и записью в кеш,
// уже выполнил свою инвалидацию.
func (s *incidentService) fill(ctx context.Context, log *logrus.Entry, incident *models.Incident) *models.Incident {
	if s.cache == nil {
		return incident
	}
	if err := s.cache.SetIncident(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to write incident to cache")
		return incident
	}

	current, err := s.repo.GetByID(ctx, incident.ID)
	if err == nil && current.Status == incident.Status && current.UpdatedAt.Equal(incident.UpdatedAt) {
		return incident
	}
	if invErr := s.cache.InvalidateIncident(ctx, incident.ID); invErr != nil {
		log.WithError(invErr).Warn("Failed to drop stale incident from cache")
	}
	if err != nil {
		return incident
	}
	log.WithField("status", current.Status).Debug("Incident changed while filling cache")
	return current
}

// ListPublic возвращает подтвержденные инциденты
func (s *incidentService) ListPublic(ctx context.Context, q models.ListQuery) (*models.IncidentPage, error) {
	return s.query.List(ctx, models.Actor{}, VisibilityPublic, q)
}

// ListMine возвращает инциденты текущего пользователя
func (s *incidentService) ListMine(ctx context.Context, actor models.Actor, q models.ListQuery) (*models.IncidentPage, error) {
	return s.query.List(ctx, actor, VisibilityOwner, q)
}

// ListAll возвращает инциденты с любыми фильтрами, только для модераторов
func (s *incidentService) ListAll(ctx context.Context, actor models.Actor, q models.ListQuery) (*models.IncidentPage, error) {
	return s.query.List(ctx, actor, VisibilityPrivileged, q)
}

// UpdateIncident обновляет инцидент автора до начала модерации
func (s *incidentService) UpdateIncident(ctx context.Context, actor models.Actor, id uuid.UUID, patch models.IncidentPatch) (*models.Incident, error) {
	return s.lifecycle.UpdateOwned(ctx, actor, id, patch)
}

// DeleteIncident удаляет инцидент автора до начала модерации
func (s *incidentService) DeleteIncident(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	return s.lifecycle.DeleteOwned(ctx, actor, id)
}

func (s *incidentService) VerifyIncident(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error) {
	return s.lifecycle.Verify(ctx, actor, id)
}

func (s *incidentService) RejectIncident(ctx context.Context, actor models.Actor, id uuid.UUID, reason string) (*models.Incident, error) {
	return s.lifecycle.Reject(ctx, actor, id, reason)
}

func (s *incidentService) ResolveIncident(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error) {
	return s.lifecycle.Resolve(ctx, actor, id)
}
