package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/shenikar/incident_reporting/internal/notify"
	"github.com/sirupsen/logrus"
)

// LifecycleManager - единственный путь изменения статуса инцидента.
// Каждый переход читает текущий статус и записывает новый условным обновлением,
// поэтому из двух конкурирующих переходов проходит только один.
type LifecycleManager struct {
	repo       IncidentRepository
	cache      IncidentCache
	dispatcher notify.Dispatcher
	logger     *logrus.Logger
	now        func() time.Time
}

// NewLifecycleManager создает менеджер жизненного цикла. cache может быть nil.
func NewLifecycleManager(repo IncidentRepository, cache IncidentCache, dispatcher notify.Dispatcher, logger *logrus.Logger) *LifecycleManager {
	return &LifecycleManager{
		repo:       repo,
		cache:      cache,
		dispatcher: dispatcher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit создает инцидент в статусе reported от имени автора
func (m *LifecycleManager) Submit(ctx context.Context, actor models.Actor, draft models.IncidentDraft) (*models.Incident, error) {
	log := m.logger.WithFields(logrus.Fields{
		"service": "lifecycle",
		"method":  "Submit",
		"user_id": actor.UserID,
		"type":    draft.Type,
	})

	incident, err := models.NewIncident(draft, actor.UserID)
	if err != nil {
		log.WithError(err).Warn("Rejected invalid incident report")
		return nil, err
	}

	if err := m.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident reported")
	m.emit(ctx, notify.KindReported, incident)
	return incident, nil
}

// Verify переводит инцидент в verified и очищает причину отклонения
func (m *LifecycleManager) Verify(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error) {
	return m.transition(ctx, actor, id, models.TransitionVerify, "")
}

// Reject переводит инцидент в rejected. Пустая причина заменяется значением по умолчанию.
func (m *LifecycleManager) Reject(ctx context.Context, actor models.Actor, id uuid.UUID, reason string) (*models.Incident, error) {
	return m.transition(ctx, actor, id, models.TransitionReject, reason)
}

// Resolve закрывает подтвержденный инцидент
func (m *LifecycleManager) Resolve(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error) {
	return m.transition(ctx, actor, id, models.TransitionResolve, "")
}

func (m *LifecycleManager) transition(ctx context.Context, actor models.Actor, id uuid.UUID, t models.Transition, reason string) (*models.Incident, error) {
	log := m.logger.WithFields(logrus.Fields{
		"service":     "lifecycle",
		"method":      string(t),
		"incident_id": id,
		"actor_id":    actor.UserID,
	})

	if !actor.Privileged() {
		log.Warn("Transition attempted by non-privileged user")
		return nil, fmt.Errorf("%w: only moderators and admins can %s incidents", models.ErrForbidden, t)
	}

	current, err := m.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to load incident for transition")
		return nil, fmt.Errorf("service: could not %s incident: %w", t, err)
	}

	if err := models.CheckTransition(current.Status, t); err != nil {
		log.WithError(err).Warn("Transition not allowed")
		return nil, err
	}

	patch := m.transitionPatch(current, actor, t, reason)
	expected := current.Status
	updated, err := m.repo.Update(ctx, id, &expected, patch)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			log.WithError(err).Warn("Incident status changed concurrently")
			return nil, fmt.Errorf("service: incident status changed concurrently: %w", err)
		}
		log.WithError(err).Error("Failed to update incident status")
		return nil, fmt.Errorf("service: could not %s incident: %w", t, err)
	}

	m.invalidate(ctx, id)
	log.WithField("status", updated.Status).Info("Incident status changed")
	m.emit(ctx, transitionKind(t), updated)
	return updated, nil
}

func (m *LifecycleManager) transitionPatch(current *models.Incident, actor models.Actor, t models.Transition, reason string) models.IncidentPatch {
	status := t.Target()
	now := m.now()
	patch := models.IncidentPatch{Status: &status}

	switch t {
	case models.TransitionVerify, models.TransitionReject:
		// verifiedAt только растет во времени
		if current.VerifiedAt != nil && now.Before(*current.VerifiedAt) {
			now = *current.VerifiedAt
		}
		verifier := actor.UserID
		patch.VerifiedBy = &verifier
		patch.VerifiedAt = &now
		rejection := ""
		if t == models.TransitionReject {
			rejection = reason
			if rejection == "" {
				rejection = models.DefaultRejectionReason
			}
		}
		patch.RejectionReason = &rejection
	case models.TransitionResolve:
		patch.ResolvedAt = &now
	}
	return patch
}

// UpdateOwned применяет правку автора, пока инцидент не прошел модерацию
func (m *LifecycleManager) UpdateOwned(ctx context.Context, actor models.Actor, id uuid.UUID, patch models.IncidentPatch) (*models.Incident, error) {
	log := m.logger.WithFields(logrus.Fields{
		"service":     "lifecycle",
		"method":      "UpdateOwned",
		"incident_id": id,
		"actor_id":    actor.UserID,
	})

	if _, err := m.loadOwned(ctx, actor, id, "update"); err != nil {
		log.WithError(err).Warn("Update denied")
		return nil, err
	}
	if err := models.ValidateOwnerPatch(&patch); err != nil {
		log.WithError(err).Warn("Invalid incident update")
		return nil, err
	}

	expected := models.StatusReported
	updated, err := m.repo.Update(ctx, id, &expected, patch)
	if err != nil {
		log.WithError(err).Warn("Failed to update incident in repository")
		return nil, fmt.Errorf("service: could not update incident: %w", err)
	}

	m.invalidate(ctx, id)
	log.Info("Incident updated successfully")
	return updated, nil
}

// DeleteOwned удаляет инцидент автора, пока он в статусе reported
func (m *LifecycleManager) DeleteOwned(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	log := m.logger.WithFields(logrus.Fields{
		"service":     "lifecycle",
		"method":      "DeleteOwned",
		"incident_id": id,
		"actor_id":    actor.UserID,
	})

	if _, err := m.loadOwned(ctx, actor, id, "delete"); err != nil {
		log.WithError(err).Warn("Delete denied")
		return err
	}

	if err := m.repo.Delete(ctx, id, models.StatusReported); err != nil {
		log.WithError(err).Warn("Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}

	m.invalidate(ctx, id)
	log.Info("Incident deleted successfully")
	return nil
}

// loadOwned проверяет владельца, затем статус: чужой пользователь всегда получает ErrForbidden
func (m *LifecycleManager) loadOwned(ctx context.Context, actor models.Actor, id uuid.UUID, action string) (*models.Incident, error) {
	current, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not %s incident: %w", action, err)
	}
	if current.ReportedBy != actor.UserID {
		return nil, fmt.Errorf("%w: you can only %s your own incidents", models.ErrForbidden, action)
	}
	if current.Status != models.StatusReported {
		return nil, fmt.Errorf("%w: cannot %s incident that has been %s", models.ErrConflict, action, current.Status)
	}
	return current, nil
}

func (m *LifecycleManager) invalidate(ctx context.Context, id uuid.UUID) {
	if m.cache == nil {
		return
	}
	if err := m.cache.InvalidateIncident(ctx, id); err != nil {
		m.logger.WithError(err).WithField("incident_id", id).Warn("Failed to invalidate incident cache")
	}
}

func (m *LifecycleManager) emit(ctx context.Context, kind notify.Kind, incident *models.Incident) {
	if m.dispatcher == nil {
		return
	}
	m.dispatcher.Dispatch(ctx, notify.NewEvent(kind, incident, m.now()))
}

func transitionKind(t models.Transition) notify.Kind {
	switch t {
	case models.TransitionVerify:
		return notify.KindVerified
	case models.TransitionReject:
		return notify.KindRejected
	default:
		return notify.KindResolved
	}
}
