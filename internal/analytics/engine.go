package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
)

// Source - доступ к инцидентам только на чтение
type Source interface {
	Snapshots(ctx context.Context, since *time.Time) ([]models.IncidentSnapshot, error)
	Find(ctx context.Context, filter models.IncidentFilter, sort models.SortSpec, skip, limit int) ([]*models.Incident, error)
}

// UserDirectory - справочник пользователей внешней системы
type UserDirectory interface {
	GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
	RecentUsers(ctx context.Context, limit int) ([]models.User, error)
	CountUsers(ctx context.Context) (models.UserCounts, error)
}

// Engine выполняет отчеты поверх хранилища. Состояния между вызовами не хранит.
type Engine struct {
	source Source
	users  UserDirectory
	now    func() time.Time
}

func NewEngine(source Source, users UserDirectory) *Engine {
	return &Engine{
		source: source,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) Overall(ctx context.Context) (Overall, error) {
	snaps, err := e.source.Snapshots(ctx, nil)
	if err != nil {
		return Overall{}, fmt.Errorf("analytics: could not load incidents: %w", err)
	}
	o := ComputeOverall(snaps, e.now())

	counts, err := e.users.CountUsers(ctx)
	if err != nil {
		return Overall{}, fmt.Errorf("analytics: could not count users: %w", err)
	}
	o.TotalUsers, o.ActiveUsers = counts.Total, counts.Active
	return o, nil
}

func (e *Engine) ByType(ctx context.Context) ([]TypeStat, error) {
	snaps, err := e.source.Snapshots(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("analytics: could not load incidents: %w", err)
	}
	return ComputeByType(snaps), nil
}

func (e *Engine) ByStatus(ctx context.Context) ([]StatusStat, error) {
	snaps, err := e.source.Snapshots(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("analytics: could not load incidents: %w", err)
	}
	return ComputeByStatus(snaps), nil
}

// OverTime загружает только инциденты из окна days
func (e *Engine) OverTime(ctx context.Context, period Period, days int) ([]Bucket, error) {
	if days < 1 {
		days = DefaultDays
	}
	now := e.now()
	since := now.AddDate(0, 0, -days)

	snaps, err := e.source.Snapshots(ctx, &since)
	if err != nil {
		return nil, fmt.Errorf("analytics: could not load incidents: %w", err)
	}
	return ComputeOverTime(snaps, period, days, now), nil
}

func (e *Engine) TopReporters(ctx context.Context, limit int) ([]Reporter, error) {
	snaps, err := e.source.Snapshots(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("analytics: could not load incidents: %w", err)
	}

	ranked := RankReporters(snaps, limit)
	if len(ranked) == 0 {
		return []Reporter{}, nil
	}
	ids := make([]uuid.UUID, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.UserID)
	}
	users, err := e.users.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("analytics: could not load reporters: %w", err)
	}
	return ResolveReporters(ranked, users), nil
}

// RecentActivity возвращает последние обновленные инциденты с авторами и модераторами
// и последних зарегистрированных пользователей
func (e *Engine) RecentActivity(ctx context.Context, limit int) (RecentActivity, error) {
	limit = clampLimit(limit)

	incidents, err := e.source.Find(ctx, models.IncidentFilter{},
		models.SortSpec{Field: models.SortUpdatedAt, Desc: true}, 0, limit)
	if err != nil {
		return RecentActivity{}, fmt.Errorf("analytics: could not load recent incidents: %w", err)
	}

	ids := make([]uuid.UUID, 0, 2*len(incidents))
	for _, in := range incidents {
		ids = append(ids, in.ReportedBy)
		if in.VerifiedBy != nil {
			ids = append(ids, *in.VerifiedBy)
		}
	}
	users := map[uuid.UUID]models.User{}
	if len(ids) > 0 {
		if users, err = e.users.GetUsers(ctx, ids); err != nil {
			return RecentActivity{}, fmt.Errorf("analytics: could not load users: %w", err)
		}
	}

	out := RecentActivity{Incidents: make([]RecentIncident, 0, len(incidents))}
	for _, in := range incidents {
		ri := RecentIncident{Incident: in}
		if u, ok := users[in.ReportedBy]; ok {
			ri.Reporter = userRef(u)
		}
		if in.VerifiedBy != nil {
			if u, ok := users[*in.VerifiedBy]; ok {
				ri.Verifier = userRef(u)
			}
		}
		out.Incidents = append(out.Incidents, ri)
	}

	if out.Users, err = e.users.RecentUsers(ctx, limit); err != nil {
		return RecentActivity{}, fmt.Errorf("analytics: could not load recent users: %w", err)
	}
	if out.Users == nil {
		out.Users = []models.User{}
	}
	return out, nil
}

func (e *Engine) Verification(ctx context.Context) (Verification, error) {
	snaps, err := e.source.Snapshots(ctx, nil)
	if err != nil {
		return Verification{}, fmt.Errorf("analytics: could not load incidents: %w", err)
	}
	return ComputeVerification(snaps), nil
}
