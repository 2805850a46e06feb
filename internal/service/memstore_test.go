package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
)

// memStore - хранилище в памяти с условным обновлением по статусу
type memStore struct {
	mu        sync.Mutex
	incidents map[uuid.UUID]models.Incident
}

func newMemStore(incidents ...*models.Incident) *memStore {
	s := &memStore{incidents: make(map[uuid.UUID]models.Incident)}
	for _, in := range incidents {
		s.incidents[in.ID] = *in
	}
	return s
}

func (s *memStore) Create(_ context.Context, incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	now := time.Now().UTC()
	incident.CreatedAt, incident.UpdatedAt = now, now
	s.incidents[incident.ID] = *incident
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.incidents[id]
	if !ok {
		return nil, fmt.Errorf("%w: incident %s", models.ErrNotFound, id)
	}
	return &in, nil
}

func (s *memStore) matching(filter models.IncidentFilter) []*models.Incident {
	out := make([]*models.Incident, 0)
	for _, in := range s.incidents {
		in := in
		if filter.Matches(&in) {
			out = append(out, &in)
		}
	}
	return out
}

func (s *memStore) Find(_ context.Context, filter models.IncidentFilter, spec models.SortSpec, skip, limit int) ([]*models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.matching(filter)
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var less, greater bool
		switch spec.Field {
		case models.SortDistance:
			da, db := filter.Geo.DistanceKm(a.Location), filter.Geo.DistanceKm(b.Location)
			less, greater = da < db, da > db
		case models.SortType:
			less, greater = a.Type < b.Type, a.Type > b.Type
		case models.SortStatus:
			less, greater = a.Status < b.Status, a.Status > b.Status
		case models.SortUpdatedAt:
			less, greater = a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.After(b.UpdatedAt)
		default:
			less, greater = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.After(b.CreatedAt)
		}
		if less || greater {
			if spec.Desc {
				return greater
			}
			return less
		}
		return a.ID.String() < b.ID.String()
	})
	if skip >= len(items) {
		return []*models.Incident{}, nil
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end], nil
}

func (s *memStore) Count(_ context.Context, filter models.IncidentFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.matching(filter))), nil
}

func (s *memStore) Update(_ context.Context, id uuid.UUID, expected *models.Status, patch models.IncidentPatch) (*models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.incidents[id]
	if !ok {
		return nil, fmt.Errorf("%w: incident %s", models.ErrNotFound, id)
	}
	if expected != nil && in.Status != *expected {
		return nil, fmt.Errorf("%w: incident status is %s", models.ErrConflict, in.Status)
	}
	updated := patch.Apply(in)
	updated.UpdatedAt = time.Now().UTC()
	s.incidents[id] = updated
	return &updated, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID, expected models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.incidents[id]
	if !ok {
		return fmt.Errorf("%w: incident %s", models.ErrNotFound, id)
	}
	if in.Status != expected {
		return fmt.Errorf("%w: incident status is %s", models.ErrConflict, in.Status)
	}
	delete(s.incidents, id)
	return nil
}

func (s *memStore) Snapshots(_ context.Context, since *time.Time) ([]models.IncidentSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.IncidentSnapshot, 0, len(s.incidents))
	for _, in := range s.incidents {
		if since != nil && in.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, models.IncidentSnapshot{
			ID:         in.ID,
			Type:       in.Type,
			Status:     in.Status,
			ReportedBy: in.ReportedBy,
			CreatedAt:  in.CreatedAt,
			VerifiedAt: in.VerifiedAt,
			ResolvedAt: in.ResolvedAt,
		})
	}
	return out, nil
}

// barrierStore задерживает чтение, пока его не выполнят все участники,
// так что конкурирующие переходы видят один и тот же статус
type barrierStore struct {
	*memStore
	reads sync.WaitGroup
}

func newBarrierStore(parties int, incidents ...*models.Incident) *barrierStore {
	s := &barrierStore{memStore: newMemStore(incidents...)}
	s.reads.Add(parties)
	return s
}

func (s *barrierStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	in, err := s.memStore.GetByID(ctx, id)
	s.reads.Done()
	s.reads.Wait()
	return in, err
}
