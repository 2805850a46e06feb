package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/shenikar/incident_reporting/internal/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	incidentsCollection = "incidents"
	usersCollection     = "users"
)

// Store - хранилище инцидентов в MongoDB
type Store struct {
	incidents *mongo.Collection
	now       func() time.Time
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		incidents: db.Collection(incidentsCollection),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ service.IncidentRepository = (*Store)(nil)

func infraErr(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, models.ErrInfrastructure, err)
}

// incidentIndexes - гео-индекс и индексы под типовые фильтры
func incidentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "reportedBy", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.incidents.Indexes().CreateMany(ctx, incidentIndexes())
	if err != nil {
		return infraErr("create incident indexes", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, incident *models.Incident) error {
	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	now := s.now()
	incident.CreatedAt, incident.UpdatedAt = now, now
	if _, err := s.incidents.InsertOne(ctx, toDoc(incident)); err != nil {
		return infraErr("create incident", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	var doc incidentDoc
	err := s.incidents.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: incident %s", models.ErrNotFound, id)
		}
		return nil, infraErr("get incident by id", err)
	}
	in, err := doc.toModel()
	if err != nil {
		return nil, infraErr("decode incident", err)
	}
	return in, nil
}

// Find с гео-фильтром выполняет агрегацию $geoNear, иначе обычный поиск с сортировкой
func (s *Store) Find(ctx context.Context, filter models.IncidentFilter, sort models.SortSpec, skip, limit int) ([]*models.Incident, error) {
	var (
		cursor *mongo.Cursor
		err    error
	)
	if filter.Geo != nil {
		cursor, err = s.incidents.Aggregate(ctx, mongo.Pipeline{
			geoNearStage(filter.Geo, buildFilter(filter)),
			{{Key: "$sort", Value: buildSort(sort, true)}},
			{{Key: "$skip", Value: int64(skip)}},
			{{Key: "$limit", Value: int64(limit)}},
		})
	} else {
		opts := options.Find().SetSort(buildSort(sort, false)).SetSkip(int64(skip)).SetLimit(int64(limit))
		cursor, err = s.incidents.Find(ctx, buildFilter(filter), opts)
	}
	if err != nil {
		return nil, infraErr("find incidents", err)
	}
	defer cursor.Close(ctx)

	var docs []incidentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, infraErr("decode incidents", err)
	}
	incidents := make([]*models.Incident, 0, len(docs))
	for _, doc := range docs {
		in, err := doc.toModel()
		if err != nil {
			return nil, infraErr("decode incident", err)
		}
		incidents = append(incidents, in)
	}
	return incidents, nil
}

// Count с гео-фильтром проходит ту же стадию $geoNear, что и Find
func (s *Store) Count(ctx context.Context, filter models.IncidentFilter) (int64, error) {
	if filter.Geo == nil {
		total, err := s.incidents.CountDocuments(ctx, buildFilter(filter))
		if err != nil {
			return 0, infraErr("count incidents", err)
		}
		return total, nil
	}

	cursor, err := s.incidents.Aggregate(ctx, mongo.Pipeline{
		geoNearStage(filter.Geo, buildFilter(filter)),
		{{Key: "$count", Value: "total"}},
	})
	if err != nil {
		return 0, infraErr("count incidents", err)
	}
	defer cursor.Close(ctx)

	var res []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &res); err != nil {
		return 0, infraErr("decode incident count", err)
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0].Total, nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, expected *models.Status, patch models.IncidentPatch) (*models.Incident, error) {
	q := bson.M{"_id": id.String()}
	if expected != nil {
		q["status"] = string(*expected)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc incidentDoc
	err := s.incidents.FindOneAndUpdate(ctx, q, buildUpdate(patch, s.now()), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.missOrConflict(ctx, id)
		}
		return nil, infraErr("update incident", err)
	}
	in, err := doc.toModel()
	if err != nil {
		return nil, infraErr("decode incident", err)
	}
	return in, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID, expected models.Status) error {
	res, err := s.incidents.DeleteOne(ctx, bson.M{"_id": id.String(), "status": string(expected)})
	if err != nil {
		return infraErr("delete incident", err)
	}
	if res.DeletedCount == 0 {
		return s.missOrConflict(ctx, id)
	}
	return nil
}

func (s *Store) missOrConflict(ctx context.Context, id uuid.UUID) error {
	var doc struct {
		Status string `bson:"status"`
	}
	opts := options.FindOne().SetProjection(bson.M{"status": 1})
	err := s.incidents.FindOne(ctx, bson.M{"_id": id.String()}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: incident %s", models.ErrNotFound, id)
		}
		return infraErr("get incident status", err)
	}
	return fmt.Errorf("%w: incident status is %s", models.ErrConflict, doc.Status)
}

func (s *Store) Snapshots(ctx context.Context, since *time.Time) ([]models.IncidentSnapshot, error) {
	q := bson.M{}
	if since != nil {
		q["createdAt"] = bson.M{"$gte": *since}
	}
	opts := options.Find().SetProjection(bson.M{
		"type": 1, "status": 1, "reportedBy": 1, "createdAt": 1, "verifiedAt": 1, "resolvedAt": 1,
	})
	cursor, err := s.incidents.Find(ctx, q, opts)
	if err != nil {
		return nil, infraErr("load incident snapshots", err)
	}
	defer cursor.Close(ctx)

	snaps := make([]models.IncidentSnapshot, 0)
	for cursor.Next(ctx) {
		var doc incidentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, infraErr("decode snapshot", err)
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, infraErr("decode snapshot", err)
		}
		reporter, err := uuid.Parse(doc.ReportedBy)
		if err != nil {
			return nil, infraErr("decode snapshot", err)
		}
		snaps = append(snaps, models.IncidentSnapshot{
			ID:         id,
			Type:       models.IncidentType(doc.Type),
			Status:     models.Status(doc.Status),
			ReportedBy: reporter,
			CreatedAt:  doc.CreatedAt.UTC(),
			VerifiedAt: utcPtr(doc.VerifiedAt),
			ResolvedAt: utcPtr(doc.ResolvedAt),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, infraErr("iterate snapshots", err)
	}
	return snaps, nil
}
