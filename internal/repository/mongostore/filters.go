package mongostore

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// incidentDoc - представление инцидента в коллекции incidents
type incidentDoc struct {
	ID              string     `bson:"_id"`
	Type            string     `bson:"type"`
	Description     string     `bson:"description"`
	Location        geoPoint   `bson:"location"`
	Images          []string   `bson:"images"`
	Status          string     `bson:"status"`
	ReportedBy      string     `bson:"reportedBy"`
	VerifiedBy      string     `bson:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time `bson:"verifiedAt,omitempty"`
	RejectionReason string     `bson:"rejectionReason,omitempty"`
	ResolvedAt      *time.Time `bson:"resolvedAt,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt"`
	// Distance в метрах, заполняется только стадией $geoNear
	Distance *float64 `bson:"distance,omitempty"`
}

// geoPoint - GeoJSON-точка с адресом, как она хранится в поле location
type geoPoint struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"`
	Address     string     `bson:"address,omitempty"`
}

func toGeoPoint(l models.Location) geoPoint {
	return geoPoint{Type: models.GeoJSONPoint, Coordinates: l.Coordinates, Address: l.Address}
}

func toDoc(in *models.Incident) incidentDoc {
	doc := incidentDoc{
		ID:              in.ID.String(),
		Type:            string(in.Type),
		Description:     in.Description,
		Location:        toGeoPoint(in.Location),
		Images:          in.Images,
		Status:          string(in.Status),
		ReportedBy:      in.ReportedBy.String(),
		VerifiedAt:      in.VerifiedAt,
		RejectionReason: in.RejectionReason,
		ResolvedAt:      in.ResolvedAt,
		CreatedAt:       in.CreatedAt,
		UpdatedAt:       in.UpdatedAt,
	}
	if doc.Images == nil {
		doc.Images = []string{}
	}
	if in.VerifiedBy != nil {
		doc.VerifiedBy = in.VerifiedBy.String()
	}
	return doc
}

func (d incidentDoc) toModel() (*models.Incident, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	reporter, err := uuid.Parse(d.ReportedBy)
	if err != nil {
		return nil, err
	}
	in := &models.Incident{
		ID:              id,
		Type:            models.IncidentType(d.Type),
		Description:     d.Description,
		Location:        models.NewLocation(d.Location.Coordinates[0], d.Location.Coordinates[1], d.Location.Address),
		Images:          d.Images,
		Status:          models.Status(d.Status),
		ReportedBy:      reporter,
		VerifiedAt:      utcPtr(d.VerifiedAt),
		RejectionReason: d.RejectionReason,
		ResolvedAt:      utcPtr(d.ResolvedAt),
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
	if in.Images == nil {
		in.Images = []string{}
	}
	if d.Distance != nil {
		km := *d.Distance / 1000
		in.DistanceKm = &km
	}
	if d.VerifiedBy != "" {
		verifier, err := uuid.Parse(d.VerifiedBy)
		if err != nil {
			return nil, err
		}
		in.VerifiedBy = &verifier
	}
	return in, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func geoJSON(lon, lat float64) bson.M {
	return bson.M{"type": models.GeoJSONPoint, "coordinates": bson.A{lon, lat}}
}

// buildFilter переводит фильтр в запрос MongoDB без гео-условия. Гео-условие
// задается стадией geoNearStage, общей для страниц и подсчета.
func buildFilter(f models.IncidentFilter) bson.M {
	q := bson.M{}
	if f.Status != nil {
		q["status"] = string(*f.Status)
	}
	if f.Type != nil {
		q["type"] = string(*f.Type)
	}
	if f.Search != "" {
		q["description"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	if f.StartDate != nil || f.EndDate != nil {
		created := bson.M{}
		if f.StartDate != nil {
			created["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			created["$lte"] = *f.EndDate
		}
		q["createdAt"] = created
	}
	if f.ReportedBy != nil {
		q["reportedBy"] = f.ReportedBy.String()
	}
	if f.VerifiedBy != nil {
		q["verifiedBy"] = f.VerifiedBy.String()
	}
	return q
}

// geoNearStage отбирает документы в радиусе от точки и записывает расстояние в метрах в поле distance
func geoNearStage(g *models.GeoFilter, query bson.M) bson.D {
	return bson.D{{Key: "$geoNear", Value: bson.M{
		"near":          geoJSON(g.Longitude, g.Latitude),
		"key":           "location",
		"distanceField": distanceField,
		"maxDistance":   g.RadiusKm * 1000,
		"spherical":     true,
		"query":         query,
	}}}
}

var sortFields = map[models.SortField]string{
	models.SortCreatedAt:  "createdAt",
	models.SortUpdatedAt:  "updatedAt",
	models.SortVerifiedAt: "verifiedAt",
	models.SortResolvedAt: "resolvedAt",
	models.SortType:       "type",
	models.SortStatus:     "status",
}

const distanceField = "distance"

// buildSort возвращает порядок с доопределением по _id. Сортировка по расстоянию
// возможна только после $geoNear (geo=true).
func buildSort(s models.SortSpec, geo bool) bson.D {
	field, ok := sortFields[s.Field]
	switch {
	case s.Field == models.SortDistance && geo:
		field = distanceField
	case !ok:
		field = "createdAt"
	}
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}
}

// buildUpdate собирает $set из патча
func buildUpdate(p models.IncidentPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	unset := bson.M{}
	if p.Type != nil {
		set["type"] = string(*p.Type)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Location != nil {
		set["location"] = toGeoPoint(*p.Location)
	}
	if p.Images != nil {
		images := *p.Images
		if images == nil {
			images = []string{}
		}
		set["images"] = images
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.VerifiedBy != nil {
		set["verifiedBy"] = p.VerifiedBy.String()
	}
	if p.VerifiedAt != nil {
		set["verifiedAt"] = *p.VerifiedAt
	}
	if p.ResolvedAt != nil {
		set["resolvedAt"] = *p.ResolvedAt
	}
	if p.RejectionReason != nil {
		if *p.RejectionReason == "" {
			unset["rejectionReason"] = ""
		} else {
			set["rejectionReason"] = *p.RejectionReason
		}
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
