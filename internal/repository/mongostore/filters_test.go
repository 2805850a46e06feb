package mongostore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter(t *testing.T) {
	status := models.StatusVerified
	reporter := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := models.IncidentFilter{
		Status:     &status,
		Search:     "a.b*",
		StartDate:  &start,
		ReportedBy: &reporter,
		Geo:        &models.GeoFilter{Longitude: 37.6, Latitude: 55.7, RadiusKm: 3},
	}

	t.Run("plain conditions", func(t *testing.T) {
		q := buildFilter(f)

		assert.Equal(t, "verified", q["status"])
		assert.Equal(t, bson.M{"$regex": `a\.b\*`, "$options": "i"}, q["description"])
		assert.Equal(t, bson.M{"$gte": start}, q["createdAt"])
		assert.Equal(t, reporter.String(), q["reportedBy"])
		assert.NotContains(t, q, "location")
	})

	t.Run("geoNear stage", func(t *testing.T) {
		stage := geoNearStage(f.Geo, buildFilter(f))

		require.Len(t, stage, 1)
		assert.Equal(t, "$geoNear", stage[0].Key)
		spec := stage[0].Value.(bson.M)
		assert.Equal(t, 3000.0, spec["maxDistance"])
		assert.Equal(t, "distance", spec["distanceField"])
		assert.Equal(t, "location", spec["key"])
		assert.Equal(t, "verified", spec["query"].(bson.M)["status"])
	})

	t.Run("empty filter", func(t *testing.T) {
		assert.Empty(t, buildFilter(models.IncidentFilter{}))
	})
}

func TestIncidentIndexes(t *testing.T) {
	var keys []bson.D
	for _, idx := range incidentIndexes() {
		keys = append(keys, idx.Keys.(bson.D))
	}

	assert.Contains(t, keys, bson.D{{Key: "location", Value: "2dsphere"}})
	assert.Contains(t, keys, bson.D{{Key: "status", Value: 1}, {Key: "type", Value: 1}})
}

func TestBuildSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}},
		buildSort(models.SortSpec{Field: models.SortUpdatedAt, Desc: true}, false))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
		buildSort(models.SortSpec{Field: models.SortDistance}, false))
	assert.Equal(t, bson.D{{Key: "distance", Value: -1}, {Key: "_id", Value: 1}},
		buildSort(models.SortSpec{Field: models.SortDistance, Desc: true}, true))
}

func TestBuildUpdate(t *testing.T) {
	now := time.Now().UTC()
	verified := models.StatusVerified
	empty := ""
	reason := "дубликат"

	update := buildUpdate(models.IncidentPatch{Status: &verified, RejectionReason: &empty}, now)
	set := update["$set"].(bson.M)
	assert.Equal(t, "verified", set["status"])
	assert.Equal(t, now, set["updatedAt"])
	assert.Equal(t, bson.M{"rejectionReason": ""}, update["$unset"])

	loc := models.NewLocation(30.3, 59.9, "Невский пр., 1")
	update = buildUpdate(models.IncidentPatch{Location: &loc}, now)
	assert.Equal(t, geoPoint{Type: "Point", Coordinates: [2]float64{30.3, 59.9}, Address: "Невский пр., 1"},
		update["$set"].(bson.M)["location"])
	assert.NotContains(t, update["$set"], "address")

	update = buildUpdate(models.IncidentPatch{RejectionReason: &reason}, now)
	assert.Equal(t, reason, update["$set"].(bson.M)["rejectionReason"])
	assert.NotContains(t, update, "$unset")
}

func TestIncidentDoc_RoundTrip(t *testing.T) {
	verifier := uuid.New()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := &models.Incident{
		ID:              uuid.New(),
		Type:            models.TypePowerOutage,
		Description:     "Нет света во всем квартале",
		Location:        models.NewLocation(30.3, 59.9, "Лиговский пр."),
		Images:          []string{},
		Status:          models.StatusRejected,
		ReportedBy:      uuid.New(),
		VerifiedBy:      &verifier,
		VerifiedAt:      &at,
		RejectionReason: "дубликат",
		CreatedAt:       at.Add(-time.Hour),
		UpdatedAt:       at,
	}

	raw, err := bson.Marshal(toDoc(in))
	require.NoError(t, err)

	var shape bson.M
	require.NoError(t, bson.Unmarshal(raw, &shape))
	assert.NotContains(t, shape, "address")
	assert.NotContains(t, shape, "distance")
	location := shape["location"].(bson.M)
	assert.Equal(t, "Point", location["type"])
	assert.Equal(t, bson.A{30.3, 59.9}, location["coordinates"])
	assert.Equal(t, "Лиговский пр.", location["address"])

	var doc incidentDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	out, err := doc.toModel()

	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestIncidentDoc_DistanceFromGeoNear(t *testing.T) {
	meters := 1250.0
	doc := toDoc(&models.Incident{ID: uuid.New(), ReportedBy: uuid.New(), Location: models.NewLocation(37.6, 55.7, "")})
	doc.Distance = &meters

	in, err := doc.toModel()

	require.NoError(t, err)
	require.NotNil(t, in.DistanceKm)
	assert.InDelta(t, 1.25, *in.DistanceKm, 1e-9)
}
