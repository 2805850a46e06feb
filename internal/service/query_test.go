package service

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQuery_Defaults(t *testing.T) {
	q, err := ParseListQuery(url.Values{}, 100)

	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, models.SortSpec{Field: models.SortCreatedAt, Desc: true}, q.Sort)
	assert.Equal(t, models.IncidentFilter{}, q.Filter)
}

func TestParseListQuery_Coercion(t *testing.T) {
	values := url.Values{
		"page":      {"abc"},
		"limit":     {"1000"},
		"status":    {"all"},
		"type":      {"fire"},
		"search":    {"  дым "},
		"sortBy":    {"unknown"},
		"sortOrder": {"asc"},
	}

	q, err := ParseListQuery(values, 50)

	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 50, q.Limit)
	assert.Nil(t, q.Filter.Status)
	require.NotNil(t, q.Filter.Type)
	assert.Equal(t, models.TypeFire, *q.Filter.Type)
	assert.Equal(t, "дым", q.Filter.Search)
	assert.Equal(t, models.SortSpec{Field: models.SortCreatedAt}, q.Sort)
}

func TestParseListQuery_HugePage(t *testing.T) {
	q, err := ParseListQuery(url.Values{"page": {"9223372036854775807"}}, 100)

	require.NoError(t, err)
	assert.Equal(t, models.MaxPage(10), q.Page)
	assert.GreaterOrEqual(t, q.Skip(), 0)
	assert.LessOrEqual(t, q.Skip(), models.MaxSkip)
}

func TestQueryEngine_PageBeyondEnd(t *testing.T) {
	reporter := uuid.New()
	engine := NewQueryEngine(seedStore(3, reporter), testLogger())
	q := models.ListQuery{Page: math.MaxInt, Limit: 10, Sort: models.SortSpec{Field: models.SortCreatedAt, Desc: true}}

	page, err := engine.List(context.Background(), models.Actor{UserID: reporter, Role: models.RoleUser}, VisibilityOwner, q)

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(3), page.Total)
}

func TestParseListQuery_Geo(t *testing.T) {
	t.Run("default radius and distance order", func(t *testing.T) {
		q, err := ParseListQuery(url.Values{"latitude": {"55.75"}, "longitude": {"37.61"}}, 100)
		require.NoError(t, err)
		require.NotNil(t, q.Filter.Geo)
		assert.Equal(t, models.GeoFilter{Longitude: 37.61, Latitude: 55.75, RadiusKm: DefaultRadiusKm}, *q.Filter.Geo)
		assert.Equal(t, models.SortSpec{Field: models.SortDistance}, q.Sort)
	})

	t.Run("explicit sort overrides distance", func(t *testing.T) {
		q, err := ParseListQuery(url.Values{
			"latitude": {"55.75"}, "longitude": {"37.61"}, "radius": {"2.5"}, "sortBy": {"updatedAt"},
		}, 100)
		require.NoError(t, err)
		assert.Equal(t, 2.5, q.Filter.Geo.RadiusKm)
		assert.Equal(t, models.SortSpec{Field: models.SortUpdatedAt, Desc: true}, q.Sort)
	})

	t.Run("distance without point falls back", func(t *testing.T) {
		q, err := ParseListQuery(url.Values{"sortBy": {"distance"}}, 100)
		require.NoError(t, err)
		assert.Equal(t, models.SortCreatedAt, q.Sort.Field)
	})
}

func TestParseListQuery_ValidationErrors(t *testing.T) {
	cases := map[string]url.Values{
		"latitude not a number": {"latitude": {"north"}, "longitude": {"10"}},
		"latitude out of range": {"latitude": {"91"}, "longitude": {"10"}},
		"longitude missing":     {"latitude": {"10"}},
		"negative radius":       {"latitude": {"10"}, "longitude": {"10"}, "radiusKm": {"-1"}},
		"nan radius":            {"radiusKm": {"NaN"}},
		"bad start date":        {"startDate": {"yesterday"}},
		"inverted range":        {"startDate": {"2024-05-02"}, "endDate": {"2024-05-01"}},
		"bad reporter":          {"reportedBy": {"42"}},
		"bad verifier":          {"verifiedBy": {"nobody"}},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseListQuery(values, 100)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestParseListQuery_Dates(t *testing.T) {
	q, err := ParseListQuery(url.Values{
		"startDate": {"2024-05-01"},
		"endDate":   {"2024-05-01"},
	}, 100)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *q.Filter.StartDate)
	assert.Equal(t, time.Date(2024, 5, 1, 23, 59, 59, 999999999, time.UTC), *q.Filter.EndDate)
}

// seedStore заполняет хранилище инцидентами вдоль меридиана с шагом ~1.1 км
func seedStore(n int, reporter uuid.UUID) *memStore {
	statuses := models.Statuses
	incidents := make([]*models.Incident, 0, n)
	for i := 0; i < n; i++ {
		incidents = append(incidents, &models.Incident{
			ID:          uuid.New(),
			Type:        models.IncidentTypes[i%len(models.IncidentTypes)],
			Description: fmt.Sprintf("Инцидент %d", i),
			Location:    models.NewLocation(37.6, 55.7+float64(i)*0.01, ""),
			Images:      []string{},
			Status:      statuses[i%len(statuses)],
			ReportedBy:  reporter,
			CreatedAt:   testNow.Add(-time.Duration(i%5) * time.Hour),
			UpdatedAt:   testNow,
		})
	}
	return newMemStore(incidents...)
}

func TestQueryEngine_PaginationCoversAllMatches(t *testing.T) {
	store := seedStore(23, uuid.New())
	engine := NewQueryEngine(store, testLogger())
	ctx := context.Background()

	for _, limit := range []int{1, 4, 10, 23, 50} {
		t.Run(fmt.Sprintf("limit %d", limit), func(t *testing.T) {
			seen := make(map[uuid.UUID]bool)
			q := models.ListQuery{Page: 1, Limit: limit, Sort: models.SortSpec{Field: models.SortCreatedAt, Desc: true}}

			first, err := engine.List(ctx, admin, VisibilityPrivileged, q)
			require.NoError(t, err)
			assert.Equal(t, int64(23), first.Total)
			assert.Equal(t, (23+limit-1)/limit, first.Pages)

			for page := 1; page <= first.Pages; page++ {
				q.Page = page
				res, err := engine.List(ctx, admin, VisibilityPrivileged, q)
				require.NoError(t, err)
				for _, in := range res.Items {
					assert.False(t, seen[in.ID], "duplicate %s on page %d", in.ID, page)
					seen[in.ID] = true
				}
			}
			assert.Len(t, seen, 23)

			q.Page = first.Pages + 1
			beyond, err := engine.List(ctx, admin, VisibilityPrivileged, q)
			require.NoError(t, err)
			assert.Empty(t, beyond.Items)
		})
	}
}

func TestQueryEngine_GeoRadius(t *testing.T) {
	store := seedStore(10, uuid.New())
	engine := NewQueryEngine(store, testLogger())
	center := models.GeoFilter{Longitude: 37.6, Latitude: 55.7}

	t.Run("zero radius keeps the center", func(t *testing.T) {
		geo := center
		res, err := engine.List(context.Background(), admin, VisibilityPrivileged,
			models.ListQuery{Page: 1, Limit: 10, Filter: models.IncidentFilter{Geo: &geo}, Sort: models.SortSpec{Field: models.SortDistance}})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, 0.0, *res.Items[0].DistanceKm)
	})

	t.Run("radius bounds and order", func(t *testing.T) {
		geo := center
		geo.RadiusKm = 5
		res, err := engine.List(context.Background(), admin, VisibilityPrivileged,
			models.ListQuery{Page: 1, Limit: 10, Filter: models.IncidentFilter{Geo: &geo}, Sort: models.SortSpec{Field: models.SortDistance}})
		require.NoError(t, err)
		assert.Equal(t, int64(5), res.Total)
		for i, in := range res.Items {
			require.NotNil(t, in.DistanceKm)
			assert.LessOrEqual(t, *in.DistanceKm, 5.0)
			if i > 0 {
				assert.GreaterOrEqual(t, *in.DistanceKm, *res.Items[i-1].DistanceKm)
			}
		}
	})
}

func TestQueryEngine_Visibility(t *testing.T) {
	reporter := uuid.New()
	store := seedStore(12, reporter)
	engine := NewQueryEngine(store, testLogger())
	ctx := context.Background()

	t.Run("public only sees verified", func(t *testing.T) {
		rejected := models.StatusRejected
		res, err := engine.List(ctx, models.Actor{}, VisibilityPublic,
			models.ListQuery{Page: 1, Limit: 50, Filter: models.IncidentFilter{Status: &rejected, ReportedBy: &reporter}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Total)
		for _, in := range res.Items {
			assert.Equal(t, models.StatusVerified, in.Status)
			assert.Equal(t, uuid.Nil, in.ReportedBy)
			assert.Nil(t, in.VerifiedBy)
		}
	})

	t.Run("owner sees own incidents", func(t *testing.T) {
		res, err := engine.List(ctx, models.Actor{UserID: reporter, Role: models.RoleUser}, VisibilityOwner,
			models.ListQuery{Page: 1, Limit: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(12), res.Total)

		other, err := engine.List(ctx, models.Actor{UserID: uuid.New(), Role: models.RoleUser}, VisibilityOwner,
			models.ListQuery{Page: 1, Limit: 50})
		require.NoError(t, err)
		assert.Zero(t, other.Total)
	})

	t.Run("privileged requires role", func(t *testing.T) {
		_, err := engine.List(ctx, models.Actor{UserID: reporter, Role: models.RoleUser}, VisibilityPrivileged,
			models.ListQuery{Page: 1, Limit: 10})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}
