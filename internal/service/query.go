package service

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPage     = 1
	DefaultLimit    = 10
	MaxLimit        = 100
	DefaultRadiusKm = 10.0

	// filterAll в параметрах type/status означает отсутствие условия
	filterAll = "all"
)

// Visibility определяет, какие инциденты доступны вызывающему
type Visibility int

const (
	// VisibilityPublic - только подтвержденные инциденты, без идентификаторов пользователей
	VisibilityPublic Visibility = iota
	// VisibilityOwner - только собственные инциденты автора
	VisibilityOwner
	// VisibilityPrivileged - все инциденты, доступно модераторам и администраторам
	VisibilityPrivileged
)

var sortFields = map[string]models.SortField{
	string(models.SortCreatedAt):  models.SortCreatedAt,
	string(models.SortUpdatedAt):  models.SortUpdatedAt,
	string(models.SortVerifiedAt): models.SortVerifiedAt,
	string(models.SortResolvedAt): models.SortResolvedAt,
	string(models.SortType):       models.SortType,
	string(models.SortStatus):     models.SortStatus,
	string(models.SortDistance):   models.SortDistance,
}

// ParseListQuery - единственная точка приведения параметров запроса к типизированному фильтру.
// Некорректные координаты, радиус, даты и идентификаторы пользователей дают ErrValidation,
// остальные значения приводятся к значениям по умолчанию.
func ParseListQuery(values url.Values, maxLimit int) (models.ListQuery, error) {
	if maxLimit < 1 {
		maxLimit = MaxLimit
	}
	q := models.ListQuery{
		Page:  positiveInt(values.Get("page"), DefaultPage),
		Limit: positiveInt(values.Get("limit"), DefaultLimit),
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Page > models.MaxPage(q.Limit) {
		q.Page = models.MaxPage(q.Limit)
	}

	if v := strings.TrimSpace(values.Get("status")); v != "" && v != filterAll {
		status := models.Status(v)
		q.Filter.Status = &status
	}
	if v := strings.TrimSpace(values.Get("type")); v != "" && v != filterAll {
		typ := models.IncidentType(v)
		q.Filter.Type = &typ
	}
	q.Filter.Search = strings.TrimSpace(values.Get("search"))

	var err error
	if q.Filter.ReportedBy, err = parseUserID(values, "reportedBy"); err != nil {
		return models.ListQuery{}, err
	}
	if q.Filter.VerifiedBy, err = parseUserID(values, "verifiedBy"); err != nil {
		return models.ListQuery{}, err
	}
	if q.Filter.StartDate, err = parseDate(values, "startDate", false); err != nil {
		return models.ListQuery{}, err
	}
	if q.Filter.EndDate, err = parseDate(values, "endDate", true); err != nil {
		return models.ListQuery{}, err
	}
	if q.Filter.StartDate != nil && q.Filter.EndDate != nil && q.Filter.StartDate.After(*q.Filter.EndDate) {
		return models.ListQuery{}, fmt.Errorf("%w: startDate must not be after endDate", models.ErrValidation)
	}
	if q.Filter.Geo, err = parseGeo(values); err != nil {
		return models.ListQuery{}, err
	}

	// явный sortBy перекрывает сортировку по расстоянию
	q.Sort = models.SortSpec{Field: models.SortCreatedAt, Desc: true}
	field, explicitSort := sortFields[values.Get("sortBy")]
	if explicitSort {
		q.Sort.Field = field
	}
	if order := strings.ToLower(values.Get("sortOrder")); order == "asc" {
		q.Sort.Desc = false
	} else if order == "desc" {
		q.Sort.Desc = true
	}

	switch {
	case q.Filter.Geo != nil && (!explicitSort || q.Sort.Field == models.SortDistance):
		q.Sort = models.SortSpec{Field: models.SortDistance, Desc: strings.ToLower(values.Get("sortOrder")) == "desc"}
	case q.Filter.Geo == nil && q.Sort.Field == models.SortDistance:
		q.Sort = models.SortSpec{Field: models.SortCreatedAt, Desc: q.Sort.Desc}
	}

	return q, nil
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parseUserID(values url.Values, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a valid user id", models.ErrValidation, key)
	}
	return &id, nil
}

// parseDate принимает RFC3339 или YYYY-MM-DD. Дата без времени в endDate означает конец дня.
func parseDate(values url.Values, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an RFC3339 timestamp or YYYY-MM-DD date", models.ErrValidation, key)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseGeo(values url.Values) (*models.GeoFilter, error) {
	rawLat := strings.TrimSpace(values.Get("latitude"))
	rawLon := strings.TrimSpace(values.Get("longitude"))
	rawRadius := strings.TrimSpace(values.Get("radiusKm"))
	if rawRadius == "" {
		rawRadius = strings.TrimSpace(values.Get("radius"))
	}

	if rawLat == "" && rawLon == "" {
		if rawRadius != "" {
			if _, err := parseRadius(rawRadius); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	if rawLat == "" || rawLon == "" {
		return nil, fmt.Errorf("%w: latitude and longitude must be provided together", models.ErrValidation)
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude must be a number", models.ErrValidation)
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude must be a number", models.ErrValidation)
	}
	if err := models.ValidateCoordinates(lon, lat); err != nil {
		return nil, err
	}

	radius := DefaultRadiusKm
	if rawRadius != "" {
		if radius, err = parseRadius(rawRadius); err != nil {
			return nil, err
		}
	}
	return &models.GeoFilter{Longitude: lon, Latitude: lat, RadiusKm: radius}, nil
}

func parseRadius(raw string) (float64, error) {
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return 0, fmt.Errorf("%w: radius must be a non-negative number of kilometers", models.ErrValidation)
	}
	return radius, nil
}

// QueryEngine выполняет выборки с учетом видимости и считает общее количество совпадений
type QueryEngine struct {
	repo   IncidentRepository
	logger *logrus.Logger
}

func NewQueryEngine(repo IncidentRepository, logger *logrus.Logger) *QueryEngine {
	return &QueryEngine{repo: repo, logger: logger}
}

// List применяет режим видимости к фильтру и возвращает страницу результатов
func (e *QueryEngine) List(ctx context.Context, actor models.Actor, vis Visibility, q models.ListQuery) (*models.IncidentPage, error) {
	log := e.logger.WithFields(logrus.Fields{
		"service":    "query",
		"method":     "List",
		"visibility": vis,
		"actor_id":   actor.UserID,
	})

	filter, err := scopeFilter(actor, vis, q.Filter)
	if err != nil {
		log.WithError(err).Warn("List denied")
		return nil, err
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	total, err := e.repo.Count(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to count incidents")
		return nil, fmt.Errorf("service: could not count incidents: %w", err)
	}

	items := []*models.Incident{}
	if int64(q.Skip()) < total {
		items, err = e.repo.Find(ctx, filter, q.Sort, q.Skip(), q.Limit)
		if err != nil {
			log.WithError(err).Error("Failed to find incidents")
			return nil, fmt.Errorf("service: could not list incidents: %w", err)
		}
	}

	for _, in := range items {
		if filter.Geo != nil && in.DistanceKm == nil {
			d := filter.Geo.DistanceKm(in.Location)
			in.DistanceKm = &d
		}
		if vis == VisibilityPublic {
			redact(in)
		}
	}

	log.WithFields(logrus.Fields{"total": total, "returned": len(items)}).Debug("Incidents listed")
	return &models.IncidentPage{
		Items: items,
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
		Pages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

func scopeFilter(actor models.Actor, vis Visibility, filter models.IncidentFilter) (models.IncidentFilter, error) {
	switch vis {
	case VisibilityPublic:
		verified := models.StatusVerified
		filter.Status = &verified
		filter.ReportedBy = nil
		filter.VerifiedBy = nil
	case VisibilityOwner:
		if actor.UserID == uuid.Nil {
			return filter, fmt.Errorf("%w: authentication required", models.ErrForbidden)
		}
		owner := actor.UserID
		filter.ReportedBy = &owner
	case VisibilityPrivileged:
		if !actor.Privileged() {
			return filter, fmt.Errorf("%w: only moderators and admins can list all incidents", models.ErrForbidden)
		}
	default:
		return filter, fmt.Errorf("%w: unknown visibility", models.ErrForbidden)
	}
	return filter, nil
}

// redact скрывает идентификаторы пользователей в публичной выдаче
func redact(in *models.Incident) {
	in.ReportedBy = uuid.Nil
	in.VerifiedBy = nil
}
