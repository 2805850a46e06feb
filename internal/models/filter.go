package models

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GeoFilter ограничивает выборку кругом радиусом RadiusKm вокруг точки
type GeoFilter struct {
	Longitude float64
	Latitude  float64
	RadiusKm  float64
}

// Contains сообщает, попадает ли точка в круг
func (g GeoFilter) Contains(l Location) bool {
	return g.DistanceKm(l) <= g.RadiusKm
}

// DistanceKm - расстояние от центра фильтра до точки
func (g GeoFilter) DistanceKm(l Location) float64 {
	return HaversineKm(g.Longitude, g.Latitude, l.Longitude(), l.Latitude())
}

// IncidentFilter - типизированный набор условий выборки. Условия объединяются через AND,
// нулевые значения означают отсутствие условия.
type IncidentFilter struct {
	Status     *Status
	Type       *IncidentType
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
	ReportedBy *uuid.UUID
	VerifiedBy *uuid.UUID
	Geo        *GeoFilter
}

// Matches проверяет инцидент на соответствие фильтру в памяти
func (f IncidentFilter) Matches(in *Incident) bool {
	if f.Status != nil && in.Status != *f.Status {
		return false
	}
	if f.Type != nil && in.Type != *f.Type {
		return false
	}
	if f.Search != "" && !containsFold(in.Description, f.Search) {
		return false
	}
	if f.StartDate != nil && in.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && in.CreatedAt.After(*f.EndDate) {
		return false
	}
	if f.ReportedBy != nil && in.ReportedBy != *f.ReportedBy {
		return false
	}
	if f.VerifiedBy != nil && (in.VerifiedBy == nil || *in.VerifiedBy != *f.VerifiedBy) {
		return false
	}
	if f.Geo != nil && !f.Geo.Contains(in.Location) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SortField - поле сортировки
type SortField string

const (
	SortCreatedAt  SortField = "createdAt"
	SortUpdatedAt  SortField = "updatedAt"
	SortVerifiedAt SortField = "verifiedAt"
	SortResolvedAt SortField = "resolvedAt"
	SortType       SortField = "type"
	SortStatus     SortField = "status"
	// SortDistance - порядок по удаленности от центра гео-фильтра
	SortDistance SortField = "distance"
)

// SortSpec описывает порядок выдачи. Для равных значений порядок доопределяется по ID.
type SortSpec struct {
	Field SortField
	Desc  bool
}

// ListQuery - разобранные и приведенные к типам параметры выборки
type ListQuery struct {
	Filter IncidentFilter
	Sort   SortSpec
	Page   int
	Limit  int
}

// MaxSkip - наибольшее смещение выборки. Страницы дальше него всегда пусты.
const MaxSkip = math.MaxInt32

// MaxPage - последняя страница, смещение которой не превышает MaxSkip
func MaxPage(limit int) int {
	if limit < 1 {
		limit = 1
	}
	return MaxSkip/limit + 1
}

// Skip - количество записей, пропускаемых до начала страницы
func (q ListQuery) Skip() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page > MaxPage(q.Limit) {
		return MaxSkip
	}
	return (q.Page - 1) * q.Limit
}

// IncidentPage - страница результатов вместе с общим количеством совпадений
type IncidentPage struct {
	Items []*Incident
	Page  int
	Limit int
	Total int64
	Pages int
}
