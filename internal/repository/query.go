package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
)

const incidentColumns = `
	id,
	type,
	description,
	ST_X(location::geometry) AS longitude,
	ST_Y(location::geometry) AS latitude,
	address,
	images,
	status,
	reported_by,
	verified_by,
	verified_at,
	COALESCE(rejection_reason, '') AS rejection_reason,
	resolved_at,
	created_at,
	updated_at`

// sqlBuilder собирает позиционные параметры $1, $2, ... вместе с их значениями
type sqlBuilder struct {
	args []any
	// center - выражение точки гео-фильтра, его параметры переиспользуются в SELECT и ORDER BY
	center string
}

func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *sqlBuilder) point(lon, lat float64) string {
	return fmt.Sprintf("ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography", b.arg(lon), b.arg(lat))
}

// escapeLike экранирует спецсимволы шаблона LIKE
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// where строит условие WHERE. Пустой фильтр дает пустую строку.
func (b *sqlBuilder) where(f models.IncidentFilter) string {
	var conds []string
	if f.Status != nil {
		conds = append(conds, "status = "+b.arg(string(*f.Status)))
	}
	if f.Type != nil {
		conds = append(conds, "type = "+b.arg(string(*f.Type)))
	}
	if f.Search != "" {
		conds = append(conds, "description ILIKE "+b.arg("%"+escapeLike(f.Search)+"%")+` ESCAPE '\'`)
	}
	if f.StartDate != nil {
		conds = append(conds, "created_at >= "+b.arg(*f.StartDate))
	}
	if f.EndDate != nil {
		conds = append(conds, "created_at <= "+b.arg(*f.EndDate))
	}
	if f.ReportedBy != nil {
		conds = append(conds, "reported_by = "+b.arg(*f.ReportedBy))
	}
	if f.VerifiedBy != nil {
		conds = append(conds, "verified_by = "+b.arg(*f.VerifiedBy))
	}
	if f.Geo != nil {
		b.center = b.point(f.Geo.Longitude, f.Geo.Latitude)
		conds = append(conds, fmt.Sprintf("ST_DWithin(location, %s, %s)", b.center, b.arg(f.Geo.RadiusKm*1000)))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

var sortColumns = map[models.SortField]string{
	models.SortCreatedAt:  "created_at",
	models.SortUpdatedAt:  "updated_at",
	models.SortVerifiedAt: "verified_at",
	models.SortResolvedAt: "resolved_at",
	models.SortType:       "type",
	models.SortStatus:     "status",
}

// orderBy строит ORDER BY с доопределением порядка по id. Вызывается после where.
func (b *sqlBuilder) orderBy(s models.SortSpec) string {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}

	var expr string
	switch {
	case s.Field == models.SortDistance && b.center != "":
		expr = "distance_km"
	default:
		col, ok := sortColumns[s.Field]
		if !ok {
			col = "created_at"
		}
		expr = col
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST, id ASC", expr, dir)
}

func buildFindQuery(f models.IncidentFilter, s models.SortSpec, skip, limit int) (string, []any) {
	b := &sqlBuilder{}
	where := b.where(f)
	columns := incidentColumns
	if b.center != "" {
		columns += ",\n\tST_Distance(location, " + b.center + ") / 1000 AS distance_km"
	}
	query := "SELECT" + columns + "\nFROM incidents" + where + b.orderBy(s)
	query += " LIMIT " + b.arg(limit) + " OFFSET " + b.arg(skip)
	return query, b.args
}

func buildCountQuery(f models.IncidentFilter) (string, []any) {
	b := &sqlBuilder{}
	return "SELECT COUNT(*) FROM incidents" + b.where(f), b.args
}

// buildUpdateQuery строит условное обновление: при expected != nil строка меняется,
// только если ее статус совпадает с ожидаемым
func buildUpdateQuery(id uuid.UUID, expected *models.Status, p models.IncidentPatch) (string, []any) {
	b := &sqlBuilder{}
	var sets []string
	if p.Type != nil {
		sets = append(sets, "type = "+b.arg(string(*p.Type)))
	}
	if p.Description != nil {
		sets = append(sets, "description = "+b.arg(*p.Description))
	}
	if p.Location != nil {
		sets = append(sets, "location = "+b.point(p.Location.Longitude(), p.Location.Latitude()))
		sets = append(sets, "address = "+b.arg(p.Location.Address))
	}
	if p.Images != nil {
		images := *p.Images
		if images == nil {
			images = []string{}
		}
		sets = append(sets, "images = "+b.arg(images))
	}
	if p.Status != nil {
		sets = append(sets, "status = "+b.arg(string(*p.Status)))
	}
	if p.VerifiedBy != nil {
		sets = append(sets, "verified_by = "+b.arg(*p.VerifiedBy))
	}
	if p.VerifiedAt != nil {
		sets = append(sets, "verified_at = "+b.arg(*p.VerifiedAt))
	}
	if p.ResolvedAt != nil {
		sets = append(sets, "resolved_at = "+b.arg(*p.ResolvedAt))
	}
	if p.RejectionReason != nil {
		sets = append(sets, "rejection_reason = NULLIF("+b.arg(*p.RejectionReason)+", '')")
	}
	sets = append(sets, "updated_at = NOW()")

	query := "UPDATE incidents SET " + strings.Join(sets, ", ") + " WHERE id = " + b.arg(id)
	if expected != nil {
		query += " AND status = " + b.arg(string(*expected))
	}
	query += " RETURNING" + incidentColumns
	return query, b.args
}
