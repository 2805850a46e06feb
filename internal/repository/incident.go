package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/shenikar/incident_reporting/internal/service"
)

type IncidentRepository struct {
	db *pgxpool.Pool
}

func NewIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{db: db}
}

// rowScanner - общий интерфейс pgx.Row и pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanIncident читает колонки incidentColumns, extra - приемники дополнительных колонок после них
func scanIncident(row rowScanner, extra ...any) (*models.Incident, error) {
	incident := &models.Incident{}
	var lon, lat float64
	var address string
	dest := []any{
		&incident.ID,
		&incident.Type,
		&incident.Description,
		&lon,
		&lat,
		&address,
		&incident.Images,
		&incident.Status,
		&incident.ReportedBy,
		&incident.VerifiedBy,
		&incident.VerifiedAt,
		&incident.RejectionReason,
		&incident.ResolvedAt,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	incident.Location = models.NewLocation(lon, lat, address)
	if incident.Images == nil {
		incident.Images = []string{}
	}
	return incident, nil
}

func infraErr(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, models.ErrInfrastructure, err)
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (type, description, location, address, images, status, reported_by)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at;
	`
	images := incident.Images
	if images == nil {
		images = []string{}
	}
	err := r.db.QueryRow(ctx, query,
		string(incident.Type),
		incident.Description,
		incident.Location.Longitude(),
		incident.Location.Latitude(),
		incident.Location.Address,
		images,
		string(incident.Status),
		incident.ReportedBy,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return infraErr("create incident", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := "SELECT" + incidentColumns + "\nFROM incidents WHERE id = $1"
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: incident %s", models.ErrNotFound, id)
		}
		return nil, infraErr("get incident by id", err)
	}
	return incident, nil
}

// Find возвращает страницу инцидентов под фильтром
func (r *IncidentRepository) Find(ctx context.Context, filter models.IncidentFilter, sort models.SortSpec, skip, limit int) ([]*models.Incident, error) {
	query, args := buildFindQuery(filter, sort, skip, limit)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infraErr("find incidents", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		var extra []any
		var distanceKm float64
		if filter.Geo != nil {
			extra = append(extra, &distanceKm)
		}
		incident, err := scanIncident(rows, extra...)
		if err != nil {
			return nil, infraErr("scan incident row", err)
		}
		if filter.Geo != nil {
			incident.DistanceKm = &distanceKm
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, infraErr("iterate incidents", err)
	}
	return incidents, nil
}

func (r *IncidentRepository) Count(ctx context.Context, filter models.IncidentFilter) (int64, error) {
	query, args := buildCountQuery(filter)
	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, infraErr("count incidents", err)
	}
	return total, nil
}

// Update выполняет условное обновление. Если строка не изменилась, отдельным запросом
// выясняется, нет ли записи вообще или у нее другой статус.
func (r *IncidentRepository) Update(ctx context.Context, id uuid.UUID, expected *models.Status, patch models.IncidentPatch) (*models.Incident, error) {
	query, args := buildUpdateQuery(id, expected, patch)
	incident, err := scanIncident(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missOrConflict(ctx, id)
		}
		return nil, infraErr("update incident", err)
	}
	return incident, nil
}

// Delete удаляет инцидент, если его статус равен expected
func (r *IncidentRepository) Delete(ctx context.Context, id uuid.UUID, expected models.Status) error {
	query := `DELETE FROM incidents WHERE id = $1 AND status = $2;`
	cmdTag, err := r.db.Exec(ctx, query, id, string(expected))
	if err != nil {
		return infraErr("delete incident", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

func (r *IncidentRepository) missOrConflict(ctx context.Context, id uuid.UUID) error {
	var status models.Status
	err := r.db.QueryRow(ctx, `SELECT status FROM incidents WHERE id = $1;`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: incident %s", models.ErrNotFound, id)
		}
		return infraErr("get incident status", err)
	}
	return fmt.Errorf("%w: incident status is %s", models.ErrConflict, status)
}

// Snapshots возвращает проекции для аналитики
func (r *IncidentRepository) Snapshots(ctx context.Context, since *time.Time) ([]models.IncidentSnapshot, error) {
	query := `
		SELECT id, type, status, reported_by, created_at, verified_at, resolved_at
		FROM incidents
		WHERE $1::timestamptz IS NULL OR created_at >= $1;
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, infraErr("load incident snapshots", err)
	}
	defer rows.Close()

	snaps := make([]models.IncidentSnapshot, 0)
	for rows.Next() {
		var s models.IncidentSnapshot
		if err := rows.Scan(&s.ID, &s.Type, &s.Status, &s.ReportedBy, &s.CreatedAt, &s.VerifiedAt, &s.ResolvedAt); err != nil {
			return nil, infraErr("scan snapshot row", err)
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infraErr("iterate snapshots", err)
	}
	return snaps, nil
}
