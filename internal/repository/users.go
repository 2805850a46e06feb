package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/incident_reporting/internal/models"
)

// UserRepository читает учетные записи, которыми управляет внешняя система
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetUsers возвращает пользователей по списку ID. Отсутствующие ID пропускаются.
func (r *UserRepository) GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	users := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	query := `
		SELECT id, name, email, role, is_active, created_at
		FROM users
		WHERE id = ANY($1::uuid[]);
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, infraErr("get users", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, infraErr("scan user row", err)
		}
		users[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, infraErr("iterate users", err)
	}
	return users, nil
}

// RecentUsers возвращает последних зарегистрированных пользователей
func (r *UserRepository) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	query := `
		SELECT id, name, email, role, is_active, created_at
		FROM users
		ORDER BY created_at DESC, id ASC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, infraErr("list recent users", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, limit)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, infraErr("scan user row", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w: %w", models.ErrInfrastructure, err)
	}
	return users, nil
}

func (r *UserRepository) CountUsers(ctx context.Context) (models.UserCounts, error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM users;`
	var counts models.UserCounts
	if err := r.db.QueryRow(ctx, query).Scan(&counts.Total, &counts.Active); err != nil {
		return models.UserCounts{}, infraErr("count users", err)
	}
	return counts, nil
}
