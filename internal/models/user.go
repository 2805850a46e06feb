package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// Actor - аутентифицированный пользователь, от имени которого выполняется операция
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// Privileged сообщает, может ли пользователь модерировать инциденты
func (a Actor) Privileged() bool {
	return a.Role == RoleModerator || a.Role == RoleAdmin
}

// User - учетная запись из внешней системы, доступна только для чтения
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRef - краткая ссылка на пользователя для ответов
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// UserCounts - агрегаты по учетным записям
type UserCounts struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}
