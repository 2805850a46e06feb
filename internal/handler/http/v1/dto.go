package v1

import (
	"time"

	"github.com/google/uuid"
)

// LocationDTO - точка в формате GeoJSON: coordinates = [долгота, широта]
// @Description Точка в формате GeoJSON
type LocationDTO struct {
	Type        string    `json:"type,omitempty" validate:"omitempty,eq=Point"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
	Address     string    `json:"address,omitempty" validate:"max=500"`
}

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Type        string       `json:"type" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Location    *LocationDTO `json:"location" validate:"required"`
	Images      []string     `json:"images,omitempty"`
}

// UpdateIncidentRequest DTO для частичного обновления инцидента автором
// @Description DTO для обновления инцидента. Отсутствующие поля не меняются.
type UpdateIncidentRequest struct {
	Type        *string      `json:"type,omitempty"`
	Description *string      `json:"description,omitempty"`
	Location    *LocationDTO `json:"location,omitempty"`
	Images      *[]string    `json:"images,omitempty"`
}

// RejectIncidentRequest DTO для отклонения инцидента
// @Description Причина отклонения, необязательна
type RejectIncidentRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID              uuid.UUID   `json:"id"`
	Type            string      `json:"type"`
	Description     string      `json:"description"`
	Location        LocationDTO `json:"location"`
	Images          []string    `json:"images"`
	Status          string      `json:"status"`
	ReportedBy      *uuid.UUID  `json:"reportedBy,omitempty"`
	VerifiedBy      *uuid.UUID  `json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time  `json:"verifiedAt,omitempty"`
	RejectionReason string      `json:"rejectionReason,omitempty"`
	ResolvedAt      *time.Time  `json:"resolvedAt,omitempty"`
	DistanceKm      *float64    `json:"distanceKm,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// PaginationResponse - сведения о странице
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// IncidentListResponse DTO для страницы инцидентов
// @Description Страница инцидентов
type IncidentListResponse struct {
	Incidents  []*IncidentResponse `json:"incidents"`
	Pagination PaginationResponse  `json:"pagination"`
}

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}
