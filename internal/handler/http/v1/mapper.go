package v1

import (
	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
)

// CreateRequestToDraft преобразует DTO создания в черновик инцидента
func CreateRequestToDraft(dto CreateIncidentRequest) models.IncidentDraft {
	return models.IncidentDraft{
		Type:        models.IncidentType(dto.Type),
		Description: dto.Description,
		Longitude:   dto.Location.Coordinates[0],
		Latitude:    dto.Location.Coordinates[1],
		Address:     dto.Location.Address,
		Images:      dto.Images,
	}
}

// UpdateRequestToPatch преобразует DTO обновления в патч
func UpdateRequestToPatch(dto UpdateIncidentRequest) models.IncidentPatch {
	var patch models.IncidentPatch
	if dto.Type != nil {
		t := models.IncidentType(*dto.Type)
		patch.Type = &t
	}
	patch.Description = dto.Description
	if dto.Location != nil {
		loc := models.NewLocation(dto.Location.Coordinates[0], dto.Location.Coordinates[1], dto.Location.Address)
		patch.Location = &loc
	}
	patch.Images = dto.Images
	return patch
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа.
// Скрытый автор (uuid.Nil) в ответ не попадает.
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	resp := &IncidentResponse{
		ID:          model.ID,
		Type:        string(model.Type),
		Description: model.Description,
		Location: LocationDTO{
			Type:        models.GeoJSONPoint,
			Coordinates: []float64{model.Location.Longitude(), model.Location.Latitude()},
			Address:     model.Location.Address,
		},
		Images:          model.Images,
		Status:          string(model.Status),
		VerifiedBy:      model.VerifiedBy,
		VerifiedAt:      model.VerifiedAt,
		RejectionReason: model.RejectionReason,
		ResolvedAt:      model.ResolvedAt,
		DistanceKm:      model.DistanceKm,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if model.ReportedBy != uuid.Nil {
		reporter := model.ReportedBy
		resp.ReportedBy = &reporter
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	return resp
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// PageToResponse преобразует страницу выборки в DTO
func PageToResponse(page *models.IncidentPage) *IncidentListResponse {
	return &IncidentListResponse{
		Incidents: ModelsToIncidentResponses(page.Items),
		Pagination: PaginationResponse{
			Page:  page.Page,
			Limit: page.Limit,
			Total: page.Total,
			Pages: page.Pages,
		},
	}
}
