package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/config"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/shenikar/incident_reporting/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService  service.IncidentService
	analyticsService service.AnalyticsService
	logger           *logrus.Logger
	validate         *validator.Validate
	cfg              *config.Config
}

func NewHandler(incidentService service.IncidentService, analyticsService service.AnalyticsService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService:  incidentService,
		analyticsService: analyticsService,
		logger:           logger,
		validate:         validator.New(),
		cfg:              cfg,
	}
}

// bindJSON разбирает и проверяет тело запроса. При ошибке ответ уже записан.
func (h *Handler) bindJSON(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// incidentID разбирает :id. При ошибке ответ уже записан.
func incidentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid incident ID"})
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Report a new incident
// @Description Create a new incident on behalf of the authenticated user. Status starts as reported.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if !h.bindJSON(c, log, &input) {
		return
	}

	incident, err := h.incidentService.CreateIncident(c.Request.Context(), actorFrom(c), CreateRequestToDraft(input))
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

// listIncidents разбирает параметры выборки и вызывает list
func (h *Handler) listIncidents(c *gin.Context, method string, list func(q models.ListQuery) (*models.IncidentPage, error)) {
	log := h.logger.WithField("method", method)

	q, err := service.ParseListQuery(c.Request.URL.Query(), h.cfg.QueryMaxLimit)
	if err != nil {
		writeError(c, log, err)
		return
	}
	page, err := list(q)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, PageToResponse(page))
}

// @Summary List verified incidents
// @Description Public paginated list of verified incidents. Reporter and moderator ids are omitted.
// @Tags Incidents
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param type query string false "Incident type or all"
// @Param search query string false "Case-insensitive substring of description"
// @Param startDate query string false "RFC3339 or YYYY-MM-DD"
// @Param endDate query string false "RFC3339 or YYYY-MM-DD"
// @Param latitude query number false "Center latitude"
// @Param longitude query number false "Center longitude"
// @Param radiusKm query number false "Radius in km" default(10)
// @Param sortBy query string false "createdAt, updatedAt, verifiedAt, resolvedAt, type, status, distance"
// @Param sortOrder query string false "asc or desc" default(desc)
// @Success 200 {object} IncidentListResponse
// @Failure 400 {object} ErrorResponse "Malformed coordinates, radius or dates"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/verified [get]
func (h *Handler) listVerifiedIncidents(c *gin.Context) {
	h.listIncidents(c, "listVerifiedIncidents", func(q models.ListQuery) (*models.IncidentPage, error) {
		return h.incidentService.ListPublic(c.Request.Context(), q)
	})
}

// @Summary List my incidents
// @Description Paginated list of incidents reported by the authenticated user, any status.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param status query string false "Status or all"
// @Success 200 {object} IncidentListResponse
// @Failure 400 {object} ErrorResponse "Malformed query"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/my-incidents [get]
func (h *Handler) listMyIncidents(c *gin.Context) {
	h.listIncidents(c, "listMyIncidents", func(q models.ListQuery) (*models.IncidentPage, error) {
		return h.incidentService.ListMine(c.Request.Context(), actorFrom(c), q)
	})
}

// @Summary List all incidents
// @Description Paginated list of all incidents with full filtering. Moderators and admins only.
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param status query string false "Status or all"
// @Param reportedBy query string false "Reporter id"
// @Param verifiedBy query string false "Moderator id"
// @Success 200 {object} IncidentListResponse
// @Failure 400 {object} ErrorResponse "Malformed query"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [get]
func (h *Handler) listAllIncidents(c *gin.Context) {
	h.listIncidents(c, "listAllIncidents", func(q models.ListQuery) (*models.IncidentPage, error) {
		return h.incidentService.ListAll(c.Request.Context(), actorFrom(c), q)
	})
}

// @Summary Get incident by ID
// @Description Verified incidents are visible to everyone. Others only to the reporter and moderators.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid incident ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := incidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Update own incident
// @Description Partial update of type, description, location or images. Only the reporter, only while reported.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param incident body UpdateIncidentRequest true "Incident update request"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid incident ID or request body"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the reporter"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Incident already moderated"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id} [put]
func (h *Handler) updateIncident(c *gin.Context) {
	id, ok := incidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateIncident").WithField("id", id)

	var input UpdateIncidentRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	incident, err := h.incidentService.UpdateIncident(c.Request.Context(), actorFrom(c), id, UpdateRequestToPatch(input))
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Delete own incident
// @Description Delete an incident. Only the reporter, only while reported.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Invalid incident ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the reporter"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Incident already moderated"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id} [delete]
func (h *Handler) deleteIncident(c *gin.Context) {
	id, ok := incidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "deleteIncident").WithField("id", id)

	if err := h.incidentService.DeleteIncident(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Verify an incident
// @Description Moderation transition to verified. Allowed from reported and rejected.
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid incident ID"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Transition not allowed"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id}/verify [patch]
func (h *Handler) verifyIncident(c *gin.Context) {
	id, ok := incidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "verifyIncident").WithField("id", id)

	incident, err := h.incidentService.VerifyIncident(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Reject an incident
// @Description Moderation transition to rejected. Allowed from reported and verified.
// @Tags Moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param body body RejectIncidentRequest false "Rejection reason"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid incident ID or request body"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Transition not allowed"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id}/reject [patch]
func (h *Handler) rejectIncident(c *gin.Context) {
	id, ok := incidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "rejectIncident").WithField("id", id)

	var input RejectIncidentRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, log, &input) {
		return
	}

	incident, err := h.incidentService.RejectIncident(c.Request.Context(), actorFrom(c), id, input.Reason)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Resolve an incident
// @Description Moderation transition to resolved. Allowed from verified only.
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid incident ID"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Transition not allowed"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id}/resolve [patch]
func (h *Handler) resolveIncident(c *gin.Context) {
	id, ok := incidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "resolveIncident").WithField("id", id)

	incident, err := h.incidentService.ResolveIncident(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
