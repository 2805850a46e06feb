package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/incident_reporting/internal/analytics"
)

// queryInt возвращает 0 для отсутствующего или нечислового параметра, движок подставит значение по умолчанию
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

// respond пишет результат или ошибку
func (h *Handler) respond(c *gin.Context, method string, result any, err error) {
	if err != nil {
		writeError(c, h.logger.WithField("method", method), err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Overall statistics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analytics.Overall
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /analytics/overall [get]
func (h *Handler) overallStats(c *gin.Context) {
	res, err := h.analyticsService.Overall(c.Request.Context())
	h.respond(c, "overallStats", res, err)
}

// @Summary Incidents by type
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} analytics.TypeStat
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /analytics/by-type [get]
func (h *Handler) statsByType(c *gin.Context) {
	res, err := h.analyticsService.ByType(c.Request.Context())
	h.respond(c, "statsByType", res, err)
}

// @Summary Incidents by status
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} analytics.StatusStat
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /analytics/by-status [get]
func (h *Handler) statsByStatus(c *gin.Context) {
	res, err := h.analyticsService.ByStatus(c.Request.Context())
	h.respond(c, "statsByStatus", res, err)
}

// @Summary Incidents over time
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "day, week or month" default(day)
// @Param days query int false "Window in days" default(30)
// @Success 200 {array} analytics.Bucket
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /analytics/over-time [get]
func (h *Handler) statsOverTime(c *gin.Context) {
	period := analytics.ParsePeriod(c.Query("period"))
	res, err := h.analyticsService.OverTime(c.Request.Context(), period, queryInt(c, "days"))
	h.respond(c, "statsOverTime", res, err)
}

// @Summary Top reporters
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of reporters" default(10)
// @Success 200 {array} analytics.Reporter
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /analytics/top-reporters [get]
func (h *Handler) topReporters(c *gin.Context) {
	res, err := h.analyticsService.TopReporters(c.Request.Context(), queryInt(c, "limit"))
	h.respond(c, "topReporters", res, err)
}

// @Summary Recent activity
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of items" default(10)
// @Success 200 {object} analytics.RecentActivity
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /analytics/recent-activity [get]
func (h *Handler) recentActivity(c *gin.Context) {
	res, err := h.analyticsService.RecentActivity(c.Request.Context(), queryInt(c, "limit"))
	h.respond(c, "recentActivity", res, err)
}

// @Summary Verification statistics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analytics.Verification
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /analytics/verification-stats [get]
func (h *Handler) verificationStats(c *gin.Context) {
	res, err := h.analyticsService.Verification(c.Request.Context())
	h.respond(c, "verificationStats", res, err)
}
