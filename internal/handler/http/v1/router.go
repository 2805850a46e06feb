package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := AuthMiddleware([]byte(h.cfg.JWTSecret), h.logger)

	// Публичный список подтвержденных инцидентов
	api.GET("/incidents/verified", h.listVerifiedIncidents)

	// Маршруты для пользователей
	incidents := api.Group("/incidents", auth)
	{
		incidents.POST("", h.createIncident)
		incidents.GET("/my-incidents", h.listMyIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PUT("/:id", h.updateIncident)
		incidents.DELETE("/:id", h.deleteIncident)
	}

	// Маршруты модерации
	moderation := api.Group("/incidents", auth, RequirePrivileged())
	{
		moderation.GET("", h.listAllIncidents)
		moderation.PATCH("/:id/verify", h.verifyIncident)
		moderation.PATCH("/:id/reject", h.rejectIncident)
		moderation.PATCH("/:id/resolve", h.resolveIncident)
	}

	// Статистика
	stats := api.Group("/analytics", auth, RequirePrivileged())
	{
		stats.GET("/overall", h.overallStats)
		stats.GET("/by-type", h.statsByType)
		stats.GET("/by-status", h.statsByStatus)
		stats.GET("/over-time", h.statsOverTime)
		stats.GET("/top-reporters", h.topReporters)
		stats.GET("/recent-activity", h.recentActivity)
		stats.GET("/verification-stats", h.verificationStats)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
