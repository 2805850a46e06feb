package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/sirupsen/logrus"
)

// writeError переводит класс ошибки в HTTP-статус. Подробности инфраструктурных ошибок наружу не отдаются.
func writeError(c *gin.Context, log *logrus.Entry, err error) {
	var status int
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	log.WithError(err).Warn("Request rejected")
	c.JSON(status, ErrorResponse{Error: publicMessage(err)})
}

// publicMessage убирает префиксы слоев ("service: could not ...") из текста ошибки
func publicMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && strings.HasPrefix(msg, "service:") {
		return msg[i+2:]
	}
	return msg
}
