package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/sirupsen/logrus"
)

const actorKey = "actor"

// Claims - утверждения токена, выпущенного внешним сервисом учетных записей.
// Subject содержит ID пользователя.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken проверяет подпись HS256 и возвращает пользователя из токена
func ParseToken(tokenString string, secret []byte) (models.Actor, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Actor{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.Actor{}, errors.New("invalid subject claim")
	}
	role := models.Role(claims.Role)
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return models.Actor{}, errors.New("invalid role claim")
	}
	return models.Actor{UserID: userID, Role: role}, nil
}

// AuthMiddleware - middleware для аутентификации по Bearer JWT
func AuthMiddleware(secret []byte, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Warn("Bearer token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization token required"})
			return
		}

		actor, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			log.WithError(err).Warn("Invalid token provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequirePrivileged пропускает только модераторов и администраторов
func RequirePrivileged() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).Privileged() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "moderator or admin role required"})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{}
}
