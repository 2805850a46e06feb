package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/analytics"
	"github.com/shenikar/incident_reporting/internal/config"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/shenikar/incident_reporting/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "test-secret"

var (
	testUser      = models.Actor{UserID: uuid.New(), Role: models.RoleUser}
	testModerator = models.Actor{UserID: uuid.New(), Role: models.RoleModerator}
)

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*Handler, *mocks.MockIncidentService, *mocks.MockAnalyticsService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockIncidentService(ctrl)
	mockAnalytics := mocks.NewMockAnalyticsService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		JWTSecret:     testSecret,
		QueryMaxLimit: 100,
	}

	handler := NewHandler(mockService, mockAnalytics, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, mockService, mockAnalytics, router
}

// bearer подписывает токен для пользователя
func bearer(t *testing.T, actor models.Actor) map[string]string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + signed}
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleIncident(status models.Status, reporter uuid.UUID) *models.Incident {
	now := time.Now().UTC()
	return &models.Incident{
		ID:          uuid.New(),
		Type:        models.TypeFlooding,
		Description: "Затопило подвал",
		Location:    models.NewLocation(30.3, 59.9, "Невский пр."),
		Images:      []string{},
		Status:      status,
		ReportedBy:  reporter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateIncident_Success(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	reqBody := CreateIncidentRequest{
		Type:        "flooding",
		Description: "Затопило подвал",
		Location:    &LocationDTO{Type: "Point", Coordinates: []float64{30.3, 59.9}, Address: "Невский пр."},
	}
	expectedIncident := sampleIncident(models.StatusReported, testUser.UserID)

	mockService.EXPECT().
		CreateIncident(gomock.Any(), testUser, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Actor, draft models.IncidentDraft) (*models.Incident, error) {
			assert.Equal(t, 30.3, draft.Longitude)
			assert.Equal(t, 59.9, draft.Latitude)
			assert.Equal(t, models.TypeFlooding, draft.Type)
			return expectedIncident, nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes), bearer(t, testUser))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, expectedIncident.ID, resp.ID)
	assert.Equal(t, "reported", resp.Status)
	assert.Equal(t, []float64{30.3, 59.9}, resp.Location.Coordinates)
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)

	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"type": "fire"`), bearer(t, testUser))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateIncident_ValidationError(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	reqBody := CreateIncidentRequest{ // Координат должно быть две
		Type:        "fire",
		Description: "Горит мусорный бак",
		Location:    &LocationDTO{Coordinates: []float64{30.3}},
	}

	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes), bearer(t, testUser))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Coordinates' failed on the 'len' tag")
}

func TestCreateIncident_DomainValidationError(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	reqBody := CreateIncidentRequest{
		Type:        "meteor",
		Description: "Упал метеорит",
		Location:    &LocationDTO{Coordinates: []float64{30.3, 59.9}},
	}

	mockService.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: could not create incident: %w: type must be one of [road_hazard]", models.ErrValidation))

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes), bearer(t, testUser))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "type must be one of")
}

func TestAuth(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	t.Run("missing token", func(t *testing.T) {
		w := makeRequest(router, "GET", "/api/v1/incidents/my-incidents", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
		})
		signed, _ := token.SignedString([]byte("other-secret"))
		w := makeRequest(router, "GET", "/api/v1/incidents/my-incidents", nil, map[string]string{"Authorization": "Bearer " + signed})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user cannot moderate", func(t *testing.T) {
		w := makeRequest(router, "PATCH", "/api/v1/incidents/"+uuid.NewString()+"/verify", nil, bearer(t, testUser))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("user cannot read analytics", func(t *testing.T) {
		w := makeRequest(router, "GET", "/api/v1/analytics/overall", nil, bearer(t, testUser))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestParseToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: testModerator.UserID.String()},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	actor, err := ParseToken(signed, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, models.Actor{UserID: testModerator.UserID, Role: models.RoleAdmin}, actor)

	bad := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "superuser",
		RegisteredClaims: jwt.RegisteredClaims{Subject: testModerator.UserID.String()},
	})
	signed, _ = bad.SignedString([]byte(testSecret))
	_, err = ParseToken(signed, []byte(testSecret))
	assert.Error(t, err)
}

func TestListVerifiedIncidents_Public(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	item := sampleIncident(models.StatusVerified, uuid.Nil)

	mockService.EXPECT().
		ListPublic(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q models.ListQuery) (*models.IncidentPage, error) {
			assert.Equal(t, 2, q.Page)
			assert.Equal(t, 5, q.Limit)
			require.NotNil(t, q.Filter.Geo)
			assert.Equal(t, models.SortDistance, q.Sort.Field)
			return &models.IncidentPage{Items: []*models.Incident{item}, Page: 2, Limit: 5, Total: 6, Pages: 2}, nil
		})

	w := makeRequest(router, "GET", "/api/v1/incidents/verified?page=2&limit=5&latitude=59.9&longitude=30.3", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, PaginationResponse{Page: 2, Limit: 5, Total: 6, Pages: 2}, resp.Pagination)
	require.Len(t, resp.Incidents, 1)
	assert.Nil(t, resp.Incidents[0].ReportedBy)
}

func TestListVerifiedIncidents_BadCoordinates(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	mockService.EXPECT().ListPublic(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents/verified?latitude=200&longitude=30", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAllIncidents_Moderator(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	mockService.EXPECT().
		ListAll(gomock.Any(), testModerator, gomock.Any()).
		Return(&models.IncidentPage{Items: []*models.Incident{}, Page: 1, Limit: 10}, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents?status=rejected", nil, bearer(t, testModerator))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"incidents":[],"pagination":{"page":1,"limit":10,"total":0,"pages":0}}`, w.Body.String())
}

func TestGetIncident_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", fmt.Errorf("service: could not get incident: %w", models.ErrNotFound), http.StatusNotFound},
		{"forbidden", models.ErrForbidden, http.StatusForbidden},
		{"infrastructure", fmt.Errorf("failed to get incident: %w: %w", models.ErrInfrastructure, errors.New("conn reset")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, mockService, _, router := newTestHandler(t)
			id := uuid.New()
			mockService.EXPECT().GetIncident(gomock.Any(), testUser, id).Return(nil, tc.err)

			w := makeRequest(router, "GET", "/api/v1/incidents/"+id.String(), nil, bearer(t, testUser))

			assert.Equal(t, tc.code, w.Code)
			assert.NotContains(t, w.Body.String(), "conn reset")
		})
	}
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/incidents/not-a-uuid", nil, bearer(t, testUser))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestUpdateIncident_Conflict(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	id := uuid.New()
	description := "Уже убрали"

	mockService.EXPECT().
		UpdateIncident(gomock.Any(), testUser, id, models.IncidentPatch{Description: &description}).
		Return(nil, fmt.Errorf("service: could not update incident: %w: incident is already verified", models.ErrConflict))

	body, _ := json.Marshal(UpdateIncidentRequest{Description: &description})
	w := makeRequest(router, "PUT", "/api/v1/incidents/"+id.String(), bytes.NewBuffer(body), bearer(t, testUser))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "incident is already verified")
}

func TestDeleteIncident_Success(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	id := uuid.New()
	mockService.EXPECT().DeleteIncident(gomock.Any(), testUser, id).Return(nil)

	w := makeRequest(router, "DELETE", "/api/v1/incidents/"+id.String(), nil, bearer(t, testUser))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestModeration(t *testing.T) {
	t.Run("verify", func(t *testing.T) {
		_, mockService, _, router := newTestHandler(t)
		in := sampleIncident(models.StatusVerified, uuid.New())
		mockService.EXPECT().VerifyIncident(gomock.Any(), testModerator, in.ID).Return(in, nil)

		w := makeRequest(router, "PATCH", "/api/v1/incidents/"+in.ID.String()+"/verify", nil, bearer(t, testModerator))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"verified"`)
	})

	t.Run("reject with reason", func(t *testing.T) {
		_, mockService, _, router := newTestHandler(t)
		in := sampleIncident(models.StatusRejected, uuid.New())
		mockService.EXPECT().RejectIncident(gomock.Any(), testModerator, in.ID, "дубликат").Return(in, nil)

		w := makeRequest(router, "PATCH", "/api/v1/incidents/"+in.ID.String()+"/reject",
			bytes.NewBufferString(`{"reason":"дубликат"}`), bearer(t, testModerator))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject without body", func(t *testing.T) {
		_, mockService, _, router := newTestHandler(t)
		in := sampleIncident(models.StatusRejected, uuid.New())
		mockService.EXPECT().RejectIncident(gomock.Any(), testModerator, in.ID, "").Return(in, nil)

		w := makeRequest(router, "PATCH", "/api/v1/incidents/"+in.ID.String()+"/reject", nil, bearer(t, testModerator))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("resolve conflict", func(t *testing.T) {
		_, mockService, _, router := newTestHandler(t)
		id := uuid.New()
		mockService.EXPECT().ResolveIncident(gomock.Any(), testModerator, id).
			Return(nil, fmt.Errorf("%w: cannot resolve incident in status reported", models.ErrConflict))

		w := makeRequest(router, "PATCH", "/api/v1/incidents/"+id.String()+"/resolve", nil, bearer(t, testModerator))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAnalytics(t *testing.T) {
	t.Run("over time passes period and days", func(t *testing.T) {
		_, _, mockAnalytics, router := newTestHandler(t)
		mockAnalytics.EXPECT().
			OverTime(gomock.Any(), analytics.PeriodWeek, 14).
			Return([]analytics.Bucket{{Year: 2024, Week: 10, Count: 3}}, nil)

		w := makeRequest(router, "GET", "/api/v1/analytics/over-time?period=week&days=14", nil, bearer(t, testModerator))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":3`)
	})

	t.Run("top reporters with bad limit", func(t *testing.T) {
		_, _, mockAnalytics, router := newTestHandler(t)
		mockAnalytics.EXPECT().TopReporters(gomock.Any(), 0).Return([]analytics.Reporter{}, nil)

		w := makeRequest(router, "GET", "/api/v1/analytics/top-reporters?limit=many", nil, bearer(t, testModerator))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("overall failure", func(t *testing.T) {
		_, _, mockAnalytics, router := newTestHandler(t)
		mockAnalytics.EXPECT().Overall(gomock.Any()).Return(analytics.Overall{}, models.ErrInfrastructure)

		w := makeRequest(router, "GET", "/api/v1/analytics/overall", nil, bearer(t, testModerator))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHealthCheck(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
