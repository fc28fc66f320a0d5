package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mentorhub/mentorhub-api/internal/middleware"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/pkg/apperr"
	"github.com/mentorhub/mentorhub-api/pkg/jwt"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)

	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// MockRequestService is a mock implementation of services.RequestServiceInterface
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) CreateRequest(ctx context.Context, senderID int64, payload *models.CreateRequestPayload) (*models.MentorshipRequest, error) {
	args := m.Called(ctx, senderID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorshipRequest), args.Error(1)
}

func (m *MockRequestService) GetRequestsForUser(ctx context.Context, userID int64) (*models.RequestsResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RequestsResponse), args.Error(1)
}

func (m *MockRequestService) UpdateRequestStatus(ctx context.Context, actorID, requestID int64, newStatus models.RequestStatus) (*models.MentorshipRequest, error) {
	args := m.Called(ctx, actorID, requestID, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorshipRequest), args.Error(1)
}

func newRequestTestRouter(service *MockRequestService) (*gin.Engine, string) {
	tokenManager := jwt.NewTokenManager("access-secret", "refresh-secret", "test", 15, 168)
	token, err := tokenManager.GenerateAccessToken(1, "user@example.com")
	if err != nil {
		panic(err)
	}

	handler := NewRequestHandler(service)

	router := gin.New()
	requests := router.Group("/api/v1/requests")
	requests.Use(middleware.JWTAuthMiddleware(tokenManager))
	requests.POST("", handler.CreateRequest)
	requests.GET("", handler.GetRequests)
	requests.PATCH("/:id", handler.UpdateStatus)

	return router, token
}

func TestRequestHandler_CreateRequest(t *testing.T) {
	mockService := new(MockRequestService)
	router, token := newRequestTestRouter(mockService)

	created := &models.MentorshipRequest{
		ID:          10,
		MenteeID:    1,
		MentorID:    2,
		Message:     "Hello",
		Status:      models.StatusPending,
		RequestedAt: time.Now(),
	}
	mockService.On("CreateRequest", mock.Anything, int64(1),
		&models.CreateRequestPayload{ReceiverID: 2, Message: "Hello"}).
		Return(created, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/requests",
		strings.NewReader(`{"receiverId": 2, "message": "Hello"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)

	mockService.AssertExpectations(t)
}

func TestRequestHandler_CreateRequest_MissingReceiver(t *testing.T) {
	mockService := new(MockRequestService)
	router, token := newRequestTestRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/requests",
		strings.NewReader(`{"message": "Hello"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateRequest")
}

func TestRequestHandler_CreateRequest_SelfRequest(t *testing.T) {
	mockService := new(MockRequestService)
	router, token := newRequestTestRouter(mockService)

	mockService.On("CreateRequest", mock.Anything, int64(1),
		&models.CreateRequestPayload{ReceiverID: 1}).
		Return(nil, apperr.InvalidOperation("cannot send a mentorship request to yourself")).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/requests",
		strings.NewReader(`{"receiverId": 1}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "yourself")
}

func TestRequestHandler_CreateRequest_Duplicate(t *testing.T) {
	mockService := new(MockRequestService)
	router, token := newRequestTestRouter(mockService)

	mockService.On("CreateRequest", mock.Anything, int64(1),
		&models.CreateRequestPayload{ReceiverID: 2}).
		Return(nil, apperr.Conflict("an active request to this mentor already exists")).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/requests",
		strings.NewReader(`{"receiverId": 2}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRequestHandler_CreateRequest_Unauthorized(t *testing.T) {
	mockService := new(MockRequestService)
	router, _ := newRequestTestRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/requests",
		strings.NewReader(`{"receiverId": 2}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "CreateRequest")
}

func TestRequestHandler_GetRequests(t *testing.T) {
	mockService := new(MockRequestService)
	router, token := newRequestTestRouter(mockService)

	response := &models.RequestsResponse{
		Requests: []models.RequestDetails{},
		Total:    0,
	}
	mockService.On("GetRequestsForUser", mock.Anything, int64(1)).Return(response, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/requests", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"requests": [], "total": 0}`, w.Body.String())
}

func TestRequestHandler_UpdateStatus(t *testing.T) {
	mockService := new(MockRequestService)
	router, token := newRequestTestRouter(mockService)

	respondedAt := time.Now()
	updated := &models.MentorshipRequest{
		ID:          10,
		MenteeID:    5,
		MentorID:    1,
		Status:      models.StatusAccepted,
		RequestedAt: time.Now().Add(-time.Hour),
		RespondedAt: &respondedAt,
	}
	mockService.On("UpdateRequestStatus", mock.Anything, int64(1), int64(10), models.StatusAccepted).
		Return(updated, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/v1/requests/10",
		strings.NewReader(`{"status": "accepted"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"accepted"`)
}

func TestRequestHandler_UpdateStatus_Forbidden(t *testing.T) {
	mockService := new(MockRequestService)
	router, token := newRequestTestRouter(mockService)

	mockService.On("UpdateRequestStatus", mock.Anything, int64(1), int64(10), models.StatusCancelled).
		Return(nil, apperr.Forbidden("only the mentee can cancel a request")).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/v1/requests/10",
		strings.NewReader(`{"status": "cancelled"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestHandler_UpdateStatus_InvalidID(t *testing.T) {
	mockService := new(MockRequestService)
	router, token := newRequestTestRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/v1/requests/abc",
		strings.NewReader(`{"status": "accepted"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "UpdateRequestStatus")
}

func TestRequestHandler_UpdateStatus_NotFound(t *testing.T) {
	mockService := new(MockRequestService)
	router, token := newRequestTestRouter(mockService)

	mockService.On("UpdateRequestStatus", mock.Anything, int64(1), int64(404), models.StatusAccepted).
		Return(nil, apperr.NotFound("mentorship request")).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/v1/requests/404",
		strings.NewReader(`{"status": "accepted"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
