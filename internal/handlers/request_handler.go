package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mentorhub/mentorhub-api/internal/middleware"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/services"
)

// RequestHandler handles mentorship request endpoints
type RequestHandler struct {
	service services.RequestServiceInterface
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(service services.RequestServiceInterface) *RequestHandler {
	return &RequestHandler{
		service: service,
	}
}

// CreateRequest handles POST /api/v1/requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload models.CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	request, err := h.service.CreateRequest(c.Request.Context(), userID, &payload)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetRequests handles GET /api/v1/requests
// Returns every request the authenticated user participates in
func (h *RequestHandler) GetRequests(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	response, err := h.service.GetRequestsForUser(c.Request.Context(), userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateStatus handles PATCH /api/v1/requests/:id
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || requestID < 1 {
		respondError(c, http.StatusBadRequest, "Invalid request ID", err)
		return
	}

	var payload models.UpdateRequestStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	request, err := h.service.UpdateRequestStatus(c.Request.Context(), userID, requestID, payload.Status)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
