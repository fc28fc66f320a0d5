package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mentorhub/mentorhub-api/internal/middleware"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/services"
)

// ProfileHandler handles profile directory endpoints
type ProfileHandler struct {
	service services.ProfileServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service services.ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

// CreateProfile handles POST /api/v1/profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload models.CreateProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	profile, err := h.service.CreateProfile(c.Request.Context(), userID, &payload)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetMyProfile handles GET /api/v1/profiles/me
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	h.getProfile(c, userID)
}

// GetProfileByUserID handles GET /api/v1/profiles/:userId
func (h *ProfileHandler) GetProfileByUserID(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID < 1 {
		respondError(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}

	h.getProfile(c, userID)
}

func (h *ProfileHandler) getProfile(c *gin.Context, userID int64) {
	profile, err := h.service.GetProfileByUserID(c.Request.Context(), userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/profiles/me
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload models.UpdateProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &payload)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteProfile handles DELETE /api/v1/profiles/me
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := h.service.DeleteProfile(c.Request.Context(), userID); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted"})
}

// BrowseProfiles handles GET /api/v1/profiles
// Supports role, skills and interests filters plus pagination
func (h *ProfileHandler) BrowseProfiles(c *gin.Context) {
	filters := models.ProfileFilters{
		Role:      c.Query("role"),
		Skills:    splitCommaParam(c.Query("skills")),
		Interests: splitCommaParam(c.Query("interests")),
		Page:      parseIntParam(c.Query("page"), 1),
		Limit:     parseIntParam(c.Query("limit"), 20),
	}

	page, err := h.service.BrowseProfiles(c.Request.Context(), filters)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// UploadPicture handles POST /api/v1/profiles/me/picture
func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload models.UploadPicturePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	url, err := h.service.UploadPicture(c.Request.Context(), userID, &payload)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Picture uploaded",
		"profilePictureUrl": url,
	})
}

func splitCommaParam(value string) []string {
	if value == "" {
		return nil
	}

	parts := []string{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}

	return parts
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}

	return parsed
}
