package services

import (
	"context"

	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/pkg/jwt"
)

// AuthServiceInterface defines the interface for authentication operations
type AuthServiceInterface interface {
	Register(ctx context.Context, payload *models.RegisterPayload) (*models.AuthUser, string, string, error)
	Login(ctx context.Context, payload *models.LoginPayload) (*models.AuthUser, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	GetTokenManager() *jwt.TokenManager
	GetCookieDomain() string
	GetCookieSecure() bool
}

// ProfileServiceInterface defines the interface for profile directory operations
type ProfileServiceInterface interface {
	CreateProfile(ctx context.Context, userID int64, payload *models.CreateProfilePayload) (*models.Profile, error)
	GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, payload *models.UpdateProfilePayload) (*models.Profile, error)
	DeleteProfile(ctx context.Context, userID int64) error
	BrowseProfiles(ctx context.Context, filters models.ProfileFilters) (*models.ProfilesPage, error)
	UploadPicture(ctx context.Context, userID int64, payload *models.UploadPicturePayload) (string, error)
}

// RequestServiceInterface defines the interface for the mentorship request
// lifecycle
type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, senderID int64, payload *models.CreateRequestPayload) (*models.MentorshipRequest, error)
	GetRequestsForUser(ctx context.Context, userID int64) (*models.RequestsResponse, error)
	UpdateRequestStatus(ctx context.Context, actorID, requestID int64, newStatus models.RequestStatus) (*models.MentorshipRequest, error)
}
