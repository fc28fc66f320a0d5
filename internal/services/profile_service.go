package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mentorhub/mentorhub-api/internal/cache"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/repository"
	"github.com/mentorhub/mentorhub-api/pkg/apperr"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
	"github.com/mentorhub/mentorhub-api/pkg/metrics"
	"github.com/mentorhub/mentorhub-api/pkg/storage"
	"go.uber.org/zap"
)

const maxBrowseLimit = 100

// ProfileService handles the profile directory: CRUD, browsing and avatar
// uploads
type ProfileService struct {
	profileRepo repository.ProfileStore
	cache       *cache.ProfileCache
	storage     *storage.Client
}

var _ ProfileServiceInterface = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService. The storage client may be
// nil when object storage is not configured; picture uploads then fail with
// an invalid operation error.
func NewProfileService(profileRepo repository.ProfileStore, profileCache *cache.ProfileCache, storageClient *storage.Client) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		cache:       profileCache,
		storage:     storageClient,
	}
}

// CreateProfile creates the user's directory profile
func (s *ProfileService) CreateProfile(ctx context.Context, userID int64, payload *models.CreateProfilePayload) (*models.Profile, error) {
	profile, err := s.profileRepo.Create(ctx, userID, payload)
	if err != nil {
		return nil, err
	}

	s.cache.Set(profile)
	logger.Info("Profile created",
		zap.Int64("user_id", userID),
		zap.String("role", string(profile.Role)))

	return profile, nil
}

// GetProfileByUserID returns the user's profile, served from cache when fresh
func (s *ProfileService) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	if profile, found := s.cache.Get(userID); found {
		return profile, nil
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(profile)
	return profile, nil
}

// UpdateProfile applies a partial update and invalidates the cached entry
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, payload *models.UpdateProfilePayload) (*models.Profile, error) {
	if payload.IsEmpty() {
		metrics.ProfileUpdates.WithLabelValues("invalid").Inc()
		return nil, apperr.InvalidOperation("no fields to update")
	}

	profile, err := s.profileRepo.UpdateByUserID(ctx, userID, payload)
	if err != nil {
		metrics.ProfileUpdates.WithLabelValues("error").Inc()
		return nil, err
	}

	s.cache.Set(profile)
	metrics.ProfileUpdates.WithLabelValues("success").Inc()
	logger.Info("Profile updated", zap.Int64("user_id", userID))

	return profile, nil
}

// DeleteProfile removes the user's profile from the directory
func (s *ProfileService) DeleteProfile(ctx context.Context, userID int64) error {
	if err := s.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}

	s.cache.Invalidate(userID)
	logger.Info("Profile deleted", zap.Int64("user_id", userID))

	return nil
}

// BrowseProfiles returns a filtered, paginated page of the directory
func (s *ProfileService) BrowseProfiles(ctx context.Context, filters models.ProfileFilters) (*models.ProfilesPage, error) {
	if filters.Role != "" && filters.Role != string(models.RoleMentor) && filters.Role != string(models.RoleMentee) {
		return nil, apperr.InvalidOperation(fmt.Sprintf("unknown role filter %q", filters.Role))
	}
	if filters.Limit > maxBrowseLimit {
		filters.Limit = maxBrowseLimit
	}

	return s.profileRepo.FindAll(ctx, filters)
}

// UploadPicture validates and stores an avatar, then records its public URL
// on the profile
func (s *ProfileService) UploadPicture(ctx context.Context, userID int64, payload *models.UploadPicturePayload) (string, error) {
	if s.storage == nil {
		metrics.ProfilePictureUploads.WithLabelValues("unavailable").Inc()
		return "", apperr.InvalidOperation("picture uploads are not enabled")
	}

	if err := s.storage.ValidateImageType(payload.ContentType); err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("invalid").Inc()
		return "", apperr.InvalidOperation(err.Error())
	}

	// Decode once; validation and upload share the bytes
	imageBytes, err := storage.DecodeImage(payload.ImageData)
	if err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("invalid").Inc()
		return "", apperr.InvalidOperation("invalid image payload: " + err.Error())
	}
	if err := s.storage.ValidateImageSize(imageBytes); err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("invalid").Inc()
		return "", apperr.InvalidOperation(err.Error())
	}

	key := s.storage.GenerateFileName(userID, payload.FileName)

	url, err := s.storage.UploadImage(ctx, imageBytes, key, payload.ContentType)
	if err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("error").Inc()
		logger.Error("Failed to upload profile picture",
			zap.Int64("user_id", userID), zap.Error(err))
		return "", apperr.Internal("failed to upload picture", err)
	}

	if err := s.profileRepo.SetPictureURL(ctx, userID, url); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			metrics.ProfilePictureUploads.WithLabelValues("not_found").Inc()
		} else {
			metrics.ProfilePictureUploads.WithLabelValues("error").Inc()
		}
		return "", err
	}

	s.cache.Invalidate(userID)
	metrics.ProfilePictureUploads.WithLabelValues("success").Inc()
	logger.Info("Profile picture uploaded",
		zap.Int64("user_id", userID), zap.String("key", key))

	return url, nil
}
