package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/pkg/apperr"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
	"github.com/mentorhub/mentorhub-api/pkg/metrics"
	"go.uber.org/zap"
)

// ProfileRepository handles profile directory data access
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

var _ ProfileStore = (*ProfileRepository)(nil)

const profileColumns = `p.id, p.user_id, p.role, p.first_name, p.last_name,
		p.headline, p.bio, p.skills, p.interests, p.linkedin_url, p.github_url,
		p.profile_picture_url, p.availability, p.created_at, p.updated_at, u.email`

// Create inserts a profile for the user. One profile per user; a second
// insert surfaces as a conflict.
func (r *ProfileRepository) Create(ctx context.Context, userID int64, payload *models.CreateProfilePayload) (*models.Profile, error) {
	start := time.Now()
	operation := "createProfile"

	skills := payload.Skills
	if skills == nil {
		skills = []string{}
	}
	interests := payload.Interests
	if interests == nil {
		interests = []string{}
	}

	query := `
		WITH inserted AS (
			INSERT INTO profiles (user_id, role, first_name, last_name, headline,
				bio, skills, interests, linkedin_url, github_url,
				profile_picture_url, availability)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING *
		)
		SELECT ` + strings.ReplaceAll(profileColumns, "p.", "i.") + `
		FROM inserted i
		JOIN users u ON u.id = i.user_id`

	profile, err := models.ScanProfile(r.pool.QueryRow(ctx, query,
		userID, payload.Role, payload.FirstName, payload.LastName,
		payload.Headline, payload.Bio, skills, interests,
		payload.LinkedinURL, payload.GithubURL, payload.ProfilePictureURL,
		payload.Availability,
	))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		switch pgErrCode(err) {
		case pgUniqueViolation:
			recordMetrics(operation, "conflict", duration)
			return nil, apperr.Conflict("profile already exists for this user")
		case pgForeignKeyViolation:
			recordMetrics(operation, "not_found", duration)
			return nil, apperr.NotFound("user")
		}
		logDBError(operation, duration, err, zap.Int64("user_id", userID))
		return nil, apperr.Internal("failed to create profile", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration, zap.Int64("user_id", userID))

	return profile, nil
}

// GetByUserID fetches a profile by the owning user's id
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	start := time.Now()
	operation := "getProfileByUserID"

	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1`

	profile, err := models.ScanProfile(r.pool.QueryRow(ctx, query, userID))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperr.NotFound("profile")
	}
	if err != nil {
		logDBError(operation, duration, err, zap.Int64("user_id", userID))
		return nil, apperr.Internal("failed to fetch profile", err)
	}

	recordMetrics(operation, "success", duration)
	return profile, nil
}

// UpdateByUserID applies a partial update: only non-nil payload fields are
// written. The SET clause is built dynamically to leave the rest untouched.
func (r *ProfileRepository) UpdateByUserID(ctx context.Context, userID int64, payload *models.UpdateProfilePayload) (*models.Profile, error) {
	start := time.Now()
	operation := "updateProfile"

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{userID}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if payload.Role != nil {
		addSet("role", *payload.Role)
	}
	if payload.FirstName != nil {
		addSet("first_name", *payload.FirstName)
	}
	if payload.LastName != nil {
		addSet("last_name", *payload.LastName)
	}
	if payload.Headline != nil {
		addSet("headline", *payload.Headline)
	}
	if payload.Bio != nil {
		addSet("bio", *payload.Bio)
	}
	if payload.Skills != nil {
		addSet("skills", payload.Skills)
	}
	if payload.Interests != nil {
		addSet("interests", payload.Interests)
	}
	if payload.LinkedinURL != nil {
		addSet("linkedin_url", *payload.LinkedinURL)
	}
	if payload.GithubURL != nil {
		addSet("github_url", *payload.GithubURL)
	}
	if payload.ProfilePictureURL != nil {
		addSet("profile_picture_url", *payload.ProfilePictureURL)
	}
	if payload.Availability != nil {
		addSet("availability", *payload.Availability)
	}

	query := `
		WITH updated AS (
			UPDATE profiles
			SET ` + strings.Join(setClauses, ", ") + `
			WHERE user_id = $1
			RETURNING *
		)
		SELECT ` + strings.ReplaceAll(profileColumns, "p.", "up.") + `
		FROM updated up
		JOIN users u ON u.id = up.user_id`

	profile, err := models.ScanProfile(r.pool.QueryRow(ctx, query, args...))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperr.NotFound("profile")
	}
	if err != nil {
		logDBError(operation, duration, err, zap.Int64("user_id", userID))
		return nil, apperr.Internal("failed to update profile", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration, zap.Int64("user_id", userID))

	return profile, nil
}

// DeleteByUserID removes the user's profile
func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	start := time.Now()
	operation := "deleteProfile"

	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		logDBError(operation, duration, err, zap.Int64("user_id", userID))
		return apperr.Internal("failed to delete profile", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperr.NotFound("profile")
	}

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration, zap.Int64("user_id", userID))

	return nil
}

// FindAll returns a page of profiles matching the filters. Skills and
// interests filter with array overlap, so any shared entry matches.
func (r *ProfileRepository) FindAll(ctx context.Context, filters models.ProfileFilters) (*models.ProfilesPage, error) {
	start := time.Now()
	operation := "findProfiles"

	conditions := []string{}
	args := []interface{}{}

	addCondition := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filters.Role != "" {
		addCondition("p.role = $%d", filters.Role)
	}
	if len(filters.Skills) > 0 {
		addCondition("p.skills && $%d", filters.Skills)
	}
	if len(filters.Interests) > 0 {
		addCondition("p.interests && $%d", filters.Interests)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM profiles p ` + whereClause

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		duration := metrics.MeasureDuration(start)
		logDBError(operation, duration, err)
		return nil, apperr.Internal("failed to count profiles", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT `+profileColumns+`
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		logDBError(operation, duration, err)
		return nil, apperr.Internal("failed to fetch profiles", err)
	}

	profiles, err := models.ScanProfiles(rows)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		logDBError(operation, duration, err)
		return nil, apperr.Internal("failed to scan profiles", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration,
		zap.Int("count", len(profiles)), zap.Int("page", page))

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	return &models.ProfilesPage{
		Profiles:      profiles,
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalProfiles: total,
	}, nil
}

// SetPictureURL stores the uploaded avatar's public URL
func (r *ProfileRepository) SetPictureURL(ctx context.Context, userID int64, url string) error {
	start := time.Now()
	operation := "setProfilePicture"

	tag, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET profile_picture_url = $2, updated_at = NOW()
		WHERE user_id = $1`, userID, url)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		logDBError(operation, duration, err, zap.Int64("user_id", userID))
		return apperr.Internal("failed to update profile picture", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperr.NotFound("profile")
	}

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration, zap.Int64("user_id", userID))

	return nil
}
