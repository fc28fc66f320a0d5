package repository

import (
	"context"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/models"
)

// UserStore defines the account persistence contract
type UserStore interface {
	// Create inserts a new user and returns it with the generated id
	Create(ctx context.Context, email, passwordHash string, role models.UserRole) (*models.User, error)

	// GetByEmail fetches a user by email, including the password hash
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID fetches a user by id
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ProfileStore defines the profile directory persistence contract
type ProfileStore interface {
	Create(ctx context.Context, userID int64, payload *models.CreateProfilePayload) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateByUserID(ctx context.Context, userID int64, payload *models.UpdateProfilePayload) (*models.Profile, error)
	DeleteByUserID(ctx context.Context, userID int64) error
	FindAll(ctx context.Context, filters models.ProfileFilters) (*models.ProfilesPage, error)
	SetPictureURL(ctx context.Context, userID int64, url string) error
}

// RequestStore defines the mentorship request persistence contract the
// lifecycle engine relies on. UpdateStatusAtomic carries the
// compare-and-swap semantics that make concurrent transitions safe.
type RequestStore interface {
	// Insert persists a new pending request and returns it with the
	// generated id. A unique violation on the active-pair index surfaces
	// as a conflict error; a foreign key violation as not found.
	Insert(ctx context.Context, menteeID, mentorID int64, message string) (*models.MentorshipRequest, error)

	// GetByID fetches a request by id
	GetByID(ctx context.Context, id int64) (*models.MentorshipRequest, error)

	// GetByParticipantPair returns requests between the ordered pair
	// restricted to the given statuses
	GetByParticipantPair(ctx context.Context, menteeID, mentorID int64, statuses []models.RequestStatus) ([]*models.MentorshipRequest, error)

	// GetAllByParticipant returns every request where the user is mentee
	// or mentor, denormalized with participant display data, newest first
	GetAllByParticipant(ctx context.Context, userID int64) ([]*models.RequestDetails, error)

	// UpdateStatusAtomic performs a conditional status write: the update
	// applies only while the row still holds expectedCurrent. Exactly one
	// of two concurrent transition attempts wins; the loser gets a
	// conflict error and must re-read.
	UpdateStatusAtomic(ctx context.Context, id int64, expectedCurrent, newStatus models.RequestStatus, respondedAt *time.Time) (*models.MentorshipRequest, error)
}
