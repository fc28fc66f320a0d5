package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// Profile is a user's public profile in the directory. Skills and interests
// are stored natively as text[] columns, never as joined strings.
type Profile struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	Role              UserRole  `json:"role"`
	FirstName         *string   `json:"first_name"`
	LastName          *string   `json:"last_name"`
	Headline          *string   `json:"headline"`
	Bio               *string   `json:"bio"`
	Skills            []string  `json:"skills"`
	Interests         []string  `json:"interests"`
	LinkedinURL       *string   `json:"linkedin_url"`
	GithubURL         *string   `json:"github_url"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	Availability      *string   `json:"availability"`
	Email             string    `json:"email"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateProfilePayload is the body for creating a profile
type CreateProfilePayload struct {
	Role              UserRole `json:"role" binding:"required,oneof=mentor mentee"`
	FirstName         *string  `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName          *string  `json:"lastName" binding:"omitempty,min=1,max=100"`
	Headline          *string  `json:"headline" binding:"omitempty,max=255"`
	Bio               *string  `json:"bio"`
	Skills            []string `json:"skills"`
	Interests         []string `json:"interests"`
	LinkedinURL       *string  `json:"linkedinUrl" binding:"omitempty,url"`
	GithubURL         *string  `json:"githubUrl" binding:"omitempty,url"`
	ProfilePictureURL *string  `json:"profilePictureUrl" binding:"omitempty,url"`
	Availability      *string  `json:"availability"`
}

// UpdateProfilePayload is the body for partial profile updates; only
// non-nil fields are written
type UpdateProfilePayload struct {
	Role              *UserRole `json:"role" binding:"omitempty,oneof=mentor mentee"`
	FirstName         *string   `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName          *string   `json:"lastName" binding:"omitempty,min=1,max=100"`
	Headline          *string   `json:"headline" binding:"omitempty,max=255"`
	Bio               *string   `json:"bio"`
	Skills            []string  `json:"skills"`
	Interests         []string  `json:"interests"`
	LinkedinURL       *string   `json:"linkedinUrl" binding:"omitempty,url"`
	GithubURL         *string   `json:"githubUrl" binding:"omitempty,url"`
	ProfilePictureURL *string   `json:"profilePictureUrl" binding:"omitempty,url"`
	Availability      *string   `json:"availability"`
}

// IsEmpty reports whether the update carries no fields at all
func (p *UpdateProfilePayload) IsEmpty() bool {
	return p.Role == nil && p.FirstName == nil && p.LastName == nil &&
		p.Headline == nil && p.Bio == nil && p.Skills == nil &&
		p.Interests == nil && p.LinkedinURL == nil && p.GithubURL == nil &&
		p.ProfilePictureURL == nil && p.Availability == nil
}

// ProfileFilters are the browse query parameters
type ProfileFilters struct {
	Role      string
	Skills    []string
	Interests []string
	Page      int
	Limit     int
}

// ProfilesPage is the paginated browse response
type ProfilesPage struct {
	Profiles      []*Profile `json:"profiles"`
	CurrentPage   int        `json:"currentPage"`
	TotalPages    int        `json:"totalPages"`
	TotalProfiles int        `json:"totalProfiles"`
}

// UploadPicturePayload is the body for avatar uploads
type UploadPicturePayload struct {
	ImageData   string `json:"imageData" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// ScanProfile scans a single row into a Profile.
// Expected columns: id, user_id, role, first_name, last_name, headline, bio,
// skills, interests, linkedin_url, github_url, profile_picture_url,
// availability, created_at, updated_at, email
func ScanProfile(row pgx.Row) (*Profile, error) {
	var p Profile

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Role,
		&p.FirstName,
		&p.LastName,
		&p.Headline,
		&p.Bio,
		&p.Skills,
		&p.Interests,
		&p.LinkedinURL,
		&p.GithubURL,
		&p.ProfilePictureURL,
		&p.Availability,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Email,
	)
	if err != nil {
		return nil, err
	}

	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}

	return &p, nil
}

// ScanProfiles scans multiple rows into a slice of Profile structs
func ScanProfiles(rows pgx.Rows) ([]*Profile, error) {
	defer rows.Close()

	profiles := []*Profile{}
	for rows.Next() {
		profile, err := ScanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
