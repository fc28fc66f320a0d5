package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/pkg/apperr"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
	"github.com/mentorhub/mentorhub-api/pkg/metrics"
	"go.uber.org/zap"
)

// RequestRepository handles mentorship request data access
type RequestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository creates a new mentorship request repository
func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

var _ RequestStore = (*RequestRepository)(nil)

const requestColumns = "id, mentee_id, mentor_id, message, status, requested_at, responded_at"

// Insert persists a new pending request. The partial unique index on the
// active pair turns a lost duplicate-check race into a unique violation,
// which surfaces as a conflict. A foreign key violation means the mentor
// does not exist.
func (r *RequestRepository) Insert(ctx context.Context, menteeID, mentorID int64, message string) (*models.MentorshipRequest, error) {
	start := time.Now()
	operation := "createRequest"

	var messageArg *string
	if message != "" {
		messageArg = &message
	}

	query := `
		INSERT INTO mentorship_requests (mentee_id, mentor_id, message)
		VALUES ($1, $2, $3)
		RETURNING ` + requestColumns

	request, err := models.ScanRequest(r.pool.QueryRow(ctx, query, menteeID, mentorID, messageArg))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		switch pgErrCode(err) {
		case pgUniqueViolation:
			recordMetrics(operation, "conflict", duration)
			return nil, apperr.Conflict("an active request between these users already exists")
		case pgForeignKeyViolation:
			recordMetrics(operation, "not_found", duration)
			return nil, apperr.NotFound("user")
		}
		logDBError(operation, duration, err,
			zap.Int64("mentee_id", menteeID), zap.Int64("mentor_id", mentorID))
		return nil, apperr.Internal("failed to create mentorship request", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration,
		zap.Int64("request_id", request.ID),
		zap.Int64("mentee_id", menteeID),
		zap.Int64("mentor_id", mentorID))

	return request, nil
}

// GetByID fetches a request by id
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.MentorshipRequest, error) {
	start := time.Now()
	operation := "getRequestByID"

	query := `SELECT ` + requestColumns + ` FROM mentorship_requests WHERE id = $1`

	request, err := models.ScanRequest(r.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperr.NotFound("mentorship request")
	}
	if err != nil {
		logDBError(operation, duration, err, zap.Int64("request_id", id))
		return nil, apperr.Internal("failed to fetch mentorship request", err)
	}

	recordMetrics(operation, "success", duration)
	return request, nil
}

// GetByParticipantPair returns requests between the ordered pair restricted
// to the given statuses
func (r *RequestRepository) GetByParticipantPair(ctx context.Context, menteeID, mentorID int64, statuses []models.RequestStatus) ([]*models.MentorshipRequest, error) {
	start := time.Now()
	operation := "getRequestsByPair"

	statusValues := make([]string, len(statuses))
	for i, s := range statuses {
		statusValues[i] = string(s)
	}

	query := `
		SELECT ` + requestColumns + `
		FROM mentorship_requests
		WHERE mentee_id = $1 AND mentor_id = $2 AND status = ANY($3)
		ORDER BY requested_at DESC`

	rows, err := r.pool.Query(ctx, query, menteeID, mentorID, statusValues)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		logDBError(operation, duration, err)
		return nil, apperr.Internal("failed to fetch mentorship requests", err)
	}
	defer rows.Close()

	requests := []*models.MentorshipRequest{}
	for rows.Next() {
		request, scanErr := models.ScanRequest(rows)
		if scanErr != nil {
			duration := metrics.MeasureDuration(start)
			logDBError(operation, duration, scanErr)
			return nil, apperr.Internal("failed to scan mentorship requests", scanErr)
		}
		requests = append(requests, request)
	}

	duration := metrics.MeasureDuration(start)

	if err := rows.Err(); err != nil {
		logDBError(operation, duration, err)
		return nil, apperr.Internal("failed to read mentorship requests", err)
	}

	recordMetrics(operation, "success", duration)
	return requests, nil
}

// GetAllByParticipant returns every request where the user is mentee or
// mentor, denormalized with both participants' display data, newest first
func (r *RequestRepository) GetAllByParticipant(ctx context.Context, userID int64) ([]*models.RequestDetails, error) {
	start := time.Now()
	operation := "getRequestsByParticipant"

	query := `
		SELECT r.id, r.mentee_id, r.mentor_id, r.message,
			r.status, r.requested_at, r.responded_at,
			mentee.email, mentee_profile.first_name, mentee_profile.last_name,
			mentor.email, mentor_profile.first_name, mentor_profile.last_name
		FROM mentorship_requests r
		JOIN users mentee ON mentee.id = r.mentee_id
		JOIN users mentor ON mentor.id = r.mentor_id
		LEFT JOIN profiles mentee_profile ON mentee_profile.user_id = r.mentee_id
		LEFT JOIN profiles mentor_profile ON mentor_profile.user_id = r.mentor_id
		WHERE r.mentee_id = $1 OR r.mentor_id = $1
		ORDER BY r.requested_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		logDBError(operation, duration, err, zap.Int64("user_id", userID))
		return nil, apperr.Internal("failed to fetch mentorship requests", err)
	}

	requests, err := models.ScanRequestDetailsRows(rows)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		logDBError(operation, duration, err, zap.Int64("user_id", userID))
		return nil, apperr.Internal("failed to scan mentorship requests", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration,
		zap.Int64("user_id", userID), zap.Int("count", len(requests)))

	return requests, nil
}

// UpdateStatusAtomic performs the conditional status write. The WHERE clause
// re-checks the current status, so of two concurrent transitions exactly one
// matches the row and wins; the loser affects zero rows and gets a conflict.
func (r *RequestRepository) UpdateStatusAtomic(ctx context.Context, id int64, expectedCurrent, newStatus models.RequestStatus, respondedAt *time.Time) (*models.MentorshipRequest, error) {
	start := time.Now()
	operation := "updateRequestStatus"

	query := `
		UPDATE mentorship_requests
		SET status = $1, responded_at = COALESCE($2, responded_at)
		WHERE id = $3 AND status = $4
		RETURNING ` + requestColumns

	request, err := models.ScanRequest(r.pool.QueryRow(ctx, query, newStatus, respondedAt, id, expectedCurrent))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "conflict", duration)
		logger.LogDBCall(operation, "conflict", duration,
			zap.Int64("request_id", id),
			zap.String("expected_status", string(expectedCurrent)),
			zap.String("new_status", string(newStatus)))
		return nil, apperr.Conflict("request status changed concurrently")
	}
	if err != nil {
		logDBError(operation, duration, err, zap.Int64("request_id", id))
		return nil, apperr.Internal("failed to update request status", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration,
		zap.Int64("request_id", id),
		zap.String("new_status", string(newStatus)))

	return request, nil
}
