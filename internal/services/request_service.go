package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/repository"
	"github.com/mentorhub/mentorhub-api/pkg/apperr"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
	"github.com/mentorhub/mentorhub-api/pkg/metrics"
	"go.uber.org/zap"
)

// RequestService owns the mentorship request lifecycle: creation guards,
// actor-gated status transitions and terminal-state immutability
type RequestService struct {
	requestRepo repository.RequestStore
}

var _ RequestServiceInterface = (*RequestService)(nil)

// NewRequestService creates a new RequestService
func NewRequestService(requestRepo repository.RequestStore) *RequestService {
	return &RequestService{requestRepo: requestRepo}
}

// CreateRequest creates a pending request from the sender to the receiver.
// Self-requests are rejected outright; a pending or accepted request between
// the pair blocks a new one. The duplicate check is advisory, the database's
// partial unique index is authoritative under concurrency.
func (s *RequestService) CreateRequest(ctx context.Context, senderID int64, payload *models.CreateRequestPayload) (*models.MentorshipRequest, error) {
	start := time.Now()

	if senderID == payload.ReceiverID {
		metrics.MentorshipRequestsCreated.WithLabelValues("self_request").Inc()
		return nil, apperr.InvalidOperation("cannot send a mentorship request to yourself")
	}

	existing, err := s.requestRepo.GetByParticipantPair(ctx, senderID, payload.ReceiverID, models.ActiveStatuses)
	if err != nil {
		metrics.MentorshipRequestsCreated.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(existing) > 0 {
		metrics.MentorshipRequestsCreated.WithLabelValues("duplicate").Inc()
		logger.Warn("Duplicate mentorship request blocked",
			zap.Int64("mentee_id", senderID),
			zap.Int64("mentor_id", payload.ReceiverID),
			zap.String("existing_status", string(existing[0].Status)))
		return nil, apperr.Conflict("an active request to this mentor already exists")
	}

	request, err := s.requestRepo.Insert(ctx, senderID, payload.ReceiverID, payload.Message)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrConflict):
			// Lost the race against a concurrent create for the same pair
			metrics.MentorshipRequestsCreated.WithLabelValues("duplicate").Inc()
			return nil, apperr.Conflict("an active request to this mentor already exists")
		case errors.Is(err, apperr.ErrNotFound):
			metrics.MentorshipRequestsCreated.WithLabelValues("not_found").Inc()
			return nil, apperr.NotFound("receiver")
		}
		metrics.MentorshipRequestsCreated.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.MentorshipRequestsCreated.WithLabelValues("success").Inc()
	logger.Info("Mentorship request created",
		zap.Int64("request_id", request.ID),
		zap.Int64("mentee_id", senderID),
		zap.Int64("mentor_id", payload.ReceiverID),
		zap.Duration("duration", time.Since(start)))

	return request, nil
}

// GetRequestsForUser returns every request the user participates in, as
// mentee or mentor, newest first
func (s *RequestService) GetRequestsForUser(ctx context.Context, userID int64) (*models.RequestsResponse, error) {
	requests, err := s.requestRepo.GetAllByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	responseRequests := make([]models.RequestDetails, 0, len(requests))
	for _, req := range requests {
		responseRequests = append(responseRequests, *req)
	}

	return &models.RequestsResponse{
		Requests: responseRequests,
		Total:    len(responseRequests),
	}, nil
}

// UpdateRequestStatus transitions a pending request to a terminal state.
// Only the mentor may accept or decline, only the mentee may cancel, and a
// request that already reached a terminal state is immutable. A recognized
// but unreachable target such as pending is a forbidden transition, not an
// invalid value. The write is conditional on the status still being pending,
// so concurrent transitions resolve to exactly one winner.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, actorID, requestID int64, newStatus models.RequestStatus) (*models.MentorshipRequest, error) {
	if !newStatus.IsValid() {
		return nil, apperr.InvalidOperation(fmt.Sprintf("invalid status %q", newStatus))
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeTransition(request, actorID, newStatus); err != nil {
		return nil, err
	}

	var respondedAt *time.Time
	if newStatus.RequiresResponse() {
		now := time.Now().UTC()
		respondedAt = &now
	}

	updated, err := s.requestRepo.UpdateStatusAtomic(ctx, requestID, models.StatusPending, newStatus, respondedAt)
	if errors.Is(err, apperr.ErrConflict) {
		// Lost a concurrent transition; the request reached a terminal
		// state between the read and the write
		current, readErr := s.requestRepo.GetByID(ctx, requestID)
		if readErr == nil {
			logger.Warn("Concurrent status transition lost",
				zap.Int64("request_id", requestID),
				zap.String("attempted_status", string(newStatus)),
				zap.String("current_status", string(current.Status)))
		}
		return nil, apperr.Forbidden("request has already been responded to")
	}
	if err != nil {
		return nil, err
	}

	metrics.MentorshipRequestTransitions.WithLabelValues(
		string(models.StatusPending), string(newStatus)).Inc()
	logger.Info("Mentorship request transitioned",
		zap.Int64("request_id", requestID),
		zap.Int64("actor_id", actorID),
		zap.String("new_status", string(newStatus)))

	return updated, nil
}

// authorizeTransition enforces participation, terminal-state immutability
// and per-actor transition rights, in that order
func (s *RequestService) authorizeTransition(request *models.MentorshipRequest, actorID int64, newStatus models.RequestStatus) error {
	isMentor := actorID == request.MentorID
	isMentee := actorID == request.MenteeID

	if !isMentor && !isMentee {
		logger.Warn("Non-participant transition attempt",
			zap.Int64("request_id", request.ID),
			zap.Int64("actor_id", actorID))
		return apperr.Forbidden("you are not a participant in this request")
	}

	if request.Status.IsTerminal() {
		return apperr.Forbidden("request has already been responded to")
	}

	switch newStatus {
	case models.StatusAccepted, models.StatusDeclined:
		if !isMentor {
			return apperr.Forbidden("only the mentor can accept or decline a request")
		}
	case models.StatusCancelled:
		if !isMentee {
			return apperr.Forbidden("only the mentee can cancel a request")
		}
	}

	if !request.Status.CanTransitionTo(newStatus) {
		return apperr.Forbidden(fmt.Sprintf("cannot transition from %s to %s", request.Status, newStatus))
	}

	return nil
}
