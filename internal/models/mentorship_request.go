package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// RequestStatus represents the status of a mentorship request
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusDeclined  RequestStatus = "declined"
	StatusCancelled RequestStatus = "cancelled"
)

// ActiveStatuses block a new request between the same (mentee, mentor) pair
var ActiveStatuses = []RequestStatus{StatusPending, StatusAccepted}

// IsValid returns true if the status is one of the four recognized values
func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status permits no further transitions
func (s RequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusDeclined || s == StatusCancelled
}

// CanTransitionTo checks if a status transition is valid. Pending is the
// only non-terminal state; it may move to any of the three terminal states.
func (s RequestStatus) CanTransitionTo(newStatus RequestStatus) bool {
	if s != StatusPending {
		return false
	}
	return newStatus == StatusAccepted || newStatus == StatusDeclined || newStatus == StatusCancelled
}

// RequiresResponse reports whether reaching this status counts as a mentor
// response. Cancelling is the mentee withdrawing, not a response, so
// responded_at stays null.
func (s RequestStatus) RequiresResponse() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// MentorshipRequest is a mentee's request to a mentor
type MentorshipRequest struct {
	ID          int64         `json:"id"`
	MenteeID    int64         `json:"mentee_id"`
	MentorID    int64         `json:"mentor_id"`
	Message     string        `json:"message"`
	Status      RequestStatus `json:"status"`
	RequestedAt time.Time     `json:"requested_at"`
	RespondedAt *time.Time    `json:"responded_at"`
}

// RequestDetails is a request denormalized with both participants' display
// data for presentation
type RequestDetails struct {
	MentorshipRequest
	MenteeEmail     string  `json:"mentee_email"`
	MenteeFirstName *string `json:"mentee_first_name"`
	MenteeLastName  *string `json:"mentee_last_name"`
	MentorEmail     string  `json:"mentor_email"`
	MentorFirstName *string `json:"mentor_first_name"`
	MentorLastName  *string `json:"mentor_last_name"`
}

// CreateRequestPayload is the body for creating a mentorship request
type CreateRequestPayload struct {
	ReceiverID int64  `json:"receiverId" binding:"required,gt=0"`
	Message    string `json:"message" binding:"max=2000"`
}

// UpdateRequestStatusPayload is the body for updating request status.
// The status value itself is validated by the lifecycle engine so that
// unknown values map to the invalid-operation error, not a bind failure.
type UpdateRequestStatusPayload struct {
	Status RequestStatus `json:"status" binding:"required"`
}

// RequestsResponse is the response for listing a user's requests
type RequestsResponse struct {
	Requests []RequestDetails `json:"requests"`
	Total    int              `json:"total"`
}

// ScanRequest scans a single row into a MentorshipRequest.
// Expected columns: id, mentee_id, mentor_id, message, status, requested_at,
// responded_at
func ScanRequest(row pgx.Row) (*MentorshipRequest, error) {
	var r MentorshipRequest
	var message *string

	err := row.Scan(
		&r.ID,
		&r.MenteeID,
		&r.MentorID,
		&message,
		&r.Status,
		&r.RequestedAt,
		&r.RespondedAt,
	)
	if err != nil {
		return nil, err
	}

	if message != nil {
		r.Message = *message
	}

	return &r, nil
}

// ScanRequestDetails scans a single joined row into a RequestDetails.
// Expected columns: the ScanRequest columns followed by mentee_email,
// mentee_first_name, mentee_last_name, mentor_email, mentor_first_name,
// mentor_last_name
func ScanRequestDetails(row pgx.Row) (*RequestDetails, error) {
	var r RequestDetails
	var message *string

	err := row.Scan(
		&r.ID,
		&r.MenteeID,
		&r.MentorID,
		&message,
		&r.Status,
		&r.RequestedAt,
		&r.RespondedAt,
		&r.MenteeEmail,
		&r.MenteeFirstName,
		&r.MenteeLastName,
		&r.MentorEmail,
		&r.MentorFirstName,
		&r.MentorLastName,
	)
	if err != nil {
		return nil, err
	}

	if message != nil {
		r.Message = *message
	}

	return &r, nil
}

// ScanRequestDetailsRows scans multiple joined rows
func ScanRequestDetailsRows(rows pgx.Rows) ([]*RequestDetails, error) {
	defer rows.Close()

	requests := []*RequestDetails{}
	for rows.Next() {
		request, err := ScanRequestDetails(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
