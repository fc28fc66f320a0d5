package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mentorhub/mentorhub-api/pkg/apperr"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin
// context so the observability middleware can include the reason in the
// request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondAppError maps an application error tag to its HTTP status. Tagged
// error messages are written to be client-safe; internal errors are masked.
func respondAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidOperation):
		respondError(c, http.StatusBadRequest, clientMessage(err, apperr.ErrInvalidOperation, "Invalid operation"), err)
	case errors.Is(err, apperr.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, clientMessage(err, apperr.ErrUnauthorized, "Unauthorized"), err)
	case errors.Is(err, apperr.ErrForbidden):
		respondError(c, http.StatusForbidden, clientMessage(err, apperr.ErrForbidden, "Forbidden"), err)
	case errors.Is(err, apperr.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, apperr.ErrConflict):
		respondError(c, http.StatusConflict, clientMessage(err, apperr.ErrConflict, "Conflict"), err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// clientMessage strips the trailing error tag, leaving the human-readable
// reason. Not-found errors read well with the tag and keep it.
func clientMessage(err error, tag error, fallback string) string {
	msg := strings.TrimSuffix(err.Error(), ": "+tag.Error())
	if msg == "" || msg == tag.Error() {
		return fallback
	}
	return msg
}
