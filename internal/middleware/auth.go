package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mentorhub/mentorhub-api/pkg/jwt"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
	"go.uber.org/zap"
)

const (
	userIDKey    = "auth_user_id"
	userEmailKey = "auth_user_email"
)

// JWTAuthMiddleware validates the bearer access token and stores the
// authenticated user's identity on the gin context
func JWTAuthMiddleware(tokenManager *jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokenManager.ValidateAccessToken(token)
		if err != nil {
			logger.Warn("Access token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err))
			message := "Invalid access token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "Access token has expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

// GetUserID returns the authenticated user's id from the gin context
func GetUserID(c *gin.Context) (int64, error) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return 0, errors.New("no authenticated user in context")
	}

	userID, ok := value.(int64)
	if !ok {
		return 0, errors.New("invalid user id in context")
	}

	return userID, nil
}

// GetUserEmail returns the authenticated user's email from the gin context
func GetUserEmail(c *gin.Context) (string, error) {
	value, exists := c.Get(userEmailKey)
	if !exists {
		return "", errors.New("no authenticated user in context")
	}

	email, ok := value.(string)
	if !ok {
		return "", errors.New("invalid user email in context")
	}

	return email, nil
}
