package services

import (
	"context"
	"errors"
	"time"

	"github.com/mentorhub/mentorhub-api/config"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/repository"
	"github.com/mentorhub/mentorhub-api/pkg/apperr"
	"github.com/mentorhub/mentorhub-api/pkg/jwt"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
	"github.com/mentorhub/mentorhub-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token refresh
type AuthService struct {
	userRepo     repository.UserStore
	tokenManager *jwt.TokenManager
	config       *config.Config
}

var _ AuthServiceInterface = (*AuthService)(nil)

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserStore, tokenManager *jwt.TokenManager, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		config:       cfg,
	}
}

// Register creates a new account and returns the user with a fresh token pair
func (s *AuthService) Register(ctx context.Context, payload *models.RegisterPayload) (*models.AuthUser, string, string, error) {
	start := time.Now()

	role := payload.Role
	if role == "" {
		role = models.RoleMentee
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.config.Auth.BcryptCost)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, "", "", apperr.Internal("failed to hash password", err)
	}

	user, err := s.userRepo.Create(ctx, payload.Email, string(hash), role)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			metrics.Registrations.WithLabelValues("conflict").Inc()
			logger.Warn("Registration with existing email", zap.String("email", payload.Email))
		} else {
			metrics.Registrations.WithLabelValues("error").Inc()
			logger.Error("Failed to register user", zap.Error(err))
		}
		return nil, "", "", err
	}

	accessToken, refreshToken, err := s.issueTokenPair(user)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, "", "", err
	}

	metrics.Registrations.WithLabelValues("success").Inc()
	logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Duration("duration", time.Since(start)))

	return user.PublicUser(), accessToken, refreshToken, nil
}

// Login verifies credentials and returns the user with a fresh token pair.
// Wrong email and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, payload *models.LoginPayload) (*models.AuthUser, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			metrics.Logins.WithLabelValues("invalid_credentials").Inc()
			return nil, "", "", apperr.Unauthorized("invalid email or password")
		}
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, "", "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		metrics.Logins.WithLabelValues("invalid_credentials").Inc()
		logger.Warn("Failed login attempt", zap.Int64("user_id", user.ID))
		return nil, "", "", apperr.Unauthorized("invalid email or password")
	}

	accessToken, refreshToken, err := s.issueTokenPair(user)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, "", "", err
	}

	metrics.Logins.WithLabelValues("success").Inc()
	logger.Info("User logged in", zap.Int64("user_id", user.ID))

	return user.PublicUser(), accessToken, refreshToken, nil
}

// Refresh validates the refresh token, confirms the account still exists and
// rotates the pair: a new refresh token is issued alongside the access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		logger.Warn("Refresh token rejected", zap.Error(err))
		return "", "", apperr.Unauthorized("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", "", apperr.Unauthorized("account no longer exists")
		}
		return "", "", err
	}

	return s.issueTokenPair(user)
}

func (s *AuthService) issueTokenPair(user *models.User) (string, string, error) {
	accessToken, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", apperr.Internal("failed to generate access token", err)
	}

	refreshToken, err := s.tokenManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", apperr.Internal("failed to generate refresh token", err)
	}

	return accessToken, refreshToken, nil
}

// GetTokenManager exposes the token manager for middleware wiring
func (s *AuthService) GetTokenManager() *jwt.TokenManager {
	return s.tokenManager
}

// GetCookieDomain returns the refresh cookie domain
func (s *AuthService) GetCookieDomain() string {
	return s.config.Auth.CookieDomain
}

// GetCookieSecure returns whether the refresh cookie requires HTTPS
func (s *AuthService) GetCookieSecure() bool {
	return s.config.Auth.CookieSecure
}
