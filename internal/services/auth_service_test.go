package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/mentorhub/mentorhub-api/config"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/services"
	"github.com/mentorhub/mentorhub-api/pkg/apperr"
	"github.com/mentorhub/mentorhub-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(userRepo *MockUserStore) (*services.AuthService, *jwt.TokenManager) {
	tokenManager := jwt.NewTokenManager("access-secret", "refresh-secret", "test", 15, 168)
	cfg := &config.Config{
		Auth: config.AuthConfig{
			BcryptCost: bcrypt.MinCost,
		},
	}
	return services.NewAuthService(userRepo, tokenManager, cfg), tokenManager
}

func testUser(id int64, email, password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleMentee,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserStore)
	service, tokenManager := newTestAuthService(mockRepo)
	ctx := context.Background()

	created := testUser(1, "new@example.com", "password123")
	mockRepo.On("Create", ctx, "new@example.com", mock.AnythingOfType("string"), models.RoleMentee).
		Return(created, nil).Once()

	user, accessToken, refreshToken, err := service.Register(ctx, &models.RegisterPayload{
		Email:    "new@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	claims, err := tokenManager.ValidateAccessToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_MentorRole(t *testing.T) {
	mockRepo := new(MockUserStore)
	service, _ := newTestAuthService(mockRepo)
	ctx := context.Background()

	created := testUser(2, "mentor@example.com", "password123")
	created.Role = models.RoleMentor
	mockRepo.On("Create", ctx, "mentor@example.com", mock.AnythingOfType("string"), models.RoleMentor).
		Return(created, nil).Once()

	user, _, _, err := service.Register(ctx, &models.RegisterPayload{
		Email:    "mentor@example.com",
		Password: "password123",
		Role:     models.RoleMentor,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleMentor, user.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserStore)
	service, _ := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Create", ctx, "taken@example.com", mock.AnythingOfType("string"), models.RoleMentee).
		Return(nil, apperr.Conflict("user with this email already exists")).Once()

	user, _, _, err := service.Register(ctx, &models.RegisterPayload{
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserStore)
	service, _ := newTestAuthService(mockRepo)
	ctx := context.Background()

	existing := testUser(1, "user@example.com", "correct-password")
	mockRepo.On("GetByEmail", ctx, "user@example.com").Return(existing, nil).Once()

	user, accessToken, refreshToken, err := service.Login(ctx, &models.LoginPayload{
		Email:    "user@example.com",
		Password: "correct-password",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserStore)
	service, _ := newTestAuthService(mockRepo)
	ctx := context.Background()

	existing := testUser(1, "user@example.com", "correct-password")
	mockRepo.On("GetByEmail", ctx, "user@example.com").Return(existing, nil).Once()

	user, _, _, err := service.Login(ctx, &models.LoginPayload{
		Email:    "user@example.com",
		Password: "wrong-password",
	})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	// Unknown email and wrong password must be indistinguishable
	mockRepo := new(MockUserStore)
	service, _ := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "nobody@example.com").
		Return(nil, apperr.NotFound("user")).Once()

	user, _, _, err := service.Login(ctx, &models.LoginPayload{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
}

func TestAuthService_Refresh(t *testing.T) {
	mockRepo := new(MockUserStore)
	service, tokenManager := newTestAuthService(mockRepo)
	ctx := context.Background()

	existing := testUser(1, "user@example.com", "password123")
	refreshToken, err := tokenManager.GenerateRefreshToken(1, "user@example.com")
	assert.NoError(t, err)

	mockRepo.On("GetByID", ctx, int64(1)).Return(existing, nil).Once()

	accessToken, newRefreshToken, err := service.Refresh(ctx, refreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, newRefreshToken)

	claims, err := tokenManager.ValidateAccessToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	mockRepo := new(MockUserStore)
	service, _ := newTestAuthService(mockRepo)

	_, _, err := service.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	// An access token must not pass as a refresh token
	mockRepo := new(MockUserStore)
	service, tokenManager := newTestAuthService(mockRepo)

	accessToken, err := tokenManager.GenerateAccessToken(1, "user@example.com")
	assert.NoError(t, err)

	_, _, err = service.Refresh(context.Background(), accessToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthService_Refresh_DeletedAccount(t *testing.T) {
	mockRepo := new(MockUserStore)
	service, tokenManager := newTestAuthService(mockRepo)
	ctx := context.Background()

	refreshToken, err := tokenManager.GenerateRefreshToken(9, "gone@example.com")
	assert.NoError(t, err)

	mockRepo.On("GetByID", ctx, int64(9)).Return(nil, apperr.NotFound("user")).Once()

	_, _, err = service.Refresh(ctx, refreshToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
