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

// UserRepository handles account data access
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ UserStore = (*UserRepository)(nil)

const userColumns = "id, email, password_hash, role, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user; a duplicate email surfaces as a conflict
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string, role models.UserRole) (*models.User, error) {
	start := time.Now()
	operation := "createUser"

	query := `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, email, passwordHash, role))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			recordMetrics(operation, "conflict", duration)
			return nil, apperr.Conflict("user with this email already exists")
		}
		logDBError(operation, duration, err)
		return nil, apperr.Internal("failed to create user", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration, zap.Int64("user_id", user.ID))

	return user, nil
}

// GetByEmail fetches a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()
	operation := "getUserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		logDBError(operation, duration, err)
		return nil, apperr.Internal("failed to fetch user", err)
	}

	recordMetrics(operation, "success", duration)
	return user, nil
}

// GetByID fetches a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	start := time.Now()
	operation := "getUserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		logDBError(operation, duration, err)
		return nil, apperr.Internal("failed to fetch user", err)
	}

	recordMetrics(operation, "success", duration)
	return user, nil
}
