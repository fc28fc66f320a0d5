package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
	"github.com/mentorhub/mentorhub-api/pkg/metrics"
	"go.uber.org/zap"
)

// Postgres error codes the repositories translate into application errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgErrCode extracts the SQLSTATE code from a pgx error, if any
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// recordMetrics records a database operation outcome
func recordMetrics(operation, status string, duration float64) {
	metrics.DBOperationDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBOperationTotal.WithLabelValues(operation, status).Inc()
}

// logDBError records and logs a failed operation in one step
func logDBError(operation string, duration float64, err error, fields ...zap.Field) {
	recordMetrics(operation, "error", duration)
	fields = append(fields, zap.Error(err))
	logger.LogDBCall(operation, "error", duration, fields...)
}
