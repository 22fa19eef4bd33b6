package repository

import (
	"context"
	"database/sql"

	courierDomain "github.com/allisson/licensegate/internal/courier/domain"
	"github.com/allisson/licensegate/internal/database"
	apperrors "github.com/allisson/licensegate/internal/errors"
)

// PostgreSQLAuditLogRepository implements append-only audit log persistence
// for PostgreSQL.
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQL audit log repository.
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{db: db}
}

// Create appends one audit record.
func (p *PostgreSQLAuditLogRepository) Create(ctx context.Context, log *courierDomain.AuditLog) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO courier_audit_logs (id, license_key, key_suffix, search_term, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		log.ID,
		log.LicenseKey,
		log.KeySuffix,
		log.SearchTerm,
		log.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}
	return nil
}
