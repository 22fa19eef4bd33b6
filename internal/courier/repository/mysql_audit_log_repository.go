package repository

import (
	"context"
	"database/sql"

	courierDomain "github.com/allisson/licensegate/internal/courier/domain"
	"github.com/allisson/licensegate/internal/database"
	apperrors "github.com/allisson/licensegate/internal/errors"
)

// MySQLAuditLogRepository implements append-only audit log persistence for MySQL.
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// NewMySQLAuditLogRepository creates a new MySQL audit log repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}

// Create appends one audit record.
func (m *MySQLAuditLogRepository) Create(ctx context.Context, log *courierDomain.AuditLog) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO courier_audit_logs (id, license_key, key_suffix, search_term, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		log.ID.String(),
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
