package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/licensegate/internal/database"
	apperrors "github.com/allisson/licensegate/internal/errors"
	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
)

// MySQLLicenseRepository implements License persistence for MySQL.
// Same contract as the PostgreSQL implementation with ? placeholders and a
// JSON column for the activated domain set.
type MySQLLicenseRepository struct {
	db *sql.DB
}

// NewMySQLLicenseRepository creates a new MySQL License repository.
func NewMySQLLicenseRepository(db *sql.DB) *MySQLLicenseRepository {
	return &MySQLLicenseRepository{db: db}
}

// Create inserts a new License into the MySQL database.
func (m *MySQLLicenseRepository) Create(ctx context.Context, license *licenseDomain.License) error {
	querier := database.GetTx(ctx, m.db)

	domains, err := marshalDomains(license.ActivatedDomains)
	if err != nil {
		return err
	}

	query := `INSERT INTO licenses (id, license_key, status, expires_at, activation_limit,
			  current_activations, activated_domains, allow_courier_api, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		license.ID.String(),
		license.Key,
		license.Status,
		license.ExpiresAt,
		license.ActivationLimit,
		license.CurrentActivations,
		domains,
		license.AllowCourierAPI,
		license.CreatedAt,
		license.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create license")
	}
	return nil
}

// Get retrieves a License by ID from the MySQL database.
func (m *MySQLLicenseRepository) Get(
	ctx context.Context,
	licenseID uuid.UUID,
) (*licenseDomain.License, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, license_key, status, expires_at, activation_limit, current_activations,
			  activated_domains, allow_courier_api, created_at, updated_at
			  FROM licenses WHERE id = ?`

	return scanLicense(querier.QueryRowContext(ctx, query, licenseID.String()))
}

// GetByKey retrieves a License by its opaque key. Returns ErrLicenseNotFound
// when no record matches.
func (m *MySQLLicenseRepository) GetByKey(
	ctx context.Context,
	key string,
) (*licenseDomain.License, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, license_key, status, expires_at, activation_limit, current_activations,
			  activated_domains, allow_courier_api, created_at, updated_at
			  FROM licenses WHERE license_key = ?`

	return scanLicense(querier.QueryRowContext(ctx, query, key))
}

// Update modifies the provisioning fields of an existing License.
func (m *MySQLLicenseRepository) Update(ctx context.Context, license *licenseDomain.License) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE licenses
			  SET status = ?,
				  expires_at = ?,
				  activation_limit = ?,
				  allow_courier_api = ?,
				  updated_at = ?
			  WHERE id = ?`

	_, err := querier.ExecContext(
		ctx,
		query,
		license.Status,
		license.ExpiresAt,
		license.ActivationLimit,
		license.AllowCourierAPI,
		license.UpdatedAt,
		license.ID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update license")
	}
	return nil
}

// UpdateActivationState persists the activation state with the same
// conditional-update contract as the PostgreSQL implementation.
func (m *MySQLLicenseRepository) UpdateActivationState(
	ctx context.Context,
	license *licenseDomain.License,
	expectedUpdatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	domains, err := marshalDomains(license.ActivatedDomains)
	if err != nil {
		return err
	}

	query := `UPDATE licenses
			  SET status = ?,
				  current_activations = ?,
				  activated_domains = ?,
				  updated_at = ?
			  WHERE id = ? AND updated_at = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		license.Status,
		license.CurrentActivations,
		domains,
		license.UpdatedAt,
		license.ID.String(),
		expectedUpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update license activation state")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return licenseDomain.ErrConcurrentModification
	}
	return nil
}

// MarkExpired flips a license to the expired status (lazy expiry side effect).
func (m *MySQLLicenseRepository) MarkExpired(
	ctx context.Context,
	licenseID uuid.UUID,
	expiredAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE licenses SET status = ?, updated_at = ? WHERE id = ?`

	_, err := querier.ExecContext(ctx, query, licenseDomain.StatusExpired, expiredAt, licenseID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to mark license expired")
	}
	return nil
}
