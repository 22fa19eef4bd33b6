// Package repository implements data persistence for license records.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). The activated domain set is stored as a JSON column; the
// activation-state write is a single conditional UPDATE keyed by the record id
// and the previously observed updated_at, which is the store's compare-and-swap
// primitive the activation engine relies on.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/licensegate/internal/database"
	apperrors "github.com/allisson/licensegate/internal/errors"
	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
)

// PostgreSQLLicenseRepository implements License persistence for PostgreSQL.
type PostgreSQLLicenseRepository struct {
	db *sql.DB
}

// NewPostgreSQLLicenseRepository creates a new PostgreSQL License repository.
func NewPostgreSQLLicenseRepository(db *sql.DB) *PostgreSQLLicenseRepository {
	return &PostgreSQLLicenseRepository{db: db}
}

// Create inserts a new License into the PostgreSQL database.
func (p *PostgreSQLLicenseRepository) Create(ctx context.Context, license *licenseDomain.License) error {
	querier := database.GetTx(ctx, p.db)

	domains, err := marshalDomains(license.ActivatedDomains)
	if err != nil {
		return err
	}

	query := `INSERT INTO licenses (id, license_key, status, expires_at, activation_limit,
			  current_activations, activated_domains, allow_courier_api, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = querier.ExecContext(
		ctx,
		query,
		license.ID,
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

// Get retrieves a License by ID from the PostgreSQL database.
func (p *PostgreSQLLicenseRepository) Get(
	ctx context.Context,
	licenseID uuid.UUID,
) (*licenseDomain.License, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, license_key, status, expires_at, activation_limit, current_activations,
			  activated_domains, allow_courier_api, created_at, updated_at
			  FROM licenses WHERE id = $1`

	return scanLicense(querier.QueryRowContext(ctx, query, licenseID))
}

// GetByKey retrieves a License by its opaque key. Returns ErrLicenseNotFound
// when no record matches.
func (p *PostgreSQLLicenseRepository) GetByKey(
	ctx context.Context,
	key string,
) (*licenseDomain.License, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, license_key, status, expires_at, activation_limit, current_activations,
			  activated_domains, allow_courier_api, created_at, updated_at
			  FROM licenses WHERE license_key = $1`

	return scanLicense(querier.QueryRowContext(ctx, query, key))
}

// Update modifies the provisioning fields of an existing License.
// Used by the admin CLI, not by the activation engine.
func (p *PostgreSQLLicenseRepository) Update(ctx context.Context, license *licenseDomain.License) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE licenses
			  SET status = $1,
				  expires_at = $2,
				  activation_limit = $3,
				  allow_courier_api = $4,
				  updated_at = $5
			  WHERE id = $6`

	_, err := querier.ExecContext(
		ctx,
		query,
		license.Status,
		license.ExpiresAt,
		license.ActivationLimit,
		license.AllowCourierAPI,
		license.UpdatedAt,
		license.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update license")
	}
	return nil
}

// UpdateActivationState persists the mutable activation state (status, domain
// set, count) with a conditional UPDATE keyed by id and the updated_at value
// observed at read time. Zero affected rows means the record changed in
// between; the write is rejected with ErrConcurrentModification and never
// retried here.
func (p *PostgreSQLLicenseRepository) UpdateActivationState(
	ctx context.Context,
	license *licenseDomain.License,
	expectedUpdatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	domains, err := marshalDomains(license.ActivatedDomains)
	if err != nil {
		return err
	}

	query := `UPDATE licenses
			  SET status = $1,
				  current_activations = $2,
				  activated_domains = $3,
				  updated_at = $4
			  WHERE id = $5 AND updated_at = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		license.Status,
		license.CurrentActivations,
		domains,
		license.UpdatedAt,
		license.ID,
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

// MarkExpired flips a license to the expired status. This is the persisted
// side effect of lazy expiry; it is unconditional because every concurrent
// reader observes the same transition.
func (p *PostgreSQLLicenseRepository) MarkExpired(
	ctx context.Context,
	licenseID uuid.UUID,
	expiredAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE licenses SET status = $1, updated_at = $2 WHERE id = $3`

	_, err := querier.ExecContext(ctx, query, licenseDomain.StatusExpired, expiredAt, licenseID)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark license expired")
	}
	return nil
}

// rowScanner abstracts *sql.Row for shared scanning between dialects.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanLicense scans a license row, decoding the JSON domain set.
func scanLicense(row rowScanner) (*licenseDomain.License, error) {
	var license licenseDomain.License
	var domainsRaw []byte

	err := row.Scan(
		&license.ID,
		&license.Key,
		&license.Status,
		&license.ExpiresAt,
		&license.ActivationLimit,
		&license.CurrentActivations,
		&domainsRaw,
		&license.AllowCourierAPI,
		&license.CreatedAt,
		&license.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, licenseDomain.ErrLicenseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get license")
	}

	if len(domainsRaw) > 0 {
		if err := json.Unmarshal(domainsRaw, &license.ActivatedDomains); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode activated domains")
		}
	}

	return &license, nil
}

// marshalDomains encodes the ordered domain set for the JSON column.
// An empty set is stored as [] rather than NULL.
func marshalDomains(domains []string) ([]byte, error) {
	if domains == nil {
		domains = []string{}
	}
	encoded, err := json.Marshal(domains)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode activated domains")
	}
	return encoded, nil
}
