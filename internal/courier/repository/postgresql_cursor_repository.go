// Package repository implements persistence for the courier vertical: the
// single-row rotation cursor and the append-only audit log.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/licensegate/internal/database"
	apperrors "github.com/allisson/licensegate/internal/errors"
)

// cursorName identifies the single rotation cursor row.
const cursorName = "hoorin"

// PostgreSQLCursorRepository implements rotation cursor persistence for PostgreSQL.
type PostgreSQLCursorRepository struct {
	db *sql.DB
}

// NewPostgreSQLCursorRepository creates a new PostgreSQL cursor repository.
func NewPostgreSQLCursorRepository(db *sql.DB) *PostgreSQLCursorRepository {
	return &PostgreSQLCursorRepository{db: db}
}

// Get reads the current cursor position. A missing row reads as 0.
func (p *PostgreSQLCursorRepository) Get(ctx context.Context) (int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT position FROM rotation_cursors WHERE name = $1`

	var position int
	err := querier.QueryRowContext(ctx, query, cursorName).Scan(&position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, apperrors.Wrap(err, "failed to get rotation cursor")
	}
	return position, nil
}

// Set upserts the cursor position.
func (p *PostgreSQLCursorRepository) Set(ctx context.Context, position int) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO rotation_cursors (name, position, updated_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (name) DO UPDATE SET position = $2, updated_at = $3`

	_, err := querier.ExecContext(ctx, query, cursorName, position, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to set rotation cursor")
	}
	return nil
}
