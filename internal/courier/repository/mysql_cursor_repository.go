package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/licensegate/internal/database"
	apperrors "github.com/allisson/licensegate/internal/errors"
)

// MySQLCursorRepository implements rotation cursor persistence for MySQL.
type MySQLCursorRepository struct {
	db *sql.DB
}

// NewMySQLCursorRepository creates a new MySQL cursor repository.
func NewMySQLCursorRepository(db *sql.DB) *MySQLCursorRepository {
	return &MySQLCursorRepository{db: db}
}

// Get reads the current cursor position. A missing row reads as 0.
func (m *MySQLCursorRepository) Get(ctx context.Context) (int, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT position FROM rotation_cursors WHERE name = ?`

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
func (m *MySQLCursorRepository) Set(ctx context.Context, position int) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO rotation_cursors (name, position, updated_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE position = VALUES(position), updated_at = VALUES(updated_at)`

	_, err := querier.ExecContext(ctx, query, cursorName, position, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to set rotation cursor")
	}
	return nil
}
