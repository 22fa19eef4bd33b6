// Package testutil provides testing utilities shared across packages.
//
// Repository tests run against sqlmock rather than a live database: every
// repository speaks plain parameterized SQL through database/sql, so the
// interesting behavior (query shape, argument binding, row scanning, affected
// row handling) is fully observable at the driver boundary.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// NewMockDB creates a sqlmock-backed *sql.DB. The connection is closed and
// monitoring stops when the test finishes.
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")

	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}
