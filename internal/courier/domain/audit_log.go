package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of one courier lookup dispatched upstream.
// KeySuffix holds only the last characters of the upstream credential so the
// log never stores a full api key.
type AuditLog struct {
	ID         uuid.UUID
	LicenseKey string
	KeySuffix  string
	SearchTerm string
	CreatedAt  time.Time
}

// keySuffixLen is how many trailing characters of an upstream credential are
// kept in audit records.
const keySuffixLen = 4

// KeySuffix truncates an upstream credential to its audit-safe suffix.
func KeySuffix(apiKey string) string {
	if len(apiKey) <= keySuffixLen {
		return apiKey
	}
	return apiKey[len(apiKey)-keySuffixLen:]
}
