// Package domain contains session broker entities and errors.
package domain

import "time"

// Credential is an authenticated session token pair for the cookie-only
// courier portal. Both tokens are opaque; ExpiresAt is fixed at acquisition.
type Credential struct {
	SessionToken string
	XSRFToken    string
	ExpiresAt    time.Time
}

// Expired reports whether the credential is past its TTL.
func (c *Credential) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
