// Package domain defines the license entity and its activation state machine.
//
// A license binds to a bounded set of domains. Binding and unbinding are the
// only mutations of the domain set, both idempotent on membership, and the
// activation count always equals the size of the set after any successful
// mutation. Expiry is observed, not scheduled: the first read past ExpiresAt
// flips the status to expired.
package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a license.
type Status string

// License lifecycle states. Only the activation engine mutates these.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusExpired  Status = "expired"
)

// License represents a persistent license record.
type License struct {
	ID                 uuid.UUID  // Unique identifier (UUIDv7)
	Key                string     // Opaque unique license key
	Status             Status     // Mutated only by the activation engine
	ExpiresAt          *time.Time // nil means perpetual
	ActivationLimit    int        // Ceiling on concurrent domain bindings
	CurrentActivations int        // Invariant: 0 <= CurrentActivations <= ActivationLimit
	ActivatedDomains   []string   // Ordered, unique; len == CurrentActivations
	AllowCourierAPI    bool       // Capability flag for the courier lookup endpoint
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Expired reports whether the license expiry timestamp has passed.
// Perpetual licenses (nil ExpiresAt) never expire.
func (l *License) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// ExpireIfDue performs the lazy expiry transition: when the expiry timestamp
// has passed and the status is not already expired, the status flips to
// expired. Returns true when the transition happened so the caller can
// persist the side effect.
func (l *License) ExpireIfDue(now time.Time) bool {
	if l.Status == StatusExpired || !l.Expired(now) {
		return false
	}
	l.Status = StatusExpired
	return true
}

// HasDomain reports whether the domain is currently bound to this license.
// Matching is case-insensitive on the normalized domain.
func (l *License) HasDomain(domain string) bool {
	return slices.Contains(l.ActivatedDomains, NormalizeDomain(domain))
}

// BindDomain binds a domain to the license, consuming one activation slot.
// Binding an already-bound domain succeeds without consuming a slot (retried
// client calls must not double-count); the return value reports whether the
// domain was already bound. The limit check happens strictly before any
// mutation. Returns ErrLimitReached when all slots are consumed.
func (l *License) BindDomain(domain string) (alreadyBound bool, err error) {
	normalized := NormalizeDomain(domain)

	if slices.Contains(l.ActivatedDomains, normalized) {
		return true, nil
	}

	if l.CurrentActivations >= l.ActivationLimit {
		return false, ErrLimitReached
	}

	l.ActivatedDomains = append(l.ActivatedDomains, normalized)
	l.CurrentActivations = len(l.ActivatedDomains)
	return false, nil
}

// UnbindDomain removes a domain binding, releasing its activation slot.
// Returns ErrNotActivatedOnDomain when the domain is not bound. The count is
// clamped at zero: stored counts and set size may have drifted out-of-band,
// and unbinding must never drive the count negative.
func (l *License) UnbindDomain(domain string) error {
	normalized := NormalizeDomain(domain)

	index := slices.Index(l.ActivatedDomains, normalized)
	if index < 0 {
		return ErrNotActivatedOnDomain
	}

	l.ActivatedDomains = slices.Delete(l.ActivatedDomains, index, index+1)
	l.CurrentActivations--
	if l.CurrentActivations < 0 {
		l.CurrentActivations = 0
	}
	return nil
}

// NormalizeDomain lowercases and trims a domain so membership checks and
// stored bindings use one canonical form.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// ActivationResult is the outcome of a successful activation.
type ActivationResult struct {
	AlreadyActivated bool       // True when the domain was bound before this call
	ExpiresAt        *time.Time // License expiry for client display, nil when perpetual
}

// CreateLicenseInput contains the parameters for provisioning a new license.
// Provisioning happens out-of-band through the CLI, never through the API.
type CreateLicenseInput struct {
	Key             string     // Optional, generated when empty
	ActivationLimit int        // Positive ceiling on concurrent domain bindings
	ExpiresAt       *time.Time // nil means perpetual
	AllowCourierAPI bool
}

// UpdateLicenseInput contains the mutable provisioning fields of a license.
type UpdateLicenseInput struct {
	Status          Status
	ActivationLimit int
	ExpiresAt       *time.Time
	AllowCourierAPI bool
}
