package auth

import (
	"errors"
	"time"
)

// AuthenticatedUser is the normalised view of a principal after a
// successful login. It is ephemeral: created per login call, handed to the
// token issuer, and discarded. It never carries password material.
type AuthenticatedUser struct {
	SubjectID   string
	DisplayName string
	Role        Role
}

// Credential is a read-only view of one identity source record. Either the
// hash/salt pair is present (persisted identities) or Plaintext is set
// (bootstrap accounts only). An identity with neither cannot authenticate
// via password.
type Credential struct {
	SubjectID    string
	DisplayName  string
	Role         string // raw role from the record, normalised by the authenticator
	DefaultRole  Role   // applied when the record's role is blank
	PasswordHash string // base64
	PasswordSalt string // base64
	Plaintext    string // bootstrap accounts only, never persisted
}

// HasPasswordHash reports whether the credential carries a complete
// hash/salt pair. Hash and salt are both present or the account cannot
// authenticate against the persisted stores.
func (c *Credential) HasPasswordHash() bool {
	return c.PasswordHash != "" && c.PasswordSalt != ""
}

// GeneratedToken is the result of one token issuance. The expiry is
// returned alongside the encoded token so callers can reason about session
// freshness without re-parsing the token string.
type GeneratedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Sentinel errors for auth operations.
var (
	// ErrEmptyPassword is returned by HashPassword for a blank password.
	// This is a caller bug, not a user input condition.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrMissingSigningKey is returned by NewIssuer when the signing key is
	// absent or blank. It is a startup-time fatal condition.
	ErrMissingSigningKey = errors.New("token signing key is not configured")

	// ErrUsernameExists is returned when creating an identity whose
	// username is already taken.
	ErrUsernameExists = errors.New("username already exists")
)
