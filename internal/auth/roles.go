package auth

import "strings"

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleAdmin has full read/write access across all record families.
	// Staff accounts default to this role.
	RoleAdmin Role = "Admin"

	// RoleUser is a learner account with read access plus write access to
	// its own student records. Student accounts default to this role.
	RoleUser Role = "User"
)

// NormalizeRole canonicalises a free-form role string.
//
// Blank or whitespace-only input yields the empty role. Known roles match
// case-insensitively and return the canonical casing. Anything else passes
// through trimmed, so forward-compatible custom roles survive — they just
// carry no implicit permissions.
//
// Normalisation is idempotent: NormalizeRole(NormalizeRole(x)) == NormalizeRole(x).
func NormalizeRole(role string) Role {
	trimmed := strings.TrimSpace(role)
	if trimmed == "" {
		return ""
	}

	if strings.EqualFold(trimmed, string(RoleAdmin)) {
		return RoleAdmin
	}
	if strings.EqualFold(trimmed, string(RoleUser)) {
		return RoleUser
	}

	return Role(trimmed)
}

// roleOrDefault normalises a record's role, substituting the source's
// default when the record carries no role at all.
func roleOrDefault(raw string, fallback Role) Role {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	return NormalizeRole(raw)
}
