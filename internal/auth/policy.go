package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// broadGrants maps each compound capability to the broader capability that
// also grants it. The mapping is explicit per capability family — this is
// deliberately not a generic prefix match, so read:course never implies
// write:course.
var broadGrants = map[string]string{
	"read:student":  "read",
	"write:student": "write",
	"read:course":   "read",
	"write:course":  "write",
}

// Allowed reports whether a permission claim set grants the required
// capability: either an exact match, or the family's broad grant.
func Allowed(permissions []string, capability string) bool {
	broad := broadGrants[capability]
	for _, p := range permissions {
		if p == capability {
			return true
		}
		if broad != "" && p == broad {
			return true
		}
	}
	return false
}

// TokenState classifies an incoming bearer token. Every request boundary
// resolves to exactly one state before proceeding; only TokenAllowed may
// reach business logic. There is no partial-trust state.
type TokenState int

const (
	// TokenAbsent means no token was presented.
	TokenAbsent TokenState = iota

	// TokenMalformed covers bad encoding, bad signature, and wrong
	// issuer/audience — anything unparseable or untrusted.
	TokenMalformed

	// TokenExpired means the token validated structurally but is past its
	// expiry.
	TokenExpired

	// TokenDenied means the token is valid but its claims do not grant the
	// required capability.
	TokenDenied

	// TokenAllowed means the token is valid and grants the capability.
	TokenAllowed
)

// String returns the state name for logging.
func (s TokenState) String() string {
	switch s {
	case TokenAbsent:
		return "absent"
	case TokenMalformed:
		return "malformed"
	case TokenExpired:
		return "expired"
	case TokenDenied:
		return "valid-denied"
	case TokenAllowed:
		return "valid-allowed"
	default:
		return "unknown"
	}
}

// Classify resolves a raw bearer token plus a required capability into a
// token state. On TokenDenied and TokenAllowed the parsed claims are
// returned for the caller's use; all other states yield nil claims.
func (i *Issuer) Classify(rawToken, capability string) (TokenState, *TokenClaims) {
	if rawToken == "" {
		return TokenAbsent, nil
	}

	claims, err := i.Parse(rawToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenExpired, nil
		}
		return TokenMalformed, nil
	}

	if !Allowed(claims.Permissions, capability) {
		return TokenDenied, claims
	}
	return TokenAllowed, claims
}
