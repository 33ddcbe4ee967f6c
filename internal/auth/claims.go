package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// ClaimKind identifies one of the claim types embedded in an access token.
// Using typed kinds instead of free string pairs means a typo in a claim
// type is a compile error, not a silently unauthorised token.
type ClaimKind string

const (
	ClaimSubject    ClaimKind = "sub"
	ClaimName       ClaimKind = "name"
	ClaimRole       ClaimKind = "role"
	ClaimPermission ClaimKind = "permission"
)

// Claim is a single caller-supplied fact to embed in a token, appended
// after the claims derived from the authenticated user. Duplicate
// permission claims are legal and preserved.
type Claim struct {
	Kind  ClaimKind
	Value string
}

// TokenClaims is the full claim set carried by an access token. It is
// built once at issuance as a pure function of the authenticated user, the
// resolved permission set, and any extra claims, and is never mutated
// after signing.
type TokenClaims struct {
	jwt.RegisteredClaims
	Name        string              `json:"name"`
	Role        Role                `json:"role"`
	Permissions []string            `json:"permission,omitempty"`
	Extra       map[string][]string `json:"extra,omitempty"`
}

// addExtra folds a caller-supplied claim into the claim set. Permission
// claims extend the permission list (no dedupe against resolver-derived
// entries); other kinds accumulate under their own key.
func (c *TokenClaims) addExtra(claim Claim) {
	if claim.Kind == ClaimPermission {
		c.Permissions = append(c.Permissions, claim.Value)
		return
	}

	if c.Extra == nil {
		c.Extra = make(map[string][]string)
	}
	c.Extra[string(claim.Kind)] = append(c.Extra[string(claim.Kind)], claim.Value)
}
