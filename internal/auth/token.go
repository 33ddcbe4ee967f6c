package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// defaultLifetimeMinutes is the access token lifetime used when the
// configured value is unset or non-positive.
const defaultLifetimeMinutes = 60

// ErrTokenInvalid wraps any parse/validation failure of a presented token.
var ErrTokenInvalid = errors.New("invalid token")

// IssuerConfig carries the signing settings for the token issuer. It maps
// to the security.jwt section of config.yaml.
type IssuerConfig struct {
	// Secret is the symmetric HS256 signing key. Required.
	Secret string

	// Issuer and Audience are embedded in every token and enforced when
	// parsing.
	Issuer   string
	Audience string

	// LifetimeMinutes is the access token lifetime. Values <= 0 fall back
	// to the 60-minute default.
	LifetimeMinutes int
}

// Issuer builds and validates signed access tokens. Construction fails if
// the signing key is missing — a fundamentally unconfigured system should
// die at startup, not 401 every request.
type Issuer struct {
	cfg      IssuerConfig
	key      []byte
	resolver *Resolver
}

// NewIssuer creates a token issuer. Returns ErrMissingSigningKey when the
// signing key is absent or blank.
func NewIssuer(cfg IssuerConfig, resolver *Resolver) (*Issuer, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrMissingSigningKey
	}
	if cfg.LifetimeMinutes <= 0 {
		cfg.LifetimeMinutes = defaultLifetimeMinutes
	}

	return &Issuer{
		cfg:      cfg,
		key:      []byte(cfg.Secret),
		resolver: resolver,
	}, nil
}

// Issue creates a signed access token for an authenticated user.
//
// The claim set is subject, display name, role, one permission entry per
// resolved permission, then any extra claims appended last. Expiry is
// now(UTC) + the configured lifetime and is returned out-of-band in the
// GeneratedToken as well as inside the token.
func (i *Issuer) Issue(user *AuthenticatedUser, extra ...Claim) (*GeneratedToken, error) {
	if user == nil {
		return nil, fmt.Errorf("issuing token: user is nil")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(i.cfg.LifetimeMinutes) * time.Minute)

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.SubjectID,
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Name: user.DisplayName,
		Role: user.Role,
	}

	if i.resolver != nil {
		claims.Permissions = i.resolver.Permissions(string(user.Role))
	}

	for _, c := range extra {
		claims.addExtra(c)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	return &GeneratedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Parse validates a presented token and returns its claims. It checks the
// signature, signing method, issuer, audience, and expiry.
func (i *Issuer) Parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(_ *jwt.Token) (any, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing role", ErrTokenInvalid)
	}

	return claims, nil
}
