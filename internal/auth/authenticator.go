package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
)

// Authenticator verifies a username/password pair against an ordered chain
// of credential providers. It is read-only: beyond provider lookups it has
// no side effects, and it is safe for concurrent use.
type Authenticator struct {
	providers []CredentialProvider
	logger    *slog.Logger
}

// NewAuthenticator creates an authenticator over the given providers,
// consulted in the order supplied.
func NewAuthenticator(logger *slog.Logger, providers ...CredentialProvider) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{providers: providers, logger: logger}
}

// Authenticate verifies credentials and returns the authenticated-user
// view, or (nil, nil) when authentication fails for any reason — the
// result never distinguishes "user not found" from "wrong password".
//
// Blank username or password short-circuits before any lookup. The first
// provider that returns a matching identity decides the outcome: a failed
// password check against that identity is a failure, not a fall-through to
// later sources, so ambiguous multi-source accounts cannot be probed.
// Identities without a stored hash/salt pair cannot authenticate via
// password and the chain continues past them.
//
// Context cancellation from a provider lookup propagates as an error.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*AuthenticatedUser, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, nil
	}

	username = strings.TrimSpace(username)

	for _, provider := range a.providers {
		cred, err := provider.Lookup(ctx, username)
		if err != nil {
			return nil, err
		}
		if cred == nil {
			continue
		}

		switch {
		case cred.HasPasswordHash():
			if VerifyPassword(password, cred.PasswordHash, cred.PasswordSalt) {
				return authenticatedUser(cred), nil
			}
			a.logger.Info("failed password verification",
				"source", provider.Name(),
			)
			return nil, nil

		case cred.Plaintext != "":
			if subtle.ConstantTimeCompare([]byte(cred.Plaintext), []byte(password)) == 1 {
				return authenticatedUser(cred), nil
			}
			a.logger.Info("failed password verification",
				"source", provider.Name(),
			)
			return nil, nil
		}

		// Identity exists but carries no usable credential material.
	}

	return nil, nil
}

// authenticatedUser builds the ephemeral user view from a verified
// credential, applying the source's default role when the record's role is
// blank.
func authenticatedUser(cred *Credential) *AuthenticatedUser {
	return &AuthenticatedUser{
		SubjectID:   cred.SubjectID,
		DisplayName: cred.DisplayName,
		Role:        roleOrDefault(cred.Role, cred.DefaultRole),
	}
}
