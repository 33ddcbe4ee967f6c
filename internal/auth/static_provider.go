package auth

import (
	"context"
	"log/slog"
	"strings"
)

// BootstrapAccount is one entry in the static fallback credential table.
// Passwords here are plaintext and compared directly — this exists for
// bootstrap and dev environments only and must stay behind the explicit
// enable flag in production configurations.
type BootstrapAccount struct {
	Username    string
	Password    string
	Role        string
	DisplayName string
}

// defaultBootstrapAccounts is the built-in table used when bootstrap is
// enabled but no accounts are configured.
var defaultBootstrapAccounts = []BootstrapAccount{
	{Username: "admin", Password: "admin", Role: string(RoleAdmin)},
	{Username: "user", Password: "user", Role: string(RoleUser)},
}

// StaticProvider is the lowest-priority identity source: a fixed in-memory
// account table consulted only when no persisted identity matched. When
// disabled it never matches anything.
type StaticProvider struct {
	enabled  bool
	accounts map[string]BootstrapAccount // keyed by lowercased username
}

// NewStaticProvider creates the bootstrap identity source. When enabled
// with an empty account list the built-in admin/admin and user/user
// accounts apply, and a warning is logged so the condition is visible in
// production logs.
func NewStaticProvider(enabled bool, accounts []BootstrapAccount, logger *slog.Logger) *StaticProvider {
	p := &StaticProvider{
		enabled:  enabled,
		accounts: make(map[string]BootstrapAccount),
	}

	if !enabled {
		return p
	}

	if len(accounts) == 0 {
		accounts = defaultBootstrapAccounts
	}
	for _, a := range accounts {
		if strings.TrimSpace(a.Username) == "" || a.Password == "" {
			continue
		}
		p.accounts[strings.ToLower(a.Username)] = a
	}

	if logger != nil {
		logger.Warn("bootstrap credential table enabled",
			"accounts", len(p.accounts),
			"action_required", "disable auth.bootstrap in production",
		)
	}

	return p
}

// Name implements CredentialProvider.
func (p *StaticProvider) Name() string { return "bootstrap" }

// Lookup implements CredentialProvider. Matching is by exact username
// (case-insensitive key, as the original table behaved); the returned
// credential carries the plaintext password for the authenticator's
// direct comparison.
func (p *StaticProvider) Lookup(_ context.Context, username string) (*Credential, error) {
	if !p.enabled {
		return nil, nil
	}

	account, ok := p.accounts[strings.ToLower(username)]
	if !ok {
		return nil, nil
	}

	displayName := account.DisplayName
	if strings.TrimSpace(displayName) == "" {
		displayName = account.Username
	}

	return &Credential{
		SubjectID:   account.Username,
		DisplayName: displayName,
		Role:        account.Role,
		DefaultRole: RoleUser,
		Plaintext:   account.Password,
	}, nil
}
