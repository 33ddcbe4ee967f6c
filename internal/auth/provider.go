package auth

import "context"

// CredentialProvider is one identity source the authenticator can consult.
// Providers are iterated in fixed priority order; adding a new source
// (e.g. external SSO) means implementing this interface and appending it
// to the chain — the authenticator's control flow does not change.
type CredentialProvider interface {
	// Name identifies the source in logs and audit records.
	Name() string

	// Lookup finds the credential record for a username. It returns
	// (nil, nil) when no identity matches; errors are reserved for I/O
	// failures and context cancellation, which the authenticator
	// propagates rather than swallows.
	Lookup(ctx context.Context, username string) (*Credential, error)
}
