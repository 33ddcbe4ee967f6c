package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// seedPasswordBytes is the number of random bytes for the seed admin password.
const seedPasswordBytes = 16

// SeedAdmin creates an initial admin staff account on first boot if no
// identities exist. This is the production-grade alternative to the
// bootstrap credential table: the password is random, hashed, and
// persisted. It is logged once — it must be changed immediately.
//
// Returns the generated password (empty string if seeding was skipped).
func SeedAdmin(ctx context.Context, store *IdentityStore, logger *slog.Logger) (string, error) {
	count, err := store.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("checking identity count: %w", err)
	}

	if count > 0 {
		logger.Info("identities exist, skipping admin seed")
		return "", nil
	}

	passwordBytes := make([]byte, seedPasswordBytes)
	if _, err := rand.Read(passwordBytes); err != nil {
		return "", fmt.Errorf("generating seed password: %w", err)
	}
	password := hex.EncodeToString(passwordBytes)

	hash, salt, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing seed password: %w", err)
	}

	admin := NewIdentity{
		Email:        "admin@school.local",
		DisplayName:  "System Administrator",
		Role:         RoleAdmin,
		PasswordHash: hash,
		PasswordSalt: salt,
	}

	if err := store.CreateStaff(ctx, admin); err != nil {
		return "", fmt.Errorf("creating seed admin: %w", err)
	}

	logger.Warn("seed admin account created",
		"username", admin.Email,
		"password", password,
		"action_required", "change this password immediately",
	)

	return password, nil
}
