package auth

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "auth-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Apply the identity migration
	migrationSQL := `
		CREATE TABLE students (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT,
			password_hash TEXT,
			password_salt TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			CHECK ((password_hash IS NULL) = (password_salt IS NULL))
		);

		CREATE TABLE teachers (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT,
			password_hash TEXT,
			password_salt TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			CHECK ((password_hash IS NULL) = (password_salt IS NULL))
		);
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("creating identity tables: %v", err)
	}

	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testSigningKey = "test-signing-key-0123456789abcdef"

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()

	issuer, err := NewIssuer(IssuerConfig{
		Secret:   testSigningKey,
		Issuer:   "onlineschool",
		Audience: "onlineschool-api",
	}, NewResolver(nil, discardLogger()))
	if err != nil {
		t.Fatalf("NewIssuer() error = %v", err)
	}
	return issuer
}

// signExpiredToken signs a structurally valid token whose expiry is in the
// past, using the issuer's own key and audience.
func signExpiredToken(t *testing.T, i *Issuer, role Role, permissions []string) string {
	t.Helper()

	past := time.Now().UTC().Add(-2 * time.Hour)
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "expired@school.local",
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
		Name:        "Expired User",
		Role:        role,
		Permissions: permissions,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}
	return signed
}
