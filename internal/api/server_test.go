package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bogdandanielioan/online-school-api/internal/audit"
	"github.com/bogdandanielioan/online-school-api/internal/auth"
	"github.com/bogdandanielioan/online-school-api/internal/infrastructure/config"
	"github.com/bogdandanielioan/online-school-api/internal/infrastructure/logging"
	"github.com/bogdandanielioan/online-school-api/internal/records"
)

const (
	testSecret   = "integration-test-signing-key-0123456789"
	testIssuer   = "onlineschool"
	testAudience = "onlineschool-api"
)

// setupTestDB creates a temp-file SQLite database with the full schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "api-test-*.db")
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

	schema := `
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

		CREATE TABLE login_audit (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			success INTEGER NOT NULL,
			source TEXT,
			request_id TEXT,
			created_at TEXT NOT NULL
		);

		CREATE TABLE courses (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			department TEXT,
			created_at TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return db
}

// testServer builds a fully-wired server over a fresh database. The
// bootstrap credential table is enabled so admin/admin and user/user work
// without seeding.
func testServer(t *testing.T) *Server {
	return testServerWithBootstrap(t, true)
}

func testServerWithBootstrap(t *testing.T, bootstrapEnabled bool) *Server {
	t.Helper()

	db := setupTestDB(t)
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"}, "test")

	identities := auth.NewIdentityStore(db)
	authenticator := auth.NewAuthenticator(log.Logger,
		auth.NewStudentProvider(identities),
		auth.NewStaffProvider(identities),
		auth.NewStaticProvider(bootstrapEnabled, nil, log.Logger),
	)

	issuer, err := auth.NewIssuer(auth.IssuerConfig{
		Secret:   testSecret,
		Issuer:   testIssuer,
		Audience: testAudience,
	}, auth.NewResolver(nil, log.Logger))
	if err != nil {
		t.Fatalf("NewIssuer() error = %v", err)
	}

	srv, err := New(Deps{
		Config:        config.APIConfig{Host: "127.0.0.1", Port: 8080},
		Logger:        log,
		Authenticator: authenticator,
		Issuer:        issuer,
		Identities:    identities,
		Courses:       records.NewCourseRepository(db),
		Audit:         audit.NewSQLiteRepository(db),
		Version:       "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

// roleToken issues a token for a synthetic principal with the given role.
func roleToken(t *testing.T, srv *Server, role auth.Role) string {
	t.Helper()

	token, err := srv.issuer.Issue(&auth.AuthenticatedUser{
		SubjectID:   "test@school.local",
		DisplayName: "Test Principal",
		Role:        role,
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token.Token
}

// expiredRoleToken signs a token with the test key that expired an hour ago.
func expiredRoleToken(t *testing.T, role auth.Role) string {
	t.Helper()

	past := time.Now().UTC().Add(-2 * time.Hour)
	claims := auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "expired@school.local",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
		Name:        "Expired",
		Role:        role,
		Permissions: []string{"read", "write"},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}
	return signed
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshalling request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// createStudent registers a student directly through the identity store.
func createStudent(t *testing.T, srv *Server, email, password string) {
	t.Helper()

	hash, salt, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	err = srv.identities.CreateStudent(context.Background(), auth.NewIdentity{
		Email:        email,
		DisplayName:  email,
		PasswordHash: hash,
		PasswordSalt: salt,
	})
	if err != nil {
		t.Fatalf("CreateStudent() error = %v", err)
	}
}

func TestServer_New_RequiresDependencies(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"}, "test")

	if _, err := New(Deps{}); err == nil {
		t.Error("New() without a logger should fail")
	}
	if _, err := New(Deps{Logger: log}); err == nil {
		t.Error("New() without an authenticator should fail")
	}
}

func TestServer_Health(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
}
