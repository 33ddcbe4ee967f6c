package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IdentityStore reads and writes the persisted identity tables (students
// and teachers) in SQLite. The auth core only ever reads credential
// columns through it; writes exist for registration and first-boot
// seeding.
type IdentityStore struct {
	db *sql.DB
}

// NewIdentityStore creates a SQLite-backed identity store.
func NewIdentityStore(db *sql.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

// StudentByUsername returns the credential view of a student record, or
// (nil, nil) when no student matches.
func (s *IdentityStore) StudentByUsername(ctx context.Context, username string) (*Credential, error) {
	return s.credentialByUsername(ctx,
		"SELECT email, name, role, password_hash, password_salt FROM students WHERE email = ?",
		username, RoleUser)
}

// StaffByUsername returns the credential view of a teacher record, or
// (nil, nil) when no teacher matches.
func (s *IdentityStore) StaffByUsername(ctx context.Context, username string) (*Credential, error) {
	return s.credentialByUsername(ctx,
		"SELECT email, name, role, password_hash, password_salt FROM teachers WHERE email = ?",
		username, RoleAdmin)
}

// credentialByUsername runs one lookup query and scans the credential
// columns. Hash and salt columns are nullable: both present or the record
// cannot authenticate via password.
func (s *IdentityStore) credentialByUsername(ctx context.Context, query, username string, defaultRole Role) (*Credential, error) {
	var cred Credential
	var role, hash, salt sql.NullString

	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&cred.SubjectID, &cred.DisplayName, &role, &hash, &salt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up identity: %w", err)
	}

	cred.Role = role.String
	cred.DefaultRole = defaultRole
	cred.PasswordHash = hash.String
	cred.PasswordSalt = salt.String

	return &cred, nil
}

// NewIdentity holds the fields needed to create a persisted identity.
type NewIdentity struct {
	Email        string
	DisplayName  string
	Role         Role // blank keeps the table's source default
	PasswordHash string
	PasswordSalt string
}

// CreateStudent inserts a new student identity. Returns ErrUsernameExists
// when the email is already taken.
func (s *IdentityStore) CreateStudent(ctx context.Context, id NewIdentity) error {
	return s.createIdentity(ctx, "students", id)
}

// CreateStaff inserts a new teacher identity. Returns ErrUsernameExists
// when the email is already taken.
func (s *IdentityStore) CreateStaff(ctx context.Context, id NewIdentity) error {
	return s.createIdentity(ctx, "teachers", id)
}

func (s *IdentityStore) createIdentity(ctx context.Context, table string, id NewIdentity) error {
	now := time.Now().UTC().Format(time.RFC3339)

	// Table name comes from the two fixed callers above, never from input.
	query := fmt.Sprintf(
		`INSERT INTO %s (id, email, name, role, password_hash, password_salt, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, table)

	_, err := s.db.ExecContext(ctx, query,
		table[:3]+"-"+uuid.NewString()[:8],
		id.Email, id.DisplayName, nullString(string(id.Role)),
		nullString(id.PasswordHash), nullString(id.PasswordSalt),
		now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("creating identity: %w", err)
	}

	return nil
}

// StudentSummary is the password-free view of a student record served by
// the records API.
type StudentSummary struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ListStudents returns all students ordered by creation date. Password
// material is never selected.
func (s *IdentityStore) ListStudents(ctx context.Context) ([]StudentSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT email, name, role FROM students ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	defer rows.Close()

	students := []StudentSummary{}
	for rows.Next() {
		var st StudentSummary
		var role sql.NullString
		if err := rows.Scan(&st.Email, &st.Name, &role); err != nil {
			return nil, fmt.Errorf("scanning student: %w", err)
		}
		st.Role = string(roleOrDefault(role.String, RoleUser))
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating students: %w", err)
	}

	return students, nil
}

// Count returns the total number of persisted identities across both
// tables. Used by the first-boot seed guard.
func (s *IdentityStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM students) + (SELECT COUNT(*) FROM teachers)",
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting identities: %w", err)
	}
	return count, nil
}

// Helper functions.

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}
