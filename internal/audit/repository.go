// Package audit records and queries the login-attempt audit trail.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LoginEvent is a single authentication attempt, successful or not. The
// Detail field never carries credential material or a failure cause — the
// outcome is a bare success flag by design.
type LoginEvent struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Success   bool      `json:"success"`
	Source    string    `json:"source,omitempty"` // provider that decided the outcome
	RequestID string    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter controls which login events to return.
type Filter struct {
	Username string // optional: filter by username
	Success  *bool  // optional: filter by outcome
	Limit    int    // default 50, max 200
	Offset   int    // pagination offset
}

// ListResult contains the paginated login event results.
type ListResult struct {
	Events []LoginEvent `json:"events"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Repository defines the interface for login audit operations.
type Repository interface {
	Create(ctx context.Context, event *LoginEvent) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository stores login events in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new login audit repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a login event. The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, event *LoginEvent) error {
	if event.ID == "" {
		event.ID = "lgn-" + uuid.NewString()[:8]
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO login_audit (id, username, success, source, request_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Username, boolToInt(event.Success),
		nullableString(event.Source), nullableString(event.RequestID),
		event.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting login event: %w", err)
	}

	return nil
}

// List returns login events matching the filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any

	if filter.Username != "" {
		conditions = append(conditions, "username = ?")
		args = append(args, filter.Username)
	}
	if filter.Success != nil {
		conditions = append(conditions, "success = ?")
		args = append(args, boolToInt(*filter.Success))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// WHERE clause is assembled from parameterised conditions only.
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM login_audit %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting login events: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT id, username, success, source, request_id, created_at FROM login_audit %s ORDER BY created_at DESC LIMIT ? OFFSET ?",
		where,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying login events: %w", err)
	}
	defer rows.Close()

	events := []LoginEvent{}
	for rows.Next() {
		var e LoginEvent
		var success int
		var source, requestID sql.NullString
		var createdAt string

		if err := rows.Scan(&e.ID, &e.Username, &success, &source, &requestID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning login event: %w", err)
		}

		e.Success = success != 0
		e.Source = source.String
		e.RequestID = requestID.String

		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing login event timestamp %q: %w", createdAt, err)
		}
		e.CreatedAt = t

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating login events: %w", err)
	}

	return &ListResult{
		Events: events,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// nullableString returns nil for empty strings, used for nullable TEXT columns.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
