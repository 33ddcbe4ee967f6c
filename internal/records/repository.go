// Package records provides read-mostly access to the course catalogue.
// It exists so the permission-guarded API surface has real records behind
// it; the heavier domain CRUD lives outside this service.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Course is one catalogue entry.
type Course struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ErrCourseExists is returned when creating a course whose name is taken.
var ErrCourseExists = errors.New("course already exists")

// CourseRepository defines the interface for course catalogue access.
type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	List(ctx context.Context) ([]Course, error)
}

// SQLiteCourseRepository implements CourseRepository using SQLite.
type SQLiteCourseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a SQLite-backed course repository.
func NewCourseRepository(db *sql.DB) *SQLiteCourseRepository {
	return &SQLiteCourseRepository{db: db}
}

// Create inserts a new course. The ID and CreatedAt are generated if empty.
func (r *SQLiteCourseRepository) Create(ctx context.Context, course *Course) error {
	if course.ID == "" {
		course.ID = "crs-" + uuid.NewString()[:8]
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, name, department, created_at) VALUES (?, ?, ?, ?)`,
		course.ID, course.Name, nullString(course.Department),
		course.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrCourseExists
		}
		return fmt.Errorf("creating course: %w", err)
	}

	return nil
}

// List returns all courses ordered by name.
func (r *SQLiteCourseRepository) List(ctx context.Context) ([]Course, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, department, created_at FROM courses ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		var c Course
		var department sql.NullString
		var createdAt string

		if err := rows.Scan(&c.ID, &c.Name, &department, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}

		c.Department = department.String
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled

		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}

	return courses, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
