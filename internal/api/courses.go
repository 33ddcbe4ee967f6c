package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bogdandanielioan/online-school-api/internal/records"
)

// handleListCourses returns the course catalogue. Guarded by read:course.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.courses.List(r.Context())
	if err != nil {
		s.logger.Error("listing courses", "error", err)
		writeInternalError(w, "failed to list courses")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"courses": courses,
		"count":   len(courses),
	})
}

// createCourseRequest is the request body for POST /courses.
type createCourseRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

// handleCreateCourse adds a course to the catalogue. Guarded by
// write:course.
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	course := &records.Course{
		Name:       req.Name,
		Department: strings.TrimSpace(req.Department),
	}

	if err := s.courses.Create(r.Context(), course); err != nil {
		if errors.Is(err, records.ErrCourseExists) {
			writeConflict(w, "course already exists")
			return
		}
		s.logger.Error("creating course", "error", err)
		writeInternalError(w, "failed to create course")
		return
	}

	writeJSON(w, http.StatusCreated, course)
}
