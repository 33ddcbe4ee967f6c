package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bogdandanielioan/online-school-api/internal/auth"
)

// handleListStudents returns the password-free student roster.
// Guarded by read:student.
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.identities.ListStudents(r.Context())
	if err != nil {
		s.logger.Error("listing students", "error", err)
		writeInternalError(w, "failed to list students")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"students": students,
		"count":    len(students),
	})
}

// createStudentRequest is the request body for POST /students.
type createStudentRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// handleCreateStudent creates a student identity on behalf of an
// administrator. Guarded by write:student.
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" {
		writeBadRequest(w, "email and name are required")
		return
	}

	identity := auth.NewIdentity{
		Email:       req.Email,
		DisplayName: req.Name,
		Role:        auth.NormalizeRole(req.Role),
	}

	// Password is optional: an account created without one cannot
	// authenticate until a credential is set.
	if req.Password != "" {
		hash, salt, err := auth.HashPassword(req.Password)
		if err != nil {
			writeBadRequest(w, "password is not acceptable")
			return
		}
		identity.PasswordHash = hash
		identity.PasswordSalt = salt
	}

	if err := s.identities.CreateStudent(r.Context(), identity); err != nil {
		if errors.Is(err, auth.ErrUsernameExists) {
			writeConflict(w, "email already exists")
			return
		}
		s.logger.Error("creating student", "error", err)
		writeInternalError(w, "failed to create student")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"email": req.Email,
		"name":  req.Name,
	})
}
