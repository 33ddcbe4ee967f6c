package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bogdandanielioan/online-school-api/internal/audit"
	"github.com/bogdandanielioan/online-school-api/internal/auth"
)

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /auth/login.
type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
}

// handleLogin authenticates a user and returns a signed access token.
// Failures are a single generic 401: the response never distinguishes
// "user not found" from "wrong password".
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	// Both fields must be non-blank before the authenticator is consulted.
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		// Lookup failure or cancellation, not a credential decision.
		s.logger.Error("authentication lookup failed", "error", err)
		writeInternalError(w, "authentication unavailable")
		return
	}
	if user == nil {
		s.recordLogin(r, req.Username, false)
		s.logger.Info("invalid login attempt",
			"request_id", requestIDFromContext(r.Context()),
		)
		writeUnauthorized(w, "invalid credentials")
		return
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err)
		writeInternalError(w, "failed to generate token")
		return
	}

	s.recordLogin(r, user.SubjectID, true)

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		Role:      string(user.Role),
	})
}

// registerRequest is the request body for POST /auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// handleRegister creates a new student identity with a hashed password.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}
	if req.Name == "" {
		req.Name = req.Username
	}

	hash, salt, err := auth.HashPassword(req.Password)
	if err != nil {
		writeBadRequest(w, "password is not acceptable")
		return
	}

	err = s.identities.CreateStudent(r.Context(), auth.NewIdentity{
		Email:        req.Username,
		DisplayName:  req.Name,
		Role:         auth.RoleUser,
		PasswordHash: hash,
		PasswordSalt: salt,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUsernameExists) {
			writeConflict(w, "username already exists")
			return
		}
		s.logger.Error("registration failed", "error", err)
		writeInternalError(w, "failed to create account")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"username": req.Username,
		"name":     req.Name,
		"role":     string(auth.RoleUser),
	})
}

// meResponse is the response body for GET /auth/me.
type meResponse struct {
	Subject     string   `json:"subject"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	ExpiresAt   string   `json:"expires_at"`
}

// handleMe returns the claims of the presented token.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeUnauthorized(w, "invalid or missing token")
		return
	}

	resp := meResponse{
		Subject:     claims.Subject,
		Name:        claims.Name,
		Role:        string(claims.Role),
		Permissions: claims.Permissions,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, resp)
}

// recordLogin writes a login audit event. Audit failures are logged, not
// surfaced: authentication outcomes never depend on the audit trail.
func (s *Server) recordLogin(r *http.Request, username string, success bool) {
	if s.audit == nil {
		return
	}

	event := &audit.LoginEvent{
		Username:  username,
		Success:   success,
		RequestID: requestIDFromContext(r.Context()),
	}
	if err := s.audit.Create(r.Context(), event); err != nil {
		s.logger.Error("recording login event", "error", err)
	}
}
