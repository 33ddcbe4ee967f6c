package api

import (
	"net/http"
	"strconv"

	"github.com/bogdandanielioan/online-school-api/internal/audit"
)

// handleListLoginEvents returns the login audit trail, most recent first.
// Guarded by the broad write capability (admin-only by default).
func (s *Server) handleListLoginEvents(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeJSON(w, http.StatusOK, &audit.ListResult{Events: []audit.LoginEvent{}})
		return
	}

	filter := audit.Filter{
		Username: r.URL.Query().Get("username"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	if v := r.URL.Query().Get("success"); v != "" {
		success := v == "true" || v == "1"
		filter.Success = &success
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing login events", "error", err)
		writeInternalError(w, "failed to list login events")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
