package httpapi

import "net/http"

// handleMetrics exposes a JSON snapshot of the service's in-process
// metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		writeError(w, r, http.StatusServiceUnavailable, "INTERNAL_ERROR", "metrics collector not configured")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}
