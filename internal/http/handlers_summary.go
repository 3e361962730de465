package http

import (
	"log/slog"
	"net/http"
)

func summaryCacheKey(activeOnly bool) string {
	if activeOnly {
		return "active"
	}
	return "all"
}

// handleSummary returns per-month financial rows, cached until the next
// mutation or TTL expiry. ?active_only=true restricts rent and penalty
// figures to rooms that still exist.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	activeOnly := r.URL.Query().Get("active_only") == "true"
	key := summaryCacheKey(activeOnly)

	if rows, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "scope", key)
		writeJSON(w, http.StatusOK, rows)
		return
	}

	rows, err := s.summary.MonthlySummary(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.summaryCache.Set(key, rows)
	slog.DebugContext(r.Context(), "Summary cached", "scope", key, "months", len(rows))
	writeJSON(w, http.StatusOK, rows)
}

// handleExportSummary pushes the current summary table to the configured
// spreadsheet.
func (s *Server) handleExportSummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	activeOnly := r.URL.Query().Get("active_only") == "true"
	count, err := s.summary.Export(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"exported_rows": count})
}
