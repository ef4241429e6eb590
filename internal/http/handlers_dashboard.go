package http

import (
	"log/slog"
	"net/http"

	"financas/internal/core"
)

// handleDashboard returns the month view: stored records plus the
// installment occurrences that land in the month, with totals.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, "month must be between 1 and 12", http.StatusBadRequest)
		return
	}

	key := dashboardCacheKey(owner, year, month)
	if view, ok := s.dashCache.Get(key); ok {
		writeJSON(w, http.StatusOK, toDashboardView(view))
		return
	}

	view, err := s.planner.BuildMonth(r.Context(), owner, year, month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.dashCache.Set(key, view)

	slog.DebugContext(r.Context(), "Dashboard built",
		"owner_id", owner,
		"year", year,
		"month", month,
		"transactions", len(view.Transactions))

	writeJSON(w, http.StatusOK, toDashboardView(view))
}

// handleListInstallments returns the stored installment obligations,
// not their monthly occurrences.
func (s *Server) handleListInstallments(w http.ResponseWriter, r *http.Request) {
	records, err := s.transactions.ListInstallments(r.Context(), ownerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionViews(records))
}

func (s *Server) listMonth(w http.ResponseWriter, r *http.Request, kind core.Kind) {
	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, "month must be between 1 and 12", http.StatusBadRequest)
		return
	}

	records, err := s.transactions.ListMonth(r.Context(), ownerID(r), kind, year, month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionViews(records))
}
