package http

import (
	"net/http"
)

// handleGoalStatus returns the stored goal plus live progress figures.
// 404 means the owner never saved a goal.
func (s *Server) handleGoalStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.goals.Status(r.Context(), ownerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalStatusView(status))
}

// handleSaveGoal upserts the owner's single goal. The achieved flag is
// snapshotted against the balance at save time.
func (s *Server) handleSaveGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := req.toGoal(ownerID(r))
	if err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	saved, err := s.goals.Save(r.Context(), g)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status, err := s.goals.Status(r.Context(), saved.OwnerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalStatusView(status))
}
