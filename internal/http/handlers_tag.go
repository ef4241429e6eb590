package http

import (
	"errors"
	"net/http"

	"financas/internal/core"
)

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	kind := core.Kind(sanitizeInput(r.URL.Query().Get("kind")))
	if kind == "" {
		kind = core.KindExpense
	}

	tags, err := s.tags.List(r.Context(), ownerID(r), kind)
	if err != nil {
		if errors.Is(err, core.ErrInvalidKind) {
			writeError(w, "kind must be receita or despesa", http.StatusBadRequest)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTagViews(tags))
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tg, err := req.toTag(ownerID(r))
	if err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	id, err := s.tags.Create(r.Context(), tg)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, "missing id", http.StatusBadRequest)
		return
	}

	if err := s.tags.Delete(r.Context(), ownerID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
