package http

import (
	"net/http"

	"financas/internal/core"
)

// Income and expense handlers share the same flow; only the kind
// differs. Every successful write drops the owner's cached dashboards.

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	s.listMonth(w, r, core.KindIncome)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	s.listMonth(w, r, core.KindExpense)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	s.createTransaction(w, r, core.KindIncome)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	s.createTransaction(w, r, core.KindExpense)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	s.updateTransaction(w, r, core.KindIncome)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	s.updateTransaction(w, r, core.KindExpense)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	s.deleteTransaction(w, r, core.KindIncome)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.deleteTransaction(w, r, core.KindExpense)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request, kind core.Kind) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	owner := ownerID(r)
	t, err := req.toTransaction(owner, kind)
	if err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	id, err := s.transactions.Create(r.Context(), t)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateDashboards(owner)
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, kind core.Kind) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, "missing id", http.StatusBadRequest)
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	owner := ownerID(r)
	t, err := req.toTransaction(owner, kind)
	if err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	t.ID = id

	if err := s.transactions.Update(r.Context(), t); err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateDashboards(owner)
	writeJSON(w, http.StatusOK, toTransactionView(t))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, kind core.Kind) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, "missing id", http.StatusBadRequest)
		return
	}

	owner := ownerID(r)
	if err := s.transactions.Delete(r.Context(), owner, kind, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateDashboards(owner)
	writeJSON(w, http.StatusNoContent, nil)
}
