package http

import (
	"net/http"

	"kosku/internal/core"
)

// handlePenalties serves GET /penalties (list, optional ?month=) and
// POST /penalties (record a fine).
func (s *Server) handlePenalties(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		penalties, err := s.ledger.ListPenalties(r.Context(), monthParam(r, false))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, penalties)
	case http.MethodPost:
		var penalty core.Penalty
		if err := readJSON(w, r, &penalty); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := s.ledger.CreatePenalty(r.Context(), penalty)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.invalidateSummary()
		writeJSON(w, http.StatusCreated, created)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleUpdatePenalty(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var penalty core.Penalty
	if err := readJSON(w, r, &penalty); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if penalty.ID <= 0 {
		writeError(w, http.StatusBadRequest, "penalty id is required")
		return
	}
	if err := s.ledger.UpdatePenalty(r.Context(), penalty); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusOK, penalty)
}

type markPaidRequest struct {
	ID       int64     `json:"id"`
	PaidDate core.Date `json:"paid_date"`
}

// handleMarkPenaltyPaid records that a fine was collected. PaidDate is
// optional and defaults to today.
func (s *Server) handleMarkPenaltyPaid(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req markPaidRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID <= 0 {
		writeError(w, http.StatusBadRequest, "penalty id is required")
		return
	}
	if err := s.ledger.MarkPenaltyPaid(r.Context(), req.ID, req.PaidDate); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusOK, map[string]int64{"paid": req.ID})
}

func (s *Server) handleDeletePenalty(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ledger.DeletePenalty(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

// handleExpenses serves GET /expenses (list, optional ?month=) and
// POST /expenses (record a cost).
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses, err := s.ledger.ListExpenses(r.Context(), monthParam(r, false))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, expenses)
	case http.MethodPost:
		var expense core.Expense
		if err := readJSON(w, r, &expense); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := s.ledger.CreateExpense(r.Context(), expense)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.invalidateSummary()
		writeJSON(w, http.StatusCreated, created)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var expense core.Expense
	if err := readJSON(w, r, &expense); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if expense.ID <= 0 {
		writeError(w, http.StatusBadRequest, "expense id is required")
		return
	}
	if err := s.ledger.UpdateExpense(r.Context(), expense); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ledger.DeleteExpense(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}
