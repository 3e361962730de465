package http

import (
	"net/http"
	"strings"

	"kosku/internal/core"
)

// handlePayments serves GET /payments (list, optional ?month=YYYY-MM) and
// POST /payments (create a single billing record by hand).
func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		payments, err := s.billing.ListPayments(r.Context(), monthParam(r, false))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, payments)
	case http.MethodPost:
		var payment core.Payment
		if err := readJSON(w, r, &payment); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := s.billing.CreatePayment(r.Context(), payment)
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

type recordPaymentRequest struct {
	ID          int64      `json:"id"`
	AmountPaid  core.Money `json:"amount_paid"`
	PaymentDate core.Date  `json:"payment_date"`
	Method      string     `json:"method"`
}

// handleRecordPayment applies a received payment to an existing billing record.
func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req recordPaymentRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID <= 0 {
		writeError(w, http.StatusBadRequest, "payment id is required")
		return
	}
	updated, err := s.billing.RecordPayment(r.Context(), req.ID, req.AmountPaid, req.PaymentDate, strings.TrimSpace(req.Method))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusOK, updated)
}

type generateRequest struct {
	Month string `json:"month"`
	Async bool   `json:"async"`
}

// handleGeneratePayments creates the missing billing records for a month,
// one per occupied room that has none yet. With async set the work is
// enqueued for the background worker instead of running inline.
func (s *Server) handleGeneratePayments(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req generateRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Async {
		if s.commands == nil {
			writeError(w, http.StatusServiceUnavailable, "no message broker configured")
			return
		}
		if _, err := core.ParseMonth(req.Month); err != nil {
			writeServiceError(w, r, err)
			return
		}
		if err := s.commands.PublishGenerateMonth(r.Context(), req.Month); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"month": req.Month, "status": "enqueued"})
		return
	}
	result, err := s.billing.GenerateForMonth(r.Context(), req.Month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if result.Created > 0 {
		s.invalidateSummary()
	}
	writeJSON(w, http.StatusOK, result)
}
