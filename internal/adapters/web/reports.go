package web

import (
	"net/http"
	"strconv"
	"time"
)

// revenueByMonth handles GET /api/reports/revenue?year=2024. The year
// defaults to the current year when omitted.
func (h *Handler) revenueByMonth(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n < 2000 || n > 2200 {
			writeError(w, r, "invalid year parameter", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		year = n
	}

	result, err := h.svc.GetRevenueByMonth(r.Context(), year)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// outstandingBalances handles GET /api/reports/outstanding.
func (h *Handler) outstandingBalances(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetOutstandingBalances(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
