package web

import (
	"net/http"

	"invoicedesk/internal/app"
	"invoicedesk/internal/core"
)

// listQuotations handles GET /api/quotations. An optional ?status= query
// filters by lifecycle status.
func (h *Handler) listQuotations(w http.ResponseWriter, r *http.Request) {
	var status *core.QuotationStatus
	if s := r.URL.Query().Get("status"); s != "" {
		qs := core.QuotationStatus(s)
		switch qs {
		case core.QuotationStatusPerforma, core.QuotationStatusPartiallyPaid, core.QuotationStatusFullyPaid:
			status = &qs
		default:
			writeError(w, r, "unknown quotation status: "+s, "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}

	result, err := h.svc.ListQuotations(r.Context(), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getQuotation handles GET /api/quotations/{id}.
func (h *Handler) getQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	q, err := h.svc.GetQuotation(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// createQuotation handles POST /api/quotations.
func (h *Handler) createQuotation(w http.ResponseWriter, r *http.Request) {
	var req app.CreateQuotationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.svc.CreateQuotation(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, q)
}

// updateQuotation handles PUT /api/quotations/{id}.
func (h *Handler) updateQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.UpdateQuotationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.svc.UpdateQuotation(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// deleteQuotation handles DELETE /api/quotations/{id}.
func (h *Handler) deleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteQuotation(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// recordPayment handles POST /api/quotations/{id}/payments.
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.RecordPayment(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result)
}

// fullyPayQuotation handles POST /api/quotations/{id}/fully-pay. An omitted
// or zero amount settles the whole outstanding balance.
func (h *Handler) fullyPayQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.FullyPayQuotation(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result)
}

// listQuotationPayments handles GET /api/quotations/{id}/payments.
func (h *Handler) listQuotationPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ListQuotationPayments(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// listQuotationInvoices handles GET /api/quotations/{id}/invoices.
func (h *Handler) listQuotationInvoices(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ListInvoicesForQuotation(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
