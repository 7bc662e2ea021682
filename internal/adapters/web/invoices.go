package web

import (
	"net/http"

	"invoicedesk/internal/app"
)

// listInvoices handles GET /api/invoices.
func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInvoices(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getInvoice handles GET /api/invoices/{id}.
func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

// createStandaloneInvoice handles POST /api/invoices. Invoices created here
// have no parent quotation and are paid in full by construction.
func (h *Handler) createStandaloneInvoice(w http.ResponseWriter, r *http.Request) {
	var req app.CreateInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.svc.CreateStandaloneInvoice(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, inv)
}
